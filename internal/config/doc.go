// Package config loads the optional echoplug HCL configuration file.
//
// The file is a flat set of attributes plus an optional log block:
//
//	data_dir     = "${env.HOME}/.echoplug"
//	module_dir   = "."
//	go_binary    = "go"
//	go_version   = "1.24"
//	keep_sources = false
//
//	log {
//	  level  = "debug"
//	  format = "text"
//	}
//
// Expressions are evaluated with a single variable, env, an object holding
// the process environment.
package config
