// Package registry resolves capability instances by identifier.
//
// Exports come from two catalogs. The static catalog is filled once at
// construction by the Modules compiled into the binary. The directory
// catalog holds the Exports of every plugin found in the extension
// directory, and only grows when Refresh is called. Resolve consults the
// static catalog first, so a plugin can never shadow a compiled-in export.
//
// Go plugins cannot be unloaded. An artifact that changes on disk after it
// was loaded keeps serving its original exports until the process restarts;
// Refresh logs the change and leaves the loaded version in place.
package registry
