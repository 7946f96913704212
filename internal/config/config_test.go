package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "echoplug.hcl")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestLoad_AllFields(t *testing.T) {
	t.Setenv("ECHOPLUG_TEST_ROOT", "/srv/echo")
	path := writeConfig(t, `
data_dir     = "${env.ECHOPLUG_TEST_ROOT}/data"
module_dir   = "/src/echoplug"
go_binary    = "go1.24"
go_version   = "1.24"
keep_sources = true

log {
  level  = "debug"
  format = "json"
}
`)

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/echo/data", f.DataDir)
	assert.Equal(t, "/src/echoplug", f.ModuleDir)
	assert.Equal(t, "go1.24", f.GoBinary)
	assert.Equal(t, "1.24", f.GoVersion)
	assert.True(t, f.KeepSources)
	require.NotNil(t, f.Log)
	assert.Equal(t, "debug", f.Log.Level)
	assert.Equal(t, "json", f.Log.Format)
}

func TestLoad_EmptyFile(t *testing.T) {
	f, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, &File{}, f)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want string
	}{
		{"syntax error", `data_dir = "unterminated`, "failed to parse"},
		{"unknown attribute", `colour = "blue"`, "failed to decode"},
		{"wrong type", `keep_sources = "maybe"`, "failed to decode"},
		{"unknown env var", `data_dir = env.ECHOPLUG_DOES_NOT_EXIST_42`, "failed to decode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.text))
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}

func TestEvalContext(t *testing.T) {
	ctx := EvalContext([]string{"A=1", "B=x=y", "malformed", "=skip"})

	env := ctx.Variables["env"]
	require.True(t, env.Type().IsObjectType())
	assert.Equal(t, cty.StringVal("1"), env.GetAttr("A"))
	assert.Equal(t, cty.StringVal("x=y"), env.GetAttr("B"))
	assert.Len(t, env.AsValueMap(), 2)
}
