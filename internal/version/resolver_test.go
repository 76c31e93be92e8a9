package version

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bare declaration",
			text: `version = "1.2.3"`,
			want: "1.2.3",
		},
		{
			name: "package table",
			text: "[package]\nname = \"FreePPS\"\nversion = \"2.0.0\"\nedition = \"2021\"\n",
			want: "2.0.0",
		},
		{
			name: "package table wins over earlier dependency",
			text: "[dependencies]\nlog = { version = \"0.4\" }\n\n[package]\nname = \"FreePPS\"\nversion = \"3.1.0\"\n",
			want: "3.1.0",
		},
		{
			name: "invalid toml falls back to first declaration",
			text: "[package\nversion   =   \"0.9.1-beta\"\n",
			want: "0.9.1-beta",
		},
		{
			name: "workspace inherited version falls back to text scan",
			text: "[package]\nname = \"x\"\nversion.workspace = true\n",
			want: "",
		},
		{
			name: "no version",
			text: "[package]\nname = \"FreePPS\"\n",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromText(tt.text))
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	path := writeManifest(t, "[package]\nname = \"FreePPS\"\nversion = \"1.2.3\"\n")
	r := &Resolver{}
	assert.Equal(t, "1.2.3", r.Resolve(path))
}

func TestResolver_Resolve_MissingFileIsSoftFailure(t *testing.T) {
	var warn []string
	r := &Resolver{Warnf: func(format string, args ...any) {
		warn = append(warn, fmt.Sprintf(format, args...))
	}}

	got := r.Resolve(filepath.Join(t.TempDir(), "Cargo.toml"))
	assert.Empty(t, got)
	require.Len(t, warn, 1)
	assert.Contains(t, warn[0], "could not read")
}

func TestResolver_Resolve_NoVersionWarns(t *testing.T) {
	var warn []string
	r := &Resolver{Warnf: func(format string, args ...any) {
		warn = append(warn, fmt.Sprintf(format, args...))
	}}

	got := r.Resolve(writeManifest(t, "[package]\nname = \"FreePPS\"\n"))
	assert.Empty(t, got)
	require.Len(t, warn, 1)
	assert.Contains(t, warn[0], "no version declared")
}

func TestResolver_PackageName(t *testing.T) {
	r := &Resolver{}
	assert.Equal(t, "FreePPS", r.PackageName(writeManifest(t, "[package]\nname = \"FreePPS\"\nversion = \"1.0.0\"\n")))
	assert.Equal(t, "legacy", r.PackageName(writeManifest(t, "[package\nname = 'legacy'\n")))
	assert.Empty(t, r.PackageName(writeManifest(t, "[dependencies]\n")))
}

func TestArchiveName(t *testing.T) {
	assert.Equal(t, "FreePPS_v2.0.0.zip", ArchiveName("FreePPS", "2.0.0", "zip"))
	assert.Equal(t, "FreePPS.zip", ArchiveName("FreePPS", "", "zip"))
}
