package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, "FreePPS", cfg.ProductName)
	assert.Equal(t, "aarch64-linux-android", cfg.TargetTriple)
	assert.Equal(t, filepath.Join(root, "Cargo.toml"), cfg.MetadataFile)
	assert.Equal(t, filepath.Join(root, "output"), cfg.OutputDir)
	assert.Equal(t, filepath.Join(root, "module"), cfg.ModuleDir)
	assert.Equal(t, "rustup", cfg.Tools.Rustup)
	assert.Equal(t, "cargo", cfg.Tools.Cargo)
	assert.Empty(t, cfg.Tools.ClippyArgs)
	assert.Equal(t, "7z", cfg.Archive.Format)
	assert.True(t, cfg.ChecksumEnabled())
	assert.True(t, cfg.UsesSevenZip())
	if runtime.GOOS == "windows" {
		assert.Equal(t, `D:\7-Zip\7z.exe`, cfg.Archive.SevenZipPath)
	} else {
		assert.Equal(t, "7z", cfg.Archive.SevenZipPath)
	}
}

func TestLoad_FileValues(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
product_name: Death-Note
target_triple: armv7-linux-androideabi
output_dir: dist
module_dir: magisk
ndk_path: /opt/android-ndk
tools:
  clippy_args: ["-W", "clippy::pedantic"]
archive:
  format: builtin
  checksum: false
normalize:
  extensions: [".sh"]
`)

	cfg, err := Load(root)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Death-Note", cfg.ProductName)
	assert.Equal(t, "armv7-linux-androideabi", cfg.TargetTriple)
	assert.Equal(t, filepath.Join(root, "dist"), cfg.OutputDir)
	assert.Equal(t, filepath.Join(root, "magisk"), cfg.ModuleDir)
	assert.Equal(t, "/opt/android-ndk", cfg.NDKPath)
	assert.Equal(t, []string{"-W", "clippy::pedantic"}, cfg.Tools.ClippyArgs)
	assert.Equal(t, "builtin", cfg.Archive.Format)
	assert.False(t, cfg.ChecksumEnabled())
	assert.False(t, cfg.UsesSevenZip())
	assert.Equal(t, []string{".sh"}, cfg.Normalize.Extensions)
}

func TestLoad_RejectsSchemaViolations(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
product_name: FreePPS
archive:
  format: rar
unknown_key: true
`)

	_, err := Load(root)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Len(t, schemaErr.Violations, 2)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "product_name: FromFile\nndk_path: /file/ndk\n")
	writeFile(t, filepath.Join(root, EnvFile), "RELFORGE_PRODUCT=FromDotenv\nRELFORGE_NDK_PATH=/dotenv/ndk\n")
	t.Setenv("RELFORGE_NDK_PATH", "/process/ndk")

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "FromDotenv", cfg.ProductName)
	assert.Equal(t, "/process/ndk", cfg.NDKPath)
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyEnv(MapLookup(map[string]string{
		"RELFORGE_TARGET":        "x86_64-linux-android",
		"RELFORGE_ARCHIVER":      "builtin",
		"RELFORGE_EXTENSIONS":    ".sh, .prop,,.rc",
		"RELFORGE_CHECKSUM":      "false",
		"RELFORGE_S3_ENDPOINT":   "s3.example.com",
		"RELFORGE_S3_BUCKET":     "releases",
		"RELFORGE_S3_ACCESS_KEY": "ak",
		"RELFORGE_S3_SECRET_KEY": "sk",
	}))

	assert.Equal(t, "x86_64-linux-android", cfg.TargetTriple)
	assert.Equal(t, "builtin", cfg.Archive.Format)
	assert.Equal(t, []string{".sh", ".prop", ".rc"}, cfg.Normalize.Extensions)
	assert.False(t, cfg.ChecksumEnabled())
	assert.Equal(t, "releases", cfg.Publish.Bucket)
	assert.Equal(t, "ak", cfg.Publish.AccessKey)
	assert.Equal(t, "sk", cfg.Publish.SecretKey)
}

func TestDefaultNDKPath(t *testing.T) {
	got := defaultNDKPath(MapLookup(map[string]string{"ANDROID_NDK_ROOT": "/sdk/ndk/26"}))
	assert.Equal(t, "/sdk/ndk/26", got)

	got = defaultNDKPath(MapLookup(nil))
	if runtime.GOOS == "windows" {
		assert.Equal(t, "D:/android-ndk", got)
	} else {
		assert.Empty(t, got)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := NewDefaultConfig("FreePPS")
		c.ProjectRoot = "/src"
		c.ResolveRelative()
		return c
	}

	require.NoError(t, base().Validate())

	c := base()
	c.ProductName = ""
	assert.ErrorContains(t, c.Validate(), "product_name")

	c = base()
	c.ModuleDir = c.OutputDir
	assert.ErrorContains(t, c.Validate(), "must differ")

	c = base()
	c.OutputDir = c.ProjectRoot
	assert.ErrorContains(t, c.Validate(), "must not be the project root")

	c = base()
	c.ModuleDir = c.ProjectRoot
	assert.ErrorContains(t, c.Validate(), "must not contain the project root")

	c = base()
	c.OutputDir = filepath.Join(c.ModuleDir, "dist")
	assert.ErrorContains(t, c.Validate(), "must not be inside module_dir")

	c = base()
	c.ModuleDir = filepath.Join(c.ProjectRoot, "module")
	c.OutputDir = filepath.Join(c.ProjectRoot, "module-output")
	require.NoError(t, c.Validate())

	c = base()
	c.Archive.Format = "tar"
	assert.ErrorContains(t, c.Validate(), "archive.format")

	c = base()
	c.Publish.Bucket = "releases"
	assert.ErrorContains(t, c.Validate(), "publish.endpoint")
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, NewDefaultConfig("FreePPS").Save(filepath.Join(root, FileName)))

	data, err := os.ReadFile(filepath.Join(root, FileName))
	require.NoError(t, err)
	require.NoError(t, ValidateSchema(data))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "FreePPS", cfg.ProductName)
}

func TestValidateSchema_EmptyDocument(t *testing.T) {
	require.NoError(t, ValidateSchema(nil))
	require.NoError(t, ValidateSchema([]byte("# nothing configured\n")))
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cargo.toml"), "[package]\n")
	nested := filepath.Join(root, "src", "monitoring")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	writeFile(t, filepath.Join(root, "src", FileName), "")
	got, err = FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src"), got)
}

func TestLoadFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(t.TempDir(), "ci.yaml")
	writeFile(t, path, "product_name: Nightly\noutput_dir: dist\n")

	cfg, err := LoadFile(path, root)
	require.NoError(t, err)
	assert.Equal(t, "Nightly", cfg.ProductName)
	assert.Equal(t, filepath.Join(root, "dist"), cfg.OutputDir)

	_, err = LoadFile(filepath.Join(root, "missing.yaml"), root)
	require.Error(t, err)
}
