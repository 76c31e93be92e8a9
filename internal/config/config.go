// Package config loads the relforge.yaml release configuration.
//
// Values are resolved with the precedence CLI flags > environment (including
// a project-local .env) > relforge.yaml > built-in defaults. Flags are applied
// by the caller between Load and Validate.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project root.
const FileName = "relforge.yaml"

// Config represents the relforge.yaml configuration file.
type Config struct {
	// ProjectRoot is absolute after Load. Other relative paths are resolved
	// against it.
	ProjectRoot  string `yaml:"project_root,omitempty"`
	ProductName  string `yaml:"product_name"`
	BinaryName   string `yaml:"binary_name,omitempty"`
	TargetTriple string `yaml:"target_triple"`
	MetadataFile string `yaml:"metadata_file"`
	OutputDir    string `yaml:"output_dir"`
	ModuleDir    string `yaml:"module_dir"`
	NDKPath      string `yaml:"ndk_path"`

	Tools     ToolsConfig     `yaml:"tools"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Publish   PublishConfig   `yaml:"publish,omitempty"`
}

// ToolsConfig names the toolchain executables.
type ToolsConfig struct {
	Rustup     string   `yaml:"rustup"`
	Cargo      string   `yaml:"cargo"`
	ClippyArgs []string `yaml:"clippy_args,omitempty"`
	BuildArgs  []string `yaml:"build_args,omitempty"`
}

// ArchiveConfig selects how the staging directory is compressed.
type ArchiveConfig struct {
	Format       string `yaml:"format"` // 7z or builtin
	SevenZipPath string `yaml:"seven_zip_path"`
	Checksum     *bool  `yaml:"checksum,omitempty"`
}

// NormalizeConfig lists file extensions converted to LF line endings.
type NormalizeConfig struct {
	Extensions []string `yaml:"extensions,omitempty"`
}

// PublishConfig describes an optional S3-compatible upload destination.
// Credentials are only read from the environment.
type PublishConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Insecure  bool   `yaml:"insecure,omitempty"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// Load reads root/relforge.yaml when present, applies the environment and
// defaults, and makes every path absolute. It does not call Validate.
func Load(root string) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	return load(filepath.Join(absRoot, FileName), absRoot, true)
}

// LoadFile is Load with an explicit configuration file, which must exist.
// Relative paths in it are resolved against root.
func LoadFile(path, root string) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	return load(path, absRoot, false)
}

func load(path, absRoot string, optional bool) (*Config, error) {
	config := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		parsed, err := Parse(data)
		if err != nil {
			return nil, err
		}
		config = parsed
	case optional && errors.Is(err, fs.ErrNotExist):
		// Defaults only
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	lookup, err := EnvLookup(absRoot)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(lookup)
	config.applyDefaults(lookup)
	config.resolvePaths(absRoot)

	return config, nil
}

// Parse validates data against the schema and decodes it.
func Parse(data []byte) (*Config, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &config, nil
}

// Save writes the config to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.ProjectRoot == "" {
		return fmt.Errorf("project_root is required")
	}
	if c.ProductName == "" {
		return fmt.Errorf("product_name is required")
	}
	if c.TargetTriple == "" {
		return fmt.Errorf("target_triple is required")
	}
	if c.OutputDir == "" || c.ModuleDir == "" {
		return fmt.Errorf("output_dir and module_dir are required")
	}
	if filepath.Clean(c.OutputDir) == filepath.Clean(c.ModuleDir) {
		return fmt.Errorf("output_dir and module_dir must differ: %s", c.OutputDir)
	}
	// The work archive is written to the project root and relocated into
	// output_dir; the module directory is archived whole.
	if filepath.Clean(c.OutputDir) == filepath.Clean(c.ProjectRoot) {
		return fmt.Errorf("output_dir must not be the project root: %s", c.OutputDir)
	}
	if within(c.ModuleDir, c.ProjectRoot) {
		return fmt.Errorf("module_dir must not contain the project root: %s", c.ModuleDir)
	}
	if within(c.ModuleDir, c.OutputDir) {
		return fmt.Errorf("output_dir must not be inside module_dir: %s", c.OutputDir)
	}

	switch c.Archive.Format {
	case "7z", "builtin":
	default:
		return fmt.Errorf("archive.format must be 7z or builtin, got %q", c.Archive.Format)
	}

	if c.Publish.Bucket != "" && c.Publish.Endpoint == "" {
		return fmt.Errorf("publish.endpoint is required when publish.bucket is set")
	}
	return nil
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ChecksumEnabled reports whether a .sha256 file is written next to the archive.
func (c *Config) ChecksumEnabled() bool {
	return c.Archive.Checksum == nil || *c.Archive.Checksum
}

// UsesSevenZip reports whether the external 7-Zip archiver is selected.
func (c *Config) UsesSevenZip() bool {
	return c.Archive.Format == "7z"
}

// applyDefaults sets default values for missing fields.
func (c *Config) applyDefaults(lookup LookupFunc) {
	if c.ProductName == "" {
		c.ProductName = "FreePPS"
	}
	if c.TargetTriple == "" {
		c.TargetTriple = "aarch64-linux-android"
	}
	if c.MetadataFile == "" {
		c.MetadataFile = "Cargo.toml"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.ModuleDir == "" {
		c.ModuleDir = "module"
	}
	if c.NDKPath == "" {
		c.NDKPath = defaultNDKPath(lookup)
	}

	if c.Tools.Rustup == "" {
		c.Tools.Rustup = "rustup"
	}
	if c.Tools.Cargo == "" {
		c.Tools.Cargo = "cargo"
	}

	if c.Archive.Format == "" {
		c.Archive.Format = "7z"
	}
	if c.Archive.SevenZipPath == "" {
		c.Archive.SevenZipPath = defaultSevenZipPath()
	}
}

func defaultNDKPath(lookup LookupFunc) string {
	for _, key := range []string{"ANDROID_NDK_HOME", "ANDROID_NDK_ROOT", "NDK_HOME"} {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
	}
	if runtime.GOOS == "windows" {
		return "D:/android-ndk"
	}
	return ""
}

func defaultSevenZipPath() string {
	if runtime.GOOS == "windows" {
		return `D:\7-Zip\7z.exe`
	}
	return "7z"
}

// resolvePaths makes project-relative paths absolute.
func (c *Config) resolvePaths(root string) {
	switch {
	case c.ProjectRoot == "":
		c.ProjectRoot = root
	case !filepath.IsAbs(c.ProjectRoot):
		c.ProjectRoot = filepath.Join(root, c.ProjectRoot)
	}
	c.ResolveRelative()
}

// ResolveRelative joins relative directory and file settings onto
// ProjectRoot. Call it again after overriding paths from flags.
func (c *Config) ResolveRelative() {
	for _, p := range []*string{&c.MetadataFile, &c.OutputDir, &c.ModuleDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(c.ProjectRoot, *p)
		}
	}
}

// NewDefaultConfig creates a config file skeleton with the stock settings.
func NewDefaultConfig(productName string) *Config {
	checksum := true
	return &Config{
		ProductName:  productName,
		TargetTriple: "aarch64-linux-android",
		MetadataFile: "Cargo.toml",
		OutputDir:    "output",
		ModuleDir:    "module",
		Tools: ToolsConfig{
			Rustup: "rustup",
			Cargo:  "cargo",
		},
		Archive: ArchiveConfig{
			Format:       "7z",
			SevenZipPath: defaultSevenZipPath(),
			Checksum:     &checksum,
		},
		Normalize: NormalizeConfig{
			Extensions: []string{".sh", ".prop"},
		},
	}
}
