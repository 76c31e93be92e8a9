package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFile is the optional dotenv file in the project root.
const EnvFile = ".env"

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a lookup over the process environment backed by
// root/.env. Variables set in the process win over the file, matching
// godotenv.Load semantics without mutating the environment.
func EnvLookup(root string) (LookupFunc, error) {
	values, err := godotenv.Read(filepath.Join(root, EnvFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", EnvFile, err)
		}
		values = map[string]string{}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// MapLookup adapts a map for tests and callers with prepared values.
func MapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// ApplyEnv overrides file values with RELFORGE_* variables.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("RELFORGE_PROJECT_ROOT", &c.ProjectRoot)
	str("RELFORGE_PRODUCT", &c.ProductName)
	str("RELFORGE_BINARY", &c.BinaryName)
	str("RELFORGE_TARGET", &c.TargetTriple)
	str("RELFORGE_OUTPUT_DIR", &c.OutputDir)
	str("RELFORGE_MODULE_DIR", &c.ModuleDir)
	str("RELFORGE_NDK_PATH", &c.NDKPath)
	str("RELFORGE_7Z_PATH", &c.Archive.SevenZipPath)
	str("RELFORGE_ARCHIVER", &c.Archive.Format)
	str("RELFORGE_CARGO", &c.Tools.Cargo)
	str("RELFORGE_RUSTUP", &c.Tools.Rustup)

	if v, ok := lookup("RELFORGE_EXTENSIONS"); ok && v != "" {
		var exts []string
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				exts = append(exts, e)
			}
		}
		c.Normalize.Extensions = exts
	}

	if v, ok := lookup("RELFORGE_CHECKSUM"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Archive.Checksum = &b
		}
	}

	str("RELFORGE_S3_ENDPOINT", &c.Publish.Endpoint)
	str("RELFORGE_S3_BUCKET", &c.Publish.Bucket)
	str("RELFORGE_S3_ACCESS_KEY", &c.Publish.AccessKey)
	str("RELFORGE_S3_SECRET_KEY", &c.Publish.SecretKey)
}
