// Package version reads release metadata from a Cargo manifest.
//
// Resolution is best effort: an unreadable or unparsable manifest yields an
// empty result, and callers fall back to the default artifact name.
package version

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

var (
	versionPattern = regexp.MustCompile(`version\s*=\s*"([^"]+)"`)
	namePattern    = regexp.MustCompile(`(?m)^\s*name\s*=\s*["']([^"']+)["']`)
)

type cargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// Resolver extracts the declared version from project metadata.
type Resolver struct {
	// Warnf receives soft-failure diagnostics. Nil discards them.
	Warnf func(format string, args ...any)
}

// Resolve returns the version declared in the metadata file at path, or ""
// when the file cannot be read or declares no version.
func (r *Resolver) Resolve(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		r.warnf("could not read %s: %v", path, err)
		return ""
	}

	if v := FromText(string(data)); v != "" {
		return v
	}

	r.warnf("no version declared in %s", path)
	return ""
}

// PackageName returns the package name declared in the metadata file, or "".
func (r *Resolver) PackageName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		r.warnf("could not read %s: %v", path, err)
		return ""
	}

	var m cargoManifest
	if _, err := toml.Decode(string(data), &m); err == nil && m.Package.Name != "" {
		return m.Package.Name
	}

	if match := namePattern.FindStringSubmatch(string(data)); match != nil {
		return match[1]
	}
	return ""
}

func (r *Resolver) warnf(format string, args ...any) {
	if r == nil || r.Warnf == nil {
		return
	}
	r.Warnf(format, args...)
}

// FromText extracts a version from raw manifest text. The [package] table
// wins when the text is valid TOML; otherwise the first
// `version = "..."` declaration is used.
func FromText(text string) string {
	var m cargoManifest
	if _, err := toml.Decode(text, &m); err == nil && m.Package.Version != "" {
		return m.Package.Version
	}

	if match := versionPattern.FindStringSubmatch(text); match != nil {
		return match[1]
	}
	return ""
}

// ArchiveName applies the release naming policy: <product>_v<version>.<ext>
// when a version is known, <product>.<ext> otherwise.
func ArchiveName(product, version, ext string) string {
	if version == "" {
		return fmt.Sprintf("%s.%s", product, ext)
	}
	return fmt.Sprintf("%s_v%s.%s", product, version, ext)
}
