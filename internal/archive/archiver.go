// Package archive builds the distribution archive from a staging directory
// and moves the finished archive into the output directory.
package archive

import (
	"context"
	"fmt"
	"sort"

	"github.com/dosanma1/relforge/internal/runner"
)

// Extension is the file extension of every archive produced.
const Extension = "zip"

// Archiver compresses a directory tree into a zip-compatible archive.
//
// Create always rebuilds dest from scratch: an existing file at dest is
// deleted before anything is written, so entries from an earlier run never
// survive into the new archive.
type Archiver interface {
	Name() string
	Create(ctx context.Context, srcDir, dest string) error
}

// Options carries what an archiver factory may need.
type Options struct {
	Runner       runner.Runner
	SevenZipPath string
	WorkDir      string
}

// Factory builds an Archiver from options.
type Factory func(opts Options) Archiver

var archivers = map[string]Factory{
	SevenZipName: func(opts Options) Archiver {
		return &SevenZip{Runner: opts.Runner, Path: opts.SevenZipPath, WorkDir: opts.WorkDir}
	},
	BuiltinName: func(Options) Archiver { return &Builtin{} },
}

// Get returns an archiver instance by name.
func Get(name string, opts Options) (Archiver, error) {
	factory, ok := archivers[name]
	if !ok {
		return nil, fmt.Errorf("unknown archiver: %s (available: %v)", name, List())
	}
	return factory(opts), nil
}

// Register adds or replaces an archiver factory.
func Register(name string, factory Factory) {
	archivers[name] = factory
}

// List returns the registered archiver names in sorted order.
func List() []string {
	names := make([]string, 0, len(archivers))
	for name := range archivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
