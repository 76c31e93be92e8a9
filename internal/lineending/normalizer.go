// Package lineending rewrites CRLF line terminators to LF in text assets of
// a staging directory before it is archived.
package lineending

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dosanma1/relforge/pkg/xos"
)

var (
	crlf = []byte("\r\n")
	lf   = []byte("\n")
)

// DefaultExtensions are the script and property files shipped in a module.
var DefaultExtensions = []string{".sh", ".prop"}

// FileResult is the outcome for one file.
type FileResult struct {
	Path      string
	Converted bool
	Replaced  int
}

// Report summarizes a Normalize run.
type Report struct {
	Files []FileResult
}

// Scanned returns the number of matching files inspected.
func (r Report) Scanned() int {
	return len(r.Files)
}

// Converted returns the number of files that were rewritten.
func (r Report) Converted() int {
	n := 0
	for _, f := range r.Files {
		if f.Converted {
			n++
		}
	}
	return n
}

// Error wraps the failure that aborted a run. The report holds whatever
// was processed before it.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to normalize %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Normalizer converts CRLF to LF in files whose extension is listed.
type Normalizer struct {
	Extensions []string

	// OnFile, when set, is called after each file is processed.
	OnFile func(FileResult)
}

// New creates a Normalizer for the given extensions, or DefaultExtensions
// when none are given.
func New(extensions ...string) *Normalizer {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &Normalizer{Extensions: extensions}
}

// Matches reports whether path has one of the configured extensions.
func (n *Normalizer) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range n.Extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Normalize walks dir in lexical order and rewrites every matching file that
// contains CRLF. Files without CRLF are not written. The first read or write
// error aborts the walk and is returned as *Error.
func (n *Normalizer) Normalize(dir string) (Report, error) {
	var report Report

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &Error{Path: path, Err: err}
		}
		if !d.Type().IsRegular() || !n.Matches(path) {
			return nil
		}

		res, err := normalizeFile(path)
		if err != nil {
			return &Error{Path: path, Err: err}
		}
		report.Files = append(report.Files, res)
		if n.OnFile != nil {
			n.OnFile(res)
		}
		return nil
	})

	return report, err
}

func normalizeFile(path string) (FileResult, error) {
	res := FileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, err
	}

	count := bytes.Count(data, crlf)
	if count == 0 {
		return res, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return res, err
	}

	if err := xos.WriteFile(path, bytes.ReplaceAll(data, crlf, lf), info.Mode().Perm()); err != nil {
		return res, err
	}

	res.Converted = true
	res.Replaced = count
	return res, nil
}
