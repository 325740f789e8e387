// Package driver runs the formatter over files and directories: it collects
// the SystemVerilog sources, formats them on a bounded worker pool, and
// returns per-file results in a deterministic order.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"svfmt/internal/config"
	"svfmt/internal/diag"
	"svfmt/internal/format"
	"svfmt/internal/parser"
	"svfmt/internal/source"
)

// ErrNoFiles means the given paths contained nothing with a SystemVerilog
// extension.
var ErrNoFiles = errors.New("no SystemVerilog files found to format")

type Options struct {
	// Check reports whether files would change instead of writing.
	Check bool
	// InPlace rewrites changed files on disk.
	InPlace bool
	// Jobs bounds the worker pool; non-positive means one per CPU.
	Jobs int
	// MaxDiagnostics caps the diagnostics kept per file.
	MaxDiagnostics int

	Config config.Config
}

// Result is the outcome for one file.
type Result struct {
	Path       string
	Changed    bool
	Formatted  []byte
	Violations []format.Violation
	Bag        *diag.Bag
	// Rendered holds the bag formatted for terminal output, one
	// diagnostic per line.
	Rendered string
	Err      error
}

// FormatPaths formats every SystemVerilog file under paths. Results come
// back indexed by the sorted file list, so output order never depends on
// scheduling.
func FormatPaths(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	files, err := CollectSourceFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(opts.Jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return nil
			}
			results[i] = formatOne(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func workerCount(jobs, files int) int {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > files {
		jobs = files
	}
	if jobs < 1 {
		jobs = 1
	}
	return jobs
}

func formatOne(path string, opts Options) Result {
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 64
	}
	bag := diag.NewBag(maxDiag)
	reporter := diag.BagReporter{Bag: bag}

	fset := source.NewFileSet()
	id, err := fset.Load(path)
	if err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Message:  err.Error(),
		})
		return Result{Path: path, Bag: bag, Err: err}
	}

	sf := fset.Get(id)
	tree := parser.Parse(sf, parser.Options{Reporter: reporter})
	if bag.HasErrors() {
		bag.Sort()
		return Result{
			Path:     path,
			Bag:      bag,
			Rendered: diag.RenderShort(bag.Items(), fset),
			Err:      fmt.Errorf("%s: input has lexical or structural errors", path),
		}
	}

	formatted := format.Format(tree, opts.Config, reporter)
	bag.Sort()

	res := Result{
		Path:       path,
		Changed:    !bytes.Equal(formatted, withTrailingNewline(sf.Content)),
		Formatted:  formatted,
		Violations: format.LineViolations(formatted, opts.Config.MaxLineLength),
		Bag:        bag,
		Rendered:   diag.RenderShort(bag.Items(), fset),
	}

	if opts.InPlace && res.Changed {
		mode := fs.FileMode(0o644)
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode().Perm()
		}
		if writeErr := os.WriteFile(path, formatted, mode); writeErr != nil {
			res.Err = writeErr
		}
	}
	return res
}

// withTrailingNewline matches the renderer's trailing-newline guarantee so
// a file differing only in a missing final newline counts as changed.
func withTrailingNewline(content []byte) []byte {
	if len(content) == 0 || content[len(content)-1] == '\n' {
		return content
	}
	out := make([]byte, len(content)+1)
	copy(out, content)
	out[len(content)] = '\n'
	return out
}

// CollectSourceFiles expands paths into the sorted, deduplicated list of
// SystemVerilog files: directories recurse, files pass through when their
// extension matches.
func CollectSourceFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		if info.IsDir() {
			walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && isSourceFile(p) {
					files = append(files, p)
				}
				return nil
			})
			if walkErr != nil {
				return nil, walkErr
			}
			continue
		}
		if isSourceFile(path) {
			files = append(files, path)
		}
	}

	sort.Strings(files)
	deduped := files[:0]
	for i, f := range files {
		if i == 0 || f != files[i-1] {
			deduped = append(deduped, f)
		}
	}
	return deduped, nil
}

func isSourceFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sv", ".svh", ".v", ".vh":
		return true
	}
	return false
}
