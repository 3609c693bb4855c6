package item

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/asheshgoplani/item-deck/internal/logging"
)

var loaderLog = logging.ForComponent(logging.CompLoader)

// DataFileExt is the extension of item data files.
const DataFileExt = ".json"

// Policy decides what happens when one data file fails to parse.
type Policy string

const (
	// PolicyStrict fails the whole load on the first bad file.
	PolicyStrict Policy = "strict"
	// PolicyLenient skips bad files and reports them as warnings.
	PolicyLenient Policy = "lenient"
)

// ParsePolicy maps a config string to a Policy, defaulting to strict.
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyLenient {
		return PolicyLenient
	}
	return PolicyStrict
}

// LoadOptions tunes LoadDir.
type LoadOptions struct {
	Policy Policy

	// MaxParallel caps concurrent file parsing (default: GOMAXPROCS)
	MaxParallel int
}

// LoadResult is everything LoadDir read.
type LoadResult struct {
	Root     string
	Records  []Record
	Files    []string
	Warnings []*LoadError // only populated under PolicyLenient
	Duration time.Duration
}

type fileResult struct {
	objects []*Object
	err     error
}

// LoadDir reads every .json file below root and concatenates their records.
// Files are parsed in parallel but the result is in walk order: per file,
// then per position inside the file.
func LoadDir(ctx context.Context, root string, opts LoadOptions) (*LoadResult, error) {
	start := time.Now()
	if root == "" {
		return nil, ErrNoDataDir
	}
	if opts.Policy == "" {
		opts.Policy = PolicyStrict
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = runtime.GOMAXPROCS(0)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &LoadError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Path: root, Err: errors.New("not a directory")}
	}

	result := &LoadResult{Root: root}

	files, walkWarnings, err := listDataFiles(root, opts.Policy)
	if err != nil {
		return nil, err
	}
	result.Files = files
	result.Warnings = append(result.Warnings, walkWarnings...)

	slots := make([]fileResult, len(files))
	var g errgroup.Group
	g.SetLimit(opts.MaxParallel)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			objs, err := loadFile(path)
			slots[i] = fileResult{objects: objs, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, slot := range slots {
		if slot.err != nil {
			var le *LoadError
			if !errors.As(slot.err, &le) {
				le = &LoadError{Path: files[i], Err: slot.err}
			}
			if opts.Policy == PolicyStrict {
				loaderLog.Error("load_failed",
					slog.String("path", le.Path),
					slog.String("error", le.Err.Error()))
				return nil, le
			}
			loaderLog.Warn("file_skipped",
				slog.String("path", le.Path),
				slog.String("error", le.Err.Error()))
			result.Warnings = append(result.Warnings, le)
			continue
		}
		for j, obj := range slot.objects {
			result.Records = append(result.Records, Record{Data: obj, Source: files[i], Index: j})
		}
	}

	result.Duration = time.Since(start)
	loaderLog.Info("load_complete",
		slog.String("root", root),
		slog.Int("files", len(files)),
		slog.Int("records", len(result.Records)),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// listDataFiles returns the .json files below root in lexical walk order.
// An unreadable subdirectory is fatal under PolicyStrict and skipped otherwise.
func listDataFiles(root string, policy Policy) ([]string, []*LoadError, error) {
	var files []string
	var warnings []*LoadError

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root || policy == PolicyStrict {
				return &LoadError{Path: path, Err: err}
			}
			warnings = append(warnings, &LoadError{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != DataFileExt {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			// follow links to files; links to directories are not descended
			info, statErr := os.Stat(path)
			if statErr != nil {
				if policy == PolicyStrict {
					return &LoadError{Path: path, Err: statErr}
				}
				warnings = append(warnings, &LoadError{Path: path, Err: statErr})
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return files, warnings, nil
}

func loadFile(path string) ([]*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	objs, err := parseRecordArray(bufio.NewReader(f))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return objs, nil
}
