package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Sumatoshi-tech/splice/pkg/language"
	"github.com/Sumatoshi-tech/splice/pkg/rewrite"
	"github.com/Sumatoshi-tech/splice/pkg/textutil"
)

// ErrNoSourceFiles is returned when no file under the given paths has a
// language any rule targets.
var ErrNoSourceFiles = errors.New("no source files matched the rules")

// collectFiles expands paths into the files the rules can apply to.
// Directories are walked recursively, skipping excluded base names;
// explicitly named files are always kept.
func collectFiles(paths, exclude []string, rules []*rewrite.Rule) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var files []string

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			files = append(files, root)

			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if d.IsDir() {
				if path != root && slices.Contains(exclude, d.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			if d.Type().IsRegular() && targeted(path, rules) {
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoSourceFiles
	}

	return files, nil
}

// targeted reports whether any rule is written for the language of path.
// Only the file name is consulted here; content detection runs when the
// file is applied.
func targeted(path string, rules []*rewrite.Rule) bool {
	lang, err := language.ForPath(path, nil)
	if err != nil {
		return false
	}

	for _, r := range rules {
		if r.AppliesTo(lang) {
			return true
		}
	}

	return false
}

type indexedFile struct {
	index int
	path  string
}

// applyFiles runs the engine over files with a pool of workers. Results
// keep the order of files. Binary files and files over maxSize bytes are
// skipped and leave a nil slot.
func applyFiles(
	ctx context.Context, engine *rewrite.Engine, files []string, rules []*rewrite.Rule, workers int, maxSize uint64,
) ([]*rewrite.Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	workers = min(workers, len(files))

	results := make([]*rewrite.Result, len(files))
	fileCh := make(chan indexedFile, workers)

	var (
		wg       sync.WaitGroup
		failed   atomic.Bool
		errOnce  sync.Once
		firstErr error
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for item := range fileCh {
				if failed.Load() {
					continue
				}

				res, err := applyFile(ctx, engine, item.path, rules, maxSize)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					failed.Store(true)

					continue
				}

				results[item.index] = res
			}
		}()
	}

	for i, f := range files {
		if failed.Load() || ctx.Err() != nil {
			break
		}

		fileCh <- indexedFile{index: i, path: f}
	}

	close(fileCh)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("apply canceled: %w", err)
	}

	return results, nil
}

func applyFile(
	ctx context.Context, engine *rewrite.Engine, path string, rules []*rewrite.Rule, maxSize uint64,
) (*rewrite.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if maxSize > 0 && uint64(info.Size()) > maxSize {
		return nil, nil //nolint:nilnil // skipped file
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if textutil.IsBinary(content) {
		return nil, nil //nolint:nilnil // skipped file
	}

	return engine.Apply(ctx, path, content, rules)
}

// writeResults writes every changed result back in place, keeping the
// file mode.
func writeResults(results []*rewrite.Result) error {
	for _, res := range results {
		if res == nil || !res.Changed() {
			continue
		}

		info, err := os.Stat(res.Path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", res.Path, err)
		}

		err = os.WriteFile(res.Path, []byte(res.Rewritten), info.Mode().Perm())
		if err != nil {
			return fmt.Errorf("write %s: %w", res.Path, err)
		}
	}

	return nil
}
