package stats

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/carestats/internal/table"
)

// DefaultPattern matches the yearly reconciled extracts.
const DefaultPattern = "**/認定状態・総人口20??.csv"

var yearPattern = regexp.MustCompile(`(?:19|20)\d{2}`)

// YearFile is a yearly extract found on disk.
type YearFile struct {
	Year int
	Path string
}

// DiscoverYears globs dir for pattern and extracts the last four-digit year
// in each file name. Files without a year are skipped. The result is
// sorted by year descending.
func DiscoverYears(dir, pattern string) ([]YearFile, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}
	var files []YearFile
	for _, m := range matches {
		years := yearPattern.FindAllString(filepath.Base(m), -1)
		if len(years) == 0 {
			continue
		}
		y, _ := strconv.Atoi(years[len(years)-1])
		files = append(files, YearFile{Year: y, Path: m})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Year != files[j].Year {
			return files[i].Year > files[j].Year
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// Collect reads each yearly file and computes its rates concurrently.
func Collect(ctx context.Context, files []YearFile, read table.ReadOptions, opts Options) ([]AreaRate, error) {
	all, err := collect(ctx, files, read, func(t *table.Table, year int) ([]AreaRate, error) {
		return Rates(t, year, opts)
	})
	if err != nil {
		return nil, err
	}
	Sort(all)
	return all, nil
}

// CollectCareLevels reads each yearly file and computes its care-level
// distribution concurrently.
func CollectCareLevels(ctx context.Context, files []YearFile, read table.ReadOptions, opts Options) ([]CareLevel, error) {
	all, err := collect(ctx, files, read, func(t *table.Table, year int) ([]CareLevel, error) {
		return CareLevels(t, year, opts)
	})
	if err != nil {
		return nil, err
	}
	SortCareLevels(all)
	return all, nil
}

func collect[T any](ctx context.Context, files []YearFile, read table.ReadOptions, fn func(*table.Table, int) ([]T, error)) ([]T, error) {
	results := make([][]T, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, _, err := table.ReadFile(f.Path, read)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Path, err)
			}
			r, err := fn(t, f.Year)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Path, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var all []T
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}
