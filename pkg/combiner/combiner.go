// Package combiner merges the CSV files left behind by multiple
// scrape runs into a single deduplicated, sorted file.
package combiner

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"rosterscraper/pkg/logger"
	"rosterscraper/pkg/roster"
)

// Stats summarizes one combine operation.
type Stats struct {
	Files      int
	Rows       int
	Duplicates int
	Unique     int
}

// CombineGlob expands a glob pattern and combines the matching files.
func CombineGlob(pattern, outPath string) (Stats, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return Stats{}, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(files) == 0 {
		return Stats{}, fmt.Errorf("no files match %q", pattern)
	}
	sort.Strings(files)
	return Combine(files, outPath)
}

// Combine unions the instructor rows of the input CSV files, dedupes
// them by exact (FirstName, LastName) pair, sorts by last name then
// first name, and writes the result to outPath.
func Combine(files []string, outPath string) (Stats, error) {
	log := logger.GetLogger()
	set := roster.NewSet()
	stats := Stats{Files: len(files)}

	for _, file := range files {
		rows, err := readRows(file)
		if err != nil {
			return stats, err
		}
		log.WithFields(map[string]interface{}{
			"file": file,
			"rows": len(rows),
		}).Info("read run file")

		for _, n := range rows {
			stats.Rows++
			if !set.Add(n) {
				stats.Duplicates++
			}
		}
	}
	stats.Unique = set.Len()

	if err := writeRows(outPath, set.Sorted()); err != nil {
		return stats, err
	}

	log.WithFields(map[string]interface{}{
		"files":      stats.Files,
		"rows":       stats.Rows,
		"duplicates": stats.Duplicates,
		"unique":     stats.Unique,
		"out":        outPath,
	}).Info("combined run files")

	return stats, nil
}

func readRows(path string) ([]roster.Name, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	var names []roster.Name
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if first {
			first = false
			continue
		}
		if len(rec) < 2 {
			continue
		}
		names = append(names, roster.Name{First: rec[0], Last: rec[1]})
	}
	return names, nil
}

func writeRows(path string, names []roster.Name) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(file)
	if err := w.Write([]string{"FirstName", "LastName"}); err != nil {
		file.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, n := range names {
		if err := w.Write([]string{n.First, n.Last}); err != nil {
			file.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return file.Close()
}
