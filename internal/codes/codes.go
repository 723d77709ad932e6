// Package codes loads the ADA CDT code lookup table and scans free text for
// code mentions.
package codes

import (
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// codePattern matches four-digit ADA CDT codes (D-prefixed), case-insensitive.
var codePattern = regexp.MustCompile(`(?i)\bD\d{4}\b`)

// Known is a code resolved against the lookup table.
type Known struct {
	Code        string
	Description string
}

// Table is an mtime-cached view over a CSV code file with `code` and
// `description` columns (header match is case-insensitive). A missing or
// unreadable file yields an empty table, never an error.
type Table struct {
	path   string
	logger *zap.Logger

	mu     sync.Mutex
	cache  map[string]string
	mtime  time.Time
	loaded bool
}

// NewTable creates a code table backed by the given CSV file.
func NewTable(path string, logger *zap.Logger) *Table {
	return &Table{
		path:   path,
		logger: logger,
	}
}

// Lookup returns the code-to-description map, reloading the file when its
// modification time changes.
func (t *Table) Lookup() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()

	info, err := os.Stat(t.path)
	if err != nil {
		if t.loaded && len(t.cache) > 0 {
			t.logger.Warn("ADA codes file missing", zap.String("path", t.path))
		}
		t.cache = map[string]string{}
		t.loaded = true
		t.mtime = time.Time{}
		return t.cache
	}

	if t.loaded && info.ModTime().Equal(t.mtime) {
		return t.cache
	}

	codes, err := t.read()
	if err != nil {
		t.logger.Error("Failed to load ADA codes", zap.String("path", t.path), zap.Error(err))
		codes = map[string]string{}
	}

	t.cache = codes
	t.mtime = info.ModTime()
	t.loaded = true
	return t.cache
}

func (t *Table) read() (map[string]string, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return map[string]string{}, nil
		}
		return nil, err
	}

	codeIdx, descIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "code":
			codeIdx = i
		case "description":
			descIdx = i
		}
	}

	codes := make(map[string]string)
	if codeIdx == -1 || descIdx == -1 {
		return codes, nil
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) <= codeIdx || len(row) <= descIdx {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(row[codeIdx]))
		desc := strings.TrimSpace(row[descIdx])
		if code == "" || desc == "" {
			continue
		}
		codes[code] = desc
	}

	return codes, nil
}

// Scan extracts every ADA code mentioned in text and partitions the matches
// into codes the table knows and codes it does not. Both lists are sorted
// and free of duplicates; together they cover exactly the matched codes.
func (t *Table) Scan(text string) (known []Known, unknown []string) {
	matches := codePattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	lookup := t.Lookup()
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		code := strings.ToUpper(m)
		if seen[code] {
			continue
		}
		seen[code] = true
		if desc, ok := lookup[code]; ok {
			known = append(known, Known{Code: code, Description: desc})
		} else {
			unknown = append(unknown, code)
		}
	}

	sort.Slice(known, func(i, j int) bool { return known[i].Code < known[j].Code })
	sort.Strings(unknown)
	return known, unknown
}
