// Package loader reads the catalog CSV into Title records.
package loader

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/catalog-eda/internal/logger"
	"github.com/j-veylop/catalog-eda/internal/models"
)

// Columns lists the header names every dataset must provide.
var Columns = []string{
	"show_id", "type", "title", "director", "cast", "country",
	"date_added", "release_year", "rating", "duration", "listed_in", "description",
}

// dateLayouts are tried in order for date_added ("September 9, 2019").
var dateLayouts = []string{
	"January 2, 2006",
	"January 02, 2006",
}

// maxLoggedWarnings caps how many warnings are logged one by one.
const maxLoggedWarnings = 5

// Result is the outcome of a successful load.
type Result struct {
	Titles   []models.Title
	Warnings []FieldParseWarning
	// NonMissing counts the non-blank cells of each column, in Columns order.
	NonMissing []models.ColumnCount
	// SHA256 is the hex digest of the bytes Titles was parsed from. Parse
	// leaves it empty.
	SHA256 string
}

// Load opens path and parses it as a catalog dataset.
func Load(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Kind: ErrNotFound, Path: path}
		}
		return nil, &LoadError{Kind: ErrRead, Path: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("failed to close dataset", "path", path, "error", err)
		}
	}()

	h := sha256.New()
	tee := io.TeeReader(f, h)
	res, err := Parse(tee)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	// The csv reader stops at EOF, but drain anyway so the digest always
	// covers the whole file.
	if _, err := io.Copy(io.Discard, tee); err != nil {
		return nil, &LoadError{Kind: ErrRead, Path: path, Err: err}
	}
	res.SHA256 = hex.EncodeToString(h.Sum(nil))

	logWarnings(path, res.Warnings)
	logger.Debug("dataset loaded", "path", path, "titles", len(res.Titles), "warnings", len(res.Warnings))
	return res, nil
}

// Parse reads a catalog dataset from r.
func Parse(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Kind: ErrSchema, Err: errors.New("missing header row")}
		}
		return nil, &LoadError{Kind: ErrSchema, Err: err}
	}

	idx, err := resolveColumns(header)
	if err != nil {
		return nil, &LoadError{Kind: ErrSchema, Err: err}
	}

	res := &Result{
		Titles:     make([]models.Title, 0, 1024),
		NonMissing: make([]models.ColumnCount, len(Columns)),
	}
	for i, col := range Columns {
		res.NonMissing[i].Column = col
	}
	seen := make(map[string]int)

	for row := 1; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Kind: ErrSchema, Err: err}
		}

		for i, col := range Columns {
			if strings.TrimSpace(record[idx[col]]) != "" {
				res.NonMissing[i].Count++
			}
		}

		t := buildTitle(record, idx, row, &res.Warnings)
		if t.ID != "" {
			if first, dup := seen[t.ID]; dup {
				res.Warnings = append(res.Warnings, FieldParseWarning{
					Row:    row,
					Field:  "show_id",
					Value:  t.ID,
					Reason: fmt.Sprintf("duplicate of row %d", first),
				})
			} else {
				seen[t.ID] = row
			}
		}
		res.Titles = append(res.Titles, t)
	}

	return res, nil
}

// resolveColumns maps each expected column to its position in header.
func resolveColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range Columns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func buildTitle(record []string, idx map[string]int, row int, warnings *[]FieldParseWarning) models.Title {
	get := func(col string) string { return record[idx[col]] }

	t := models.Title{
		ID:          get("show_id"),
		Type:        models.ContentType(get("type")),
		Name:        get("title"),
		Director:    get("director"),
		Cast:        get("cast"),
		Country:     get("country"),
		Rating:      get("rating"),
		Duration:    get("duration"),
		ListedIn:    get("listed_in"),
		Description: get("description"),
	}

	if raw := strings.TrimSpace(get("release_year")); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			t.ReleaseYear = &year
		} else {
			*warnings = append(*warnings, FieldParseWarning{
				Row: row, Field: models.FieldReleaseYear, Value: raw, Reason: "not an integer",
			})
		}
	}

	if raw := strings.TrimSpace(get("date_added")); raw != "" {
		if d, ok := parseDate(raw); ok {
			t.DateAdded = &d
		} else {
			*warnings = append(*warnings, FieldParseWarning{
				Row: row, Field: models.FieldDateAdded, Value: raw, Reason: "not a \"Month D, YYYY\" date",
			})
		}
	}

	return t
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func logWarnings(path string, warnings []FieldParseWarning) {
	for i, w := range warnings {
		if i == maxLoggedWarnings {
			logger.Warn("further field warnings suppressed", "path", path, "remaining", len(warnings)-i)
			return
		}
		logger.Warn("field treated as missing", "path", path, "row", w.Row, "field", w.Field, "value", w.Value, "reason", w.Reason)
	}
}

// HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
