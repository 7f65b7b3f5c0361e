package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/catalog-eda/internal/models"
)

const header = "show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description\n"

func writeDataset(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "titles.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeDataset(t, header+
		`s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,,United States,"September 25, 2021",2020,PG-13,90 min,Documentaries,A film.`+"\n"+
		`s2,TV Show,Blood & Water,,"Ama Qamata, Khosi Ngema","South Africa, United States","September 24, 2021",2021,TV-MA,2 Seasons,"International TV Shows, TV Dramas",A show.`+"\n")

	res, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(res.Titles) != 2 {
		t.Fatalf("expected 2 titles, got %d", len(res.Titles))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}

	first := res.Titles[0]
	if first.ID != "s1" || first.Type != models.Movie || first.Duration != "90 min" {
		t.Errorf("unexpected first title: %+v", first)
	}
	if first.ReleaseYear == nil || *first.ReleaseYear != 2020 {
		t.Errorf("ReleaseYear = %v, want 2020", first.ReleaseYear)
	}
	want := time.Date(2021, time.September, 25, 0, 0, 0, 0, time.UTC)
	if first.DateAdded == nil || !first.DateAdded.Equal(want) {
		t.Errorf("DateAdded = %v, want %v", first.DateAdded, want)
	}
	if first.Director != "Kirsten Johnson" || first.Cast != "" {
		t.Errorf("unexpected people fields: %q / %q", first.Director, first.Cast)
	}

	second := res.Titles[1]
	if second.Type != models.TVShow {
		t.Errorf("Type = %q, want %q", second.Type, models.TVShow)
	}
	if second.Country != "South Africa, United States" {
		t.Errorf("quoted country not preserved: %q", second.Country)
	}
	if second.ListedIn != "International TV Shows, TV Dramas" {
		t.Errorf("quoted listed_in not preserved: %q", second.ListedIn)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, ErrSchema) {
		t.Error("missing file must not be reported as schema error")
	}

	var le *LoadError
	if !errors.As(err, &le) || !strings.HasSuffix(le.Path, "missing.csv") {
		t.Errorf("expected LoadError carrying path, got %v", err)
	}
}

func TestLoad_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Empty", ""},
		{"MissingColumns", "show_id,type,title\ns1,Movie,X\n"},
		{"RaggedRow", header + "s1,Movie,X\n"},
		{"BrokenQuote", header + `s1,Movie,"unterminated,,,,,,,,,,` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeDataset(t, tt.body))
			if !errors.Is(err, ErrSchema) {
				t.Errorf("expected ErrSchema, got %v", err)
			}
			if errors.Is(err, ErrNotFound) {
				t.Error("schema error must not look like not-found")
			}
		})
	}
}

func TestParse_ReorderedAndExtraColumns(t *testing.T) {
	body := "\ufeffextra, type ,show_id,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description\n" +
		"x,Movie,s9,T,,,,,1999,R,100 min,Dramas,d\n"

	res, err := Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	got := res.Titles[0]
	if got.ID != "s9" || got.Type != models.Movie || got.Rating != "R" {
		t.Errorf("columns resolved incorrectly: %+v", got)
	}
	if got.DateAdded != nil {
		t.Error("empty date_added should be missing")
	}
}

func TestParse_MalformedFieldsBecomeMissing(t *testing.T) {
	body := header +
		"s1,Movie,A,,,,not a date,unknown,PG,90 min,Dramas,d\n" +
		"s2,Movie,B,,,,\" August 4, 2017\",2017,PG,,Dramas,d\n" +
		"s3,TV Show,C,,,,,,,,,\n"

	res, err := Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.Titles) != 3 {
		t.Fatalf("records must not be dropped, got %d", len(res.Titles))
	}

	bad := res.Titles[0]
	if bad.ReleaseYear != nil {
		t.Error("malformed release_year should be missing")
	}
	if bad.DateAdded != nil {
		t.Error("malformed date_added should be missing")
	}
	if bad.Type != models.Movie {
		t.Error("other fields of a record with parse warnings must be kept")
	}

	padded := res.Titles[1]
	if padded.DateAdded == nil || padded.DateAdded.Year() != 2017 || padded.DateAdded.Month() != time.August {
		t.Errorf("leading space in date_added should be tolerated, got %v", padded.DateAdded)
	}

	if len(res.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(res.Warnings), res.Warnings)
	}
	fields := map[models.Field]bool{}
	for _, w := range res.Warnings {
		fields[w.Field] = true
		if w.Row != 1 {
			t.Errorf("warning row = %d, want 1", w.Row)
		}
	}
	if !fields[models.FieldReleaseYear] || !fields[models.FieldDateAdded] {
		t.Errorf("unexpected warning fields: %v", res.Warnings)
	}
}

func TestParse_DuplicateIDs(t *testing.T) {
	body := header +
		"s1,Movie,A,,,,,2000,,,,\n" +
		"s1,Movie,B,,,,,2001,,,,\n"

	res, err := Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.Titles) != 2 {
		t.Errorf("duplicates are kept, got %d titles", len(res.Titles))
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0].Reason, "row 1") {
		t.Errorf("expected duplicate warning, got %v", res.Warnings)
	}
}

func TestLoadError_Message(t *testing.T) {
	err := &LoadError{Kind: ErrSchema, Path: "a.csv", Err: errors.New("missing columns: rating")}
	if got := err.Error(); !strings.Contains(got, "a.csv") || !strings.Contains(got, "rating") {
		t.Errorf("Error() = %q", got)
	}

	bare := &LoadError{Kind: ErrNotFound}
	if got := bare.Error(); !strings.HasPrefix(got, "<input>") {
		t.Errorf("Error() = %q", got)
	}
}

func TestFieldParseWarning_String(t *testing.T) {
	w := FieldParseWarning{Row: 4, Field: models.FieldReleaseYear, Value: "unknown", Reason: "not an integer"}
	if got := w.String(); got != `row 4: release_year="unknown": not an integer` {
		t.Errorf("String() = %q", got)
	}
}

func TestHashFile(t *testing.T) {
	a := writeDataset(t, header)
	b := writeDataset(t, header)

	ha, err := HashFile(a)
	if err != nil {
		t.Fatalf("HashFile() failed: %v", err)
	}
	hb, _ := HashFile(b)
	if ha != hb || len(ha) != 64 {
		t.Errorf("hashes differ or malformed: %s vs %s", ha, hb)
	}

	if _, err := HashFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_DigestMatchesParsedBytes(t *testing.T) {
	path := writeDataset(t, header+
		`s1,Movie,A,,,India,"March 3, 2020",2019,TV-14,95 min,Dramas,x`+"\n"+
		`s2,Movie,B,,,,,,,,,`+"\n")

	res, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	want, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.SHA256 != want {
		t.Errorf("SHA256 = %s, want %s", res.SHA256, want)
	}

	parsed, err := Parse(strings.NewReader(header))
	if err != nil {
		t.Fatal(err)
	}
	if parsed.SHA256 != "" {
		t.Errorf("Parse should not set SHA256, got %s", parsed.SHA256)
	}
}

func TestParse_NonMissingCounts(t *testing.T) {
	body := header +
		"s1,Movie,A,Someone,,India,\"May 1, 2020\",2019,PG,90 min,Dramas,d\n" +
		"s2,Movie,B,,,  ,,2018,,95 min,Dramas,d\n" +
		"s3,TV Show,C,,Cast,,\"June 2, 2021\",bad,TV-MA,,,\n"

	res, err := Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.NonMissing) != len(Columns) {
		t.Fatalf("got %d column counts, want %d", len(res.NonMissing), len(Columns))
	}

	want := map[string]int{
		"show_id": 3, "type": 3, "title": 3, "director": 1, "cast": 1, "country": 1,
		"date_added": 2, "release_year": 3, "rating": 2, "duration": 2, "listed_in": 2, "description": 2,
	}
	for i, c := range res.NonMissing {
		if c.Column != Columns[i] {
			t.Errorf("column %d = %q, want %q", i, c.Column, Columns[i])
		}
		if c.Count != want[c.Column] {
			t.Errorf("%s non-missing = %d, want %d", c.Column, c.Count, want[c.Column])
		}
	}
}
