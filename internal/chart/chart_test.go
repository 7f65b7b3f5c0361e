package chart

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/j-veylop/catalog-eda/internal/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		ReleaseYears: models.Histogram{
			{Low: 2000, High: 2005, Count: 3},
			{Low: 2005, High: 2010, Count: 1},
		},
		ReleaseYearCounts: models.FrequencyTable{{Label: "2000", Count: 3}, {Label: "2009", Count: 1}},
		Types:             models.FrequencyTable{{Label: "Movie", Count: 3}, {Label: "TV Show", Count: 1}},
		Ratings:           models.FrequencyTable{{Label: "TV-MA", Count: 2}},
		Genres:            models.FrequencyTable{{Label: "Dramas", Count: 2}},
		Countries:         models.FrequencyTable{{Label: "India", Count: 2}},
		Durations:         models.PartitionedSeries{{Key: "Movie", Values: []int{90, 100}}},
		DurationSummaries: map[string]models.Summary{"Movie": {N: 2, Mean: 95, Min: 90, Max: 100}},
		AddedByYear: models.TimelineSeries{
			{Period: models.Bucket{Year: 2019}, Count: 1},
			{Period: models.Bucket{Year: 2021}, Count: 3},
		},
		AddedByMonth: models.TimelineSeries{{Period: models.Bucket{Year: 2021, Month: 3}, Count: 3}},
		RecordCount:  4,
		Fingerprint:  "abc",
	}
}

func TestSpecs(t *testing.T) {
	specs := Specs(sampleReport())

	want := []string{
		models.ChartReleaseYears, models.ChartReleaseYearCounts, models.ChartTypes,
		models.ChartRatings, models.ChartGenres, models.ChartCountries,
		models.ChartDurations, models.ChartAddedByYear, models.ChartAddedByMonth,
	}
	if len(specs) != len(want) {
		t.Fatalf("got %d specs, want %d", len(specs), len(want))
	}
	for i, s := range specs {
		if s.Name != want[i] {
			t.Errorf("spec %d = %s, want %s", i, s.Name, want[i])
		}
	}

	if specs[0].Labels[0] != "2000-2005" || specs[0].Values[1] != 1 {
		t.Errorf("histogram spec = %+v", specs[0])
	}
	d := specs[6]
	if d.Kind != KindGrouped || d.Summaries[0].Mean != 95 {
		t.Errorf("duration spec = %+v", d)
	}
	if len(d.Groups) != 1 || d.Groups[0].Key != "Movie" || d.Groups[0].N != 2 {
		t.Fatalf("duration groups = %+v", d.Groups)
	}
	if d.Groups[0].Labels[0] != "90" || d.Groups[0].Values[0] != 1 {
		t.Errorf("first Movie bucket = %q %v", d.Groups[0].Labels[0], d.Groups[0].Values[0])
	}
}

func TestBinLabel(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		want   string
	}{
		{"whole", 2000, 2005, "2000-2005"},
		{"fractional", 1990, 1991.1, "1990.0-1991.1"},
		{"negative", -2.5, 0, "-2.5-0.0"},
		{"narrow", 2019, 2019.0667, "2019.00-2019.07"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := binLabel(tt.lo, tt.hi); got != tt.want {
				t.Errorf("binLabel(%v, %v) = %q, want %q", tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestSpecs_NarrowBinsKeepDistinctLabels(t *testing.T) {
	r := sampleReport()
	r.ReleaseYears = models.Histogram{
		{Low: 1990, High: 1991.1, Count: 1},
		{Low: 1991.1, High: 1992.2, Count: 1},
		{Low: 1992.2, High: 1993.3, Count: 1},
		{Low: 1993.3, High: 1994.4, Count: 1},
	}

	labels := Specs(r)[0].Labels
	seen := make(map[string]bool)
	for _, l := range labels {
		if seen[l] {
			t.Errorf("duplicate bin label %q in %v", l, labels)
		}
		seen[l] = true
	}
	if labels[1] != "1991.1-1992.2" {
		t.Errorf("labels[1] = %q", labels[1])
	}
}

func TestDraw_DurationHistograms(t *testing.T) {
	r := sampleReport()
	r.Durations = append(r.Durations, models.Partition{Key: "TV Show", Values: []int{1, 1, 3}})
	r.DurationSummaries["TV Show"] = models.Summary{N: 3, Mean: 1.7, Min: 1, Max: 3}

	out := Draw(Specs(r)[6], DefaultSize)
	for _, want := range []string{
		"group", "95.0",
		"Movie distribution (2 titles)", "\n90 ", "100 |",
		"TV Show distribution (3 titles)", "1 |", "3 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("durations chart missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Movie distribution") > strings.Index(out, "TV Show distribution") {
		t.Error("partitions should keep report order")
	}
}

func TestBuckets(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		n      int
		counts []float64
		labels []string
	}{
		{"empty", nil, 12, nil, nil},
		{"one per value", []int{1, 2, 3, 2}, 12, []float64{1, 2, 1}, []string{"1", "2", "3"}},
		{"ranges", []int{90, 100, 150}, 3, []float64{2, 0, 1}, []string{"90-110", "111-131", "132-150"}},
		{"single value", []int{5, 5}, 4, []float64{2}, []string{"5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts, labels := Buckets(tt.values, tt.n)
			if !slices.Equal(counts, tt.counts) {
				t.Errorf("counts = %v, want %v", counts, tt.counts)
			}
			if !slices.Equal(labels, tt.labels) {
				t.Errorf("labels = %v, want %v", labels, tt.labels)
			}
		})
	}
}

func TestBuckets_Cap(t *testing.T) {
	values := make([]int, 300)
	for i := range values {
		values[i] = i
	}
	counts, _ := Buckets(values, MaxBuckets)
	if len(counts) > MaxBuckets {
		t.Errorf("got %d buckets, want at most %d", len(counts), MaxBuckets)
	}
	total := 0.0
	for _, c := range counts {
		total += c
	}
	if total != 300 {
		t.Errorf("buckets hold %v values, want 300", total)
	}
}


func TestBars(t *testing.T) {
	got := Bars([]float64{10, 5}, []string{"Movie", "TV Show"}, 37)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Movie   |") || !strings.HasSuffix(lines[0], " 10") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if strings.Count(lines[0], "#") != 2*strings.Count(lines[1], "#") {
		t.Errorf("bars not proportional:\n%s", got)
	}

	if Bars(nil, nil, 40) != "" {
		t.Error("expected empty output for no values")
	}
}

func TestLine(t *testing.T) {
	got := Line([]float64{1, 3, 2}, []string{"2019", "2020", "2021"}, Size{Width: 30, Height: 5}, "Titles")
	if !strings.Contains(got, "Titles") || !strings.Contains(got, "2019 .. 2021 (3 points)") {
		t.Errorf("unexpected line chart:\n%s", got)
	}

	single := Line([]float64{4}, []string{"2021"}, Size{}, "x")
	if !strings.HasPrefix(single, "2021 |") {
		t.Errorf("single point should fall back to bars, got %q", single)
	}
}

func TestDraw_NoColour(t *testing.T) {
	for _, s := range Specs(sampleReport()) {
		out := Draw(s, DefaultSize)
		if strings.Contains(out, "\x1b[") {
			t.Errorf("%s contains escape codes", s.Name)
		}
		if !strings.HasPrefix(out, s.Title+"\n") {
			t.Errorf("%s does not start with its title", s.Name)
		}
	}
}

func TestDraw_Empty(t *testing.T) {
	out := Draw(Spec{Title: "Nothing"}, DefaultSize)
	if !strings.Contains(out, "No data available") {
		t.Errorf("Draw() = %q", out)
	}
}

func TestSummaryTable(t *testing.T) {
	got := SummaryTable([]string{"Movie", "TV Show"}, []models.Summary{
		{N: 2, Mean: 95, Min: 90, Max: 100},
		{N: 1, Mean: 3, Min: 3, Max: 3},
	})
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %q", got)
	}
	if !strings.HasPrefix(lines[2], "TV Show") || !strings.Contains(lines[1], "95.0") {
		t.Errorf("unexpected table:\n%s", got)
	}
}

func TestRenderer_Render(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	r := NewRenderer(dir)

	paths, err := r.Render(sampleReport())
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if len(paths) != 10 {
		t.Fatalf("expected 10 files, got %d", len(paths))
	}
	if r.Dir() != dir {
		t.Errorf("Dir() = %s", r.Dir())
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing file %s: %v", p, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, ReportFile))
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	var env struct {
		Fingerprint string `json:"fingerprint"`
		Report      struct {
			RecordCount int `json:"record_count"`
		} `json:"report"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("invalid report.json: %v", err)
	}
	if env.Fingerprint != "abc" || env.Report.RecordCount != 4 {
		t.Errorf("report.json = %s", data)
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	dirA := filepath.Join(t.TempDir(), "a")
	dirB := filepath.Join(t.TempDir(), "b")

	if _, err := NewRenderer(dirA).Render(sampleReport()); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRenderer(dirB).Render(sampleReport()); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{models.ChartAddedByYear + ".txt", ReportFile} {
		a, _ := os.ReadFile(filepath.Join(dirA, name))
		b, _ := os.ReadFile(filepath.Join(dirB, name))
		if !bytes.Equal(a, b) {
			t.Errorf("%s differs between renders", name)
		}
	}
}
