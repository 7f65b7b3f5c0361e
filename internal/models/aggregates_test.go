package models

import (
	"testing"
	"time"
)

func TestFrequencyTable_Accessors(t *testing.T) {
	ft := FrequencyTable{{Label: "Movie", Count: 3}, {Label: "TV Show", Count: 2}}

	if ft.Total() != 5 {
		t.Errorf("Total() = %d, want 5", ft.Total())
	}
	if got := ft.Labels(); len(got) != 2 || got[0] != "Movie" || got[1] != "TV Show" {
		t.Errorf("Labels() = %v", got)
	}
	if got := ft.Values(); got[0] != 3 || got[1] != 2 {
		t.Errorf("Values() = %v", got)
	}
	if ft.Count("TV Show") != 2 {
		t.Errorf("Count(TV Show) = %d, want 2", ft.Count("TV Show"))
	}
	if ft.Count("missing") != 0 {
		t.Error("Count of unknown label should be 0")
	}
}

func TestBucket_String(t *testing.T) {
	tests := []struct {
		bucket Bucket
		want   string
	}{
		{Bucket{Year: 2021}, "2021"},
		{Bucket{Year: 2021, Month: 3}, "2021-03"},
		{Bucket{Year: 999, Month: 12}, "0999-12"},
	}

	for _, tt := range tests {
		if got := tt.bucket.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.bucket, got, tt.want)
		}
	}
}

func TestBucket_Before(t *testing.T) {
	if !(Bucket{Year: 2019}).Before(Bucket{Year: 2021}) {
		t.Error("2019 should sort before 2021")
	}
	if !(Bucket{Year: 2021, Month: 2}).Before(Bucket{Year: 2021, Month: 11}) {
		t.Error("2021-02 should sort before 2021-11")
	}
	if (Bucket{Year: 2021, Month: 5}).Before(Bucket{Year: 2021, Month: 5}) {
		t.Error("equal buckets are not before each other")
	}
}

func TestPartitionedSeries_Get(t *testing.T) {
	ps := PartitionedSeries{
		{Key: "Movie", Values: []int{90, 120}},
		{Key: "TV Show", Values: []int{3}},
	}

	vals, ok := ps.Get("Movie")
	if !ok || len(vals) != 2 {
		t.Errorf("Get(Movie) = %v, %v", vals, ok)
	}
	if _, ok := ps.Get("Short"); ok {
		t.Error("Get should report missing partition")
	}
	if keys := ps.Keys(); keys[0] != "Movie" || keys[1] != "TV Show" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestTitle_Value(t *testing.T) {
	title := Title{Type: Movie, Rating: "", Country: "India"}

	if v, ok := title.Value(FieldType); !ok || v != "Movie" {
		t.Errorf("Value(type) = %q, %v", v, ok)
	}
	if _, ok := title.Value(FieldRating); ok {
		t.Error("empty rating should be missing")
	}
	if _, ok := title.Value(FieldDateAdded); ok {
		t.Error("date_added is not a string field")
	}
}

func TestTitle_Presence(t *testing.T) {
	year := 2020
	added := time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		title     Title
		wantYear  bool
		wantAdded bool
	}{
		{"Empty", Title{}, false, false},
		{"YearOnly", Title{ReleaseYear: &year}, true, false},
		{"Both", Title{ReleaseYear: &year, DateAdded: &added}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.title.HasReleaseYear(); got != tt.wantYear {
				t.Errorf("HasReleaseYear() = %v, want %v", got, tt.wantYear)
			}
			if got := tt.title.HasDateAdded(); got != tt.wantAdded {
				t.Errorf("HasDateAdded() = %v, want %v", got, tt.wantAdded)
			}
		})
	}
}

func TestGranularity_String(t *testing.T) {
	if GranularityYear.String() != "year" || GranularityMonth.String() != "month" {
		t.Error("unexpected granularity names")
	}
	if Granularity(9).String() != "unknown" {
		t.Error("out of range granularity should be unknown")
	}
}
