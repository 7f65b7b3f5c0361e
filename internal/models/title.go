// Package models defines data structures and domain types.
package models

import "time"

// ContentType is the raw value of the dataset's "type" column.
type ContentType string

const (
	// Movie is the content type of feature films.
	Movie ContentType = "Movie"
	// TVShow is the content type of series, spelled as in the dataset.
	TVShow ContentType = "TV Show"
)

// Field selects a column of a Title for aggregation.
type Field string

// Fields understood by the analysis stages.
const (
	FieldType        Field = "type"
	FieldRating      Field = "rating"
	FieldCountry     Field = "country"
	FieldListedIn    Field = "listed_in"
	FieldDuration    Field = "duration"
	FieldReleaseYear Field = "release_year"
	FieldDateAdded   Field = "date_added"
)

// Title is one row of the catalog dataset.
// Empty strings and nil pointers mean the value is missing.
type Title struct {
	DateAdded   *time.Time
	ReleaseYear *int
	ID          string
	Type        ContentType
	Name        string
	Director    string
	Cast        string
	Country     string
	Rating      string
	Duration    string
	ListedIn    string
	Description string
}

// Value returns the text value of a string field and whether it is present.
// Date and year fields are not addressable through Value.
func (t *Title) Value(f Field) (string, bool) {
	var v string
	switch f {
	case FieldType:
		v = string(t.Type)
	case FieldRating:
		v = t.Rating
	case FieldCountry:
		v = t.Country
	case FieldListedIn:
		v = t.ListedIn
	case FieldDuration:
		v = t.Duration
	default:
		return "", false
	}
	return v, v != ""
}

// HasDateAdded reports whether the title carries a parsed date_added.
func (t *Title) HasDateAdded() bool {
	return t.DateAdded != nil
}

// HasReleaseYear reports whether the title carries a parsed release_year.
func (t *Title) HasReleaseYear() bool {
	return t.ReleaseYear != nil
}
