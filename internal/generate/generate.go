// Package generate writes synthetic catalog datasets for demos and tests.
package generate

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/catalog-eda/internal/loader"
	"github.com/j-veylop/catalog-eda/internal/models"
)

// Defaults used when Options fields are zero.
const (
	DefaultRecords = 5000
	DefaultSeed    = 42
)

const (
	movieShare   = 0.65
	maxDaysAgo   = 3000
	minYear      = 1990
	maxYear      = 2023
	dateLayout   = "January 02, 2006"
	tokenJoiner  = ", "
	maxTokenPick = 3
)

var (
	countries = []string{
		"United States", "India", "United Kingdom", "Canada", "Japan", "Mexico", "South Korea",
		"Australia", "France", "Germany", "Spain", "Brazil", "Italy", "Netherlands", "Turkey",
	}
	genres = []string{
		"Drama", "Comedy", "Action", "Thriller", "Romance", "Horror", "Documentary",
		"Animation", "Adventure", "Crime", "Fantasy", "Sci-Fi",
	}
	ratings = []string{
		"G", "PG", "PG-13", "R", "NC-17", "TV-Y", "TV-Y7", "TV-G", "TV-PG", "TV-14", "TV-MA",
	}
)

// Options controls a generated dataset.
type Options struct {
	Now     time.Time
	Records int
	Seed    uint64
}

func (o Options) withDefaults() Options {
	if o.Records <= 0 {
		o.Records = DefaultRecords
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Generate writes a dataset with the standard header to w. Output is
// identical for equal Seed and Now.
func Generate(w io.Writer, opts Options) error {
	opts = opts.withDefaults()
	r := rand.New(rand.NewPCG(opts.Seed, opts.Seed))

	cw := csv.NewWriter(w)
	if err := cw.Write(loader.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range opts.Records {
		if err := cw.Write(record(r, i, opts.Now)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}
	return nil
}

// record builds one row in loader.Columns order.
func record(r *rand.Rand, i int, now time.Time) []string {
	typ := models.Movie
	if r.Float64() >= movieShare {
		typ = models.TVShow
	}

	// The unit is drawn independently of the type.
	duration := fmt.Sprintf("%d Seasons", 1+r.IntN(14))
	if r.IntN(2) == 0 {
		duration = fmt.Sprintf("%d min", 40+r.IntN(140))
	}

	added := now.AddDate(0, 0, -r.IntN(maxDaysAgo))

	return []string{
		"s" + strconv.Itoa(i),
		string(typ),
		"Title " + strconv.Itoa(i),
		"Director " + strconv.Itoa(r.IntN(200)),
		"Actor " + strconv.Itoa(r.IntN(500)),
		pick(r, countries),
		added.Format(dateLayout),
		strconv.Itoa(minYear + r.IntN(maxYear-minYear+1)),
		ratings[r.IntN(len(ratings))],
		duration,
		pick(r, genres),
		"Description for title " + strconv.Itoa(i),
	}
}

// pick joins one to three distinct values from list.
func pick(r *rand.Rand, list []string) string {
	n := 1 + r.IntN(maxTokenPick)
	perm := r.Perm(len(list))[:n]
	out := make([]string, n)
	for i, idx := range perm {
		out[i] = list[idx]
	}
	return strings.Join(out, tokenJoiner)
}
