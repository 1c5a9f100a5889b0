package rates

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// CountyLevelCity is the dataset sentinel for a county-level row with no
// city-specific override.
const CountyLevelCity = "0"

// SpecialRate is one special-district entry on a rate row.
type SpecialRate struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// Row is one jurisdiction rate entry. All rate fields are decimal fractions.
// Rows are read-only after load and safe for concurrent readers.
type Row struct {
	State            string
	County           string
	City             string
	SpecialDistricts []string
	SpecialRates     []SpecialRate
	CompositeRate    float64
	StateRate        float64
	CountyRate       float64
	CityRate         float64
}

// HasCity reports whether the row carries a city-specific rate.
func (r *Row) HasCity() bool {
	return r.City != "" && r.City != CountyLevelCity
}

// SpecialSum returns the summed rate of all special districts on the row.
func (r *Row) SpecialSum() float64 {
	var sum float64
	for _, sr := range r.SpecialRates {
		sum += sr.Rate
	}
	return sum
}

// Table is an immutable indexed view over the jurisdiction rate dataset.
type Table struct {
	norm  *Normalizer
	index map[string][]Row
	count int
}

// NewTable builds the lookup index over rows. The index is keyed by
// normalized state plus the county name with any parenthetical suffix
// stripped, so "Kings" and "Kings (Brooklyn)" land in the same group.
func NewTable(rows []Row, norm *Normalizer) *Table {
	t := &Table{norm: norm, index: make(map[string][]Row), count: len(rows)}
	for _, row := range rows {
		key := t.key(row.State, row.County)
		t.index[key] = append(t.index[key], row)
	}
	return t
}

func (t *Table) key(state, county string) string {
	c := normalize(county)
	if base, ok := parenBase(c); ok {
		c = base
	}
	return t.norm.NormalizeState(state) + "|" + c
}

// Len returns the number of rows loaded.
func (t *Table) Len() int {
	return t.count
}

// Lookup finds the best rate row for a state/county/city triple. It prefers
// an exact city match within the county, then the county-level sentinel row,
// then any row for the county. It returns nil when the county is absent.
// The returned row must be treated as read-only.
func (t *Table) Lookup(state, county, city string) *Row {
	if strings.TrimSpace(state) == "" || strings.TrimSpace(county) == "" {
		return nil
	}
	normCounty := t.norm.NormalizeCounty(county)

	group := t.index[t.key(state, normCounty)]
	var rows []*Row
	for i := range group {
		if t.norm.CountiesMatch(group[i].County, normCounty) {
			rows = append(rows, &group[i])
		}
	}
	if len(rows) == 0 {
		return nil
	}

	normCity := t.norm.NormalizeCity(city)
	if normCity != "" {
		for _, r := range rows {
			if r.HasCity() && t.norm.NormalizeCity(r.City) == normCity {
				return r
			}
		}
	}
	for _, r := range rows {
		if !r.HasCity() {
			return r
		}
	}
	return rows[0]
}

// Load reads the rate dataset CSV at path. It fails softly: a missing or
// corrupt file yields an empty table (logged as a warning) so the rest of
// the pipeline degrades to the default outcome instead of failing.
func Load(path string, norm *Normalizer) *Table {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("rates: dataset not available at %s (%v); lookups will fall back to the default rate", path, err)
		return NewTable(nil, norm)
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		log.Printf("rates: failed to parse dataset at %s: %v; lookups will fall back to the default rate", path, err)
		return NewTable(nil, norm)
	}
	log.Printf("rates: loaded %d rate rows from %s", len(rows), path)
	return NewTable(rows, norm)
}

func parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[normalize(h)] = i
	}
	for _, required := range []string{"state", "county", "city", "composite_tax_rate"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	line := 1
	skipped := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped++
			continue
		}

		composite, err := strconv.ParseFloat(field(record, "composite_tax_rate"), 64)
		if err != nil {
			skipped++
			continue
		}
		row := Row{
			State:            field(record, "state"),
			County:           field(record, "county"),
			City:             field(record, "city"),
			CompositeRate:    composite,
			StateRate:        parseRate(field(record, "state_rate")),
			CountyRate:       parseRate(field(record, "county_rate")),
			CityRate:         parseRate(field(record, "city_rate")),
			SpecialDistricts: parseStringList(field(record, "special_districts")),
			SpecialRates:     parseSpecialRates(field(record, "special_rates")),
		}
		rows = append(rows, row)
	}
	if skipped > 0 {
		log.Printf("rates: skipped %d malformed rows", skipped)
	}
	return rows, nil
}

func parseRate(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseStringList decodes a JSON array column such as special_districts.
func parseStringList(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// parseSpecialRates decodes the special_rates JSON column
// ([{"name":...,"rate":...}]). Malformed entries yield no special rates.
func parseSpecialRates(s string) []SpecialRate {
	if s == "" || s == "[]" {
		return nil
	}
	var out []SpecialRate
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}
