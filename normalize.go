package bench

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// MalformedPolicy selects what ParseRecords does with rows it cannot parse.
type MalformedPolicy int

const (
	FailMalformed MalformedPolicy = iota // abort with an error
	SkipMalformed                        // log a warning and drop the row
)

// Record is a parsed benchmark measurement.
type Record struct {
	Case    string
	Impl    string
	Size    int
	Time    float64 // real time in nanoseconds
	RelTime float64 // Time relative to the fastest implementation at the same case and size
}

// Key identifies a comparison group.
type Key struct {
	Case string
	Size int
}

func (r Record) Key() Key { return Key{r.Case, r.Size} }

var unitScale = map[string]float64{
	"":   1,
	"ns": 1,
	"us": 1e3,
	"ms": 1e6,
	"s":  1e9,
}

// ParseRecords converts raw rows into records. Variant rows are dropped, as
// are rows of benchmarks which reported an error.
func ParseRecords(rows []Row, policy MalformedPolicy, log *zap.SugaredLogger) ([]Record, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	recs := make([]Record, 0, len(rows))
	for _, row := range rows {
		if IsVariant(row.Name) {
			log.Debugw("Skipping variant", "name", row.Name, "line", row.Line)
			continue
		}
		if row.Failed {
			log.Warnw("Skipping failed benchmark", "name", row.Name, "line", row.Line, "error", row.ErrorMessage)
			continue
		}
		rec, err := parseRecord(row)
		if err != nil {
			err = fmt.Errorf("line %d: %w", row.Line, err)
			if policy == SkipMalformed {
				log.Warnw("Skipping malformed row", "err", err)
				continue
			}
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseRecord(row Row) (Record, error) {
	n, err := ParseName(row.Name)
	if err != nil {
		return Record{}, err
	}
	t, err := strconv.ParseFloat(row.RealTime, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%q: invalid real_time %q", row.Name, row.RealTime)
	}
	if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
		return Record{}, fmt.Errorf("%q: real_time %v out of range", row.Name, t)
	}
	scale, ok := unitScale[row.Unit]
	if !ok {
		return Record{}, fmt.Errorf("%q: unknown time unit %q", row.Name, row.Unit)
	}
	return Record{Case: n.Case, Impl: n.Impl, Size: n.Size, Time: t * scale}, nil
}

// MinTimes returns the minimum time of each (case, size) group.
func MinTimes(recs []Record) map[Key]float64 {
	times := make(map[Key][]float64)
	for _, r := range recs {
		times[r.Key()] = append(times[r.Key()], r.Time)
	}
	min := make(map[Key]float64, len(times))
	for k, ts := range times {
		min[k] = floats.Min(ts)
	}
	return min
}

// Normalize returns a copy of recs with RelTime set.
func Normalize(recs []Record) []Record {
	min := MinTimes(recs)
	out := make([]Record, len(recs))
	for i, r := range recs {
		r.RelTime = r.Time / min[r.Key()]
		out[i] = r
	}
	return out
}

// CaseGroup holds the records of one benchmark case.
type CaseGroup struct {
	Case    string
	Records []Record
}

// Sizes returns the distinct sizes in ascending order.
func (g CaseGroup) Sizes() []int {
	seen := make(map[int]bool)
	var sizes []int
	for _, r := range g.Records {
		if !seen[r.Size] {
			seen[r.Size] = true
			sizes = append(sizes, r.Size)
		}
	}
	sort.Ints(sizes)
	return sizes
}

// Impls returns the distinct implementation names, sorted.
func (g CaseGroup) Impls() []string {
	seen := make(map[string]bool)
	var impls []string
	for _, r := range g.Records {
		if !seen[r.Impl] {
			seen[r.Impl] = true
			impls = append(impls, r.Impl)
		}
	}
	sort.Strings(impls)
	return impls
}

// GroupByCase splits records by case. Groups are sorted by case name and keep
// the input order of records.
func GroupByCase(recs []Record) []CaseGroup {
	index := make(map[string]int)
	var groups []CaseGroup
	for _, r := range recs {
		i, ok := index[r.Case]
		if !ok {
			i = len(groups)
			index[r.Case] = i
			groups = append(groups, CaseGroup{Case: r.Case})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Case < groups[j].Case })
	return groups
}
