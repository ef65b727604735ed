package bench

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ImplMean is the geometric mean relative time of one implementation.
type ImplMean struct {
	Impl    string
	GeoMean float64
}

// CaseSummary holds the per-implementation means of one case.
type CaseSummary struct {
	Case  string
	Impls []ImplMean
}

// Summary is the geometric mean report over all cases.
type Summary struct {
	Cases   []CaseSummary
	Overall []ImplMean // geometric mean of each implementation's per-case means
}

// Summarize computes geometric means of RelTime for every implementation in
// every case, and across cases. The groups must be normalized.
func Summarize(groups []CaseGroup) Summary {
	var (
		sum     Summary
		perImpl = make(map[string][]float64)
	)
	for _, g := range groups {
		rel := make(map[string][]float64)
		for _, r := range g.Records {
			rel[r.Impl] = append(rel[r.Impl], r.RelTime)
		}
		cs := CaseSummary{Case: g.Case}
		for _, impl := range g.Impls() {
			gm := stat.GeometricMean(rel[impl], nil)
			cs.Impls = append(cs.Impls, ImplMean{Impl: impl, GeoMean: gm})
			perImpl[impl] = append(perImpl[impl], gm)
		}
		sum.Cases = append(sum.Cases, cs)
	}
	impls := make([]string, 0, len(perImpl))
	for impl := range perImpl {
		impls = append(impls, impl)
	}
	sort.Strings(impls)
	for _, impl := range impls {
		sum.Overall = append(sum.Overall, ImplMean{Impl: impl, GeoMean: stat.GeometricMean(perImpl[impl], nil)})
	}
	return sum
}

// Case returns the summary of the named case.
func (s Summary) Case(name string) (CaseSummary, bool) {
	for _, cs := range s.Cases {
		if cs.Case == name {
			return cs, true
		}
	}
	return CaseSummary{}, false
}

// Mean returns the mean of impl in the case, or false if impl wasn't measured.
func (cs CaseSummary) Mean(impl string) (float64, bool) {
	for _, m := range cs.Impls {
		if m.Impl == impl {
			return m.GeoMean, true
		}
	}
	return 0, false
}

// WriteTo prints the summary in a human readable form.
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for _, cs := range s.Cases {
		fmt.Fprintln(&buf, cs.Case)
		writeMeans(&buf, cs.Impls)
		fmt.Fprintln(&buf)
	}
	fmt.Fprintln(&buf, "Overall")
	writeMeans(&buf, s.Overall)
	return buf.WriteTo(w)
}

func writeMeans(w io.Writer, means []ImplMean) {
	for _, m := range means {
		fmt.Fprintf(w, "\t%-30s %v\n", m.Impl, m.GeoMean)
	}
}
