package bench

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func rows(nameTimes ...string) []Row {
	var rs []Row
	for i := 0; i < len(nameTimes); i += 2 {
		rs = append(rs, Row{Line: i/2 + 2, Name: nameTimes[i], RealTime: nameTimes[i+1]})
	}
	return rs
}

func TestParseRecordsFilter(t *testing.T) {
	in := rows(
		"caseA/implX/10", "5",
		"caseA/implX/10_variant", "1",
	)
	recs, err := ParseRecords(in, FailMalformed, nil)
	require.NoError(t, err)
	require.Equal(t, []Record{{Case: "caseA", Impl: "implX", Size: 10, Time: 5}}, recs)
}

func TestParseRecordsUnits(t *testing.T) {
	in := []Row{
		{Name: "c/a/1", RealTime: "2", Unit: "ns"},
		{Name: "c/b/1", RealTime: "2", Unit: "us"},
		{Name: "c/c/1", RealTime: "2", Unit: "ms"},
		{Name: "c/d/1", RealTime: "2", Unit: "s"},
	}
	recs, err := ParseRecords(in, FailMalformed, nil)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	require.Equal(t, 2.0, recs[0].Time)
	require.Equal(t, 2e3, recs[1].Time)
	require.Equal(t, 2e6, recs[2].Time)
	require.Equal(t, 2e9, recs[3].Time)
}

func TestParseRecordsFailed(t *testing.T) {
	in := []Row{
		{Name: "c/a/1", RealTime: "2"},
		{Name: "c/b/1", Failed: true, ErrorMessage: "boom"},
	}
	recs, err := ParseRecords(in, FailMalformed, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "a", recs[0].Impl)
}

func TestParseRecordsMalformed(t *testing.T) {
	bad := [][]Row{
		rows("caseA/10", "5"),
		rows("caseA/implX/ten", "5"),
		rows("caseA/implX/10", ""),
		rows("caseA/implX/10", "0"),
		rows("caseA/implX/10", "-3"),
		rows("caseA/implX/10", "NaN"),
		{{Name: "caseA/implX/10", RealTime: "5", Unit: "fortnights"}},
	}
	for _, in := range bad {
		_, err := ParseRecords(in, FailMalformed, nil)
		require.Error(t, err, "row %+v", in[0])
		require.Contains(t, err.Error(), "line ")

		recs, err := ParseRecords(in, SkipMalformed, nil)
		require.NoError(t, err)
		require.Empty(t, recs)
	}
}

func TestNormalize(t *testing.T) {
	recs, err := ParseRecords(rows(
		"caseA/fast/10", "5",
		"caseA/slow/10", "20",
		"caseA/fast/20", "8",
		"caseA/slow/20", "40",
		"caseB/fast/10", "7",
		"caseB/slow/10", "3.5",
	), FailMalformed, nil)
	require.NoError(t, err)

	norm := Normalize(recs)
	want := []float64{1, 4, 1, 5, 2, 1}
	require.Len(t, norm, len(want))
	for i, r := range norm {
		require.InDelta(t, want[i], r.RelTime, 1e-12, "record %d (%+v)", i, r)
		require.Zero(t, recs[i].RelTime, "input modified")
	}
}

func TestNormalizeInvariant(t *testing.T) {
	rows, err := LoadFile(testResults, DefaultSkip)
	require.NoError(t, err)
	recs, err := ParseRecords(rows, FailMalformed, nil)
	require.NoError(t, err)
	require.Len(t, recs, 8)

	min := make(map[Key]float64)
	for _, r := range Normalize(recs) {
		require.GreaterOrEqual(t, r.RelTime, 1.0)
		if m, ok := min[r.Key()]; !ok || r.RelTime < m {
			min[r.Key()] = r.RelTime
		}
	}
	require.Len(t, min, 4)
	for k, m := range min {
		require.InDelta(t, 1.0, m, 1e-12, "group %v", k)
	}
}

func TestNormalizeTies(t *testing.T) {
	recs, err := ParseRecords(rows("c/a/1", "3", "c/b/1", "3", "c/c/1", "6"), FailMalformed, nil)
	require.NoError(t, err)
	norm := Normalize(recs)
	require.Equal(t, 1.0, norm[0].RelTime)
	require.Equal(t, 1.0, norm[1].RelTime)
	require.Equal(t, 2.0, norm[2].RelTime)
}

func TestGroupByCase(t *testing.T) {
	recs := []Record{
		{Case: "b", Impl: "y", Size: 20},
		{Case: "a", Impl: "x", Size: 10},
		{Case: "b", Impl: "x", Size: 10},
		{Case: "b", Impl: "y", Size: 10},
	}
	groups := GroupByCase(recs)
	require.Len(t, groups, 2)
	require.Equal(t, "a", groups[0].Case)
	require.Equal(t, "b", groups[1].Case)
	require.Equal(t, []Record{recs[0], recs[2], recs[3]}, groups[1].Records)
	require.Equal(t, []int{10, 20}, groups[1].Sizes())
	require.Equal(t, []string{"x", "y"}, groups[1].Impls())
}
