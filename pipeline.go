package bench

import (
	"context"
	"io"
	"time"

	"github.com/aristanetworks/goarista/monotime"
	"go.uber.org/zap"
)

const (
	DefaultInput  = "bm_results.csv"
	DefaultOutDir = "benchmark_results"
)

// Config configures a pipeline run.
type Config struct {
	Input     string // benchmark CSV file
	OutDir    string // chart directory
	Skip      int    // metadata lines before the CSV header, negative to detect
	Report    bool   // print geometric means
	Plot      bool   // render charts
	Malformed MalformedPolicy
	PlotOptions

	Log *zap.SugaredLogger
}

func DefaultConfig() Config {
	return Config{
		Input:       DefaultInput,
		OutDir:      DefaultOutDir,
		Skip:        DefaultSkip,
		Report:      true,
		Plot:        true,
		PlotOptions: DefaultPlotOptions(),
	}
}

// Result holds the output of all pipeline stages.
type Result struct {
	Records []Record // normalized, in input order
	Groups  []CaseGroup
	Summary Summary
}

// Run loads the benchmark results, normalizes them, prints the report to
// stdout and writes the charts.
func Run(ctx context.Context, cfg Config, stdout io.Writer) (*Result, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	start := mononow()

	rows, err := LoadFile(cfg.Input, cfg.Skip)
	if err != nil {
		return nil, err
	}
	log.Debugw("Loaded benchmark results", "file", cfg.Input, "rows", len(rows), "elapsed", mononow()-start)

	t := mononow()
	recs, err := ParseRecords(rows, cfg.Malformed, log)
	if err != nil {
		return nil, err
	}
	res := &Result{Records: Normalize(recs)}
	res.Groups = GroupByCase(res.Records)
	res.Summary = Summarize(res.Groups)
	log.Debugw("Normalized", "records", len(recs), "cases", len(res.Groups), "elapsed", mononow()-t)
	if len(recs) == 0 {
		log.Warnw("No benchmark records left after filtering", "file", cfg.Input)
	}

	if cfg.Report {
		if _, err := res.Summary.WriteTo(stdout); err != nil {
			return res, err
		}
	}
	if cfg.Plot {
		t = mononow()
		if err := SaveCharts(ctx, res.Groups, cfg.OutDir, cfg.PlotOptions, log); err != nil {
			return res, err
		}
		log.Debugw("Saved charts", "dir", cfg.OutDir, "charts", len(res.Groups), "elapsed", mononow()-t)
	}
	log.Infow("Done", "cases", len(res.Groups), "elapsed", mononow()-start)
	return res, nil
}

func mononow() time.Duration {
	return time.Duration(monotime.Now())
}
