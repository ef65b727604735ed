package bench

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoOutputDir is returned by SaveCharts when the output directory is missing.
var ErrNoOutputDir = errors.New("output directory does not exist")

const (
	dodgeWidth  = 0.8 // share of a size category used by implementation slots
	jitterShare = 0.2 // jitter amplitude relative to one slot
	glyphAlpha  = 0x80
)

type PlotOptions struct {
	Width, Height vg.Length
	Jobs          int  // charts rendered in parallel, GOMAXPROCS if <= 0
	CreateDir     bool // create the output directory if missing
}

// DefaultPlotOptions renders 40x30 cm charts.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 40 * vg.Centimeter, Height: 30 * vg.Centimeter}
}

// PlotCase creates a strip plot of the relative times in a case. Each size is
// a category on the X axis, and implementations are dodged within it.
func PlotCase(g CaseGroup) (*plot.Plot, error) {
	if len(g.Records) == 0 {
		return nil, fmt.Errorf("case %q has no records", g.Case)
	}
	sizes, impls := g.Sizes(), g.Impls()
	sizeIndex := make(map[int]int, len(sizes))
	labels := make([]string, len(sizes))
	for i, s := range sizes {
		sizeIndex[s] = i
		labels[i] = strconv.Itoa(s)
	}
	implIndex := make(map[string]int, len(impls))
	for i, impl := range impls {
		implIndex[impl] = i
	}

	// Fixed seed, so jitter is the same on every run.
	rng := rand.New(rand.NewSource(0x1334))
	slot := dodgeWidth / float64(len(impls))
	points := make([]plotter.XYs, len(impls))
	ymin, ymax := g.Records[0].RelTime, g.Records[0].RelTime
	for _, r := range g.Records {
		j := implIndex[r.Impl]
		x := float64(sizeIndex[r.Size]) - dodgeWidth/2 + (float64(j)+0.5)*slot
		x += (rng.Float64()*2 - 1) * slot * jitterShare
		points[j] = append(points[j], plotter.XY{X: x, Y: r.RelTime})
		if r.RelTime < ymin {
			ymin = r.RelTime
		}
		if r.RelTime > ymax {
			ymax = r.RelTime
		}
	}

	plt := plot.New()
	plt.Title.Text = g.Case
	plt.X.Label.Text = "size"
	plt.Y.Label.Text = "relative time"
	plt.Y.Scale = plot.LogScale{}
	plt.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	plt.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	plt.Add(grid)

	for j, impl := range impls {
		if len(points[j]) == 0 {
			continue
		}
		s, err := plotter.NewScatter(points[j])
		if err != nil {
			return nil, fmt.Errorf("case %q, implementation %q: %v", g.Case, impl, err)
		}
		s.GlyphStyle = draw.GlyphStyle{
			Color:  withAlpha(plotutil.Color(j), glyphAlpha),
			Radius: vg.Points(4),
			Shape:  draw.CircleGlyph{},
		}
		plt.Add(s)
		plt.Legend.Add(impl, s)
	}
	plt.NominalX(labels...)
	plt.X.Min, plt.X.Max = -0.5, float64(len(sizes))-0.5

	// A log axis needs a non-empty range, also when all times are equal.
	if ymax < 2*ymin {
		ymax = 2 * ymin
	}
	plt.Y.Min, plt.Y.Max = ymin/1.2, ymax*1.2
	return plt, nil
}

func withAlpha(c color.Color, a uint8) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = a
	return n
}

// ChartFile returns the path of a case's chart in dir.
func ChartFile(dir, caseName string) string {
	return filepath.Join(dir, caseName+".png")
}

// SaveCharts renders one PNG chart per case into dir.
func SaveCharts(ctx context.Context, groups []CaseGroup, dir string, opts PlotOptions, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := checkOutputDir(dir, opts.CreateDir); err != nil {
		return err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultPlotOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for _, g := range groups {
		if len(g.Records) == 0 {
			log.Warnw("Case has no records, skipping chart", "case", g.Case)
			continue
		}
		g := g
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plt, err := PlotCase(g)
			if err != nil {
				return err
			}
			file := ChartFile(dir, g.Case)
			if err := plt.Save(opts.Width, opts.Height, file); err != nil {
				return fmt.Errorf("can't save chart: %v", err)
			}
			log.Debugw("Saved chart", "case", g.Case, "file", file)
			return nil
		})
	}
	return eg.Wait()
}

func checkOutputDir(dir string, create bool) error {
	fi, err := os.Stat(dir)
	switch {
	case err == nil && !fi.IsDir():
		return fmt.Errorf("%s is not a directory", dir)
	case err == nil:
		return nil
	case os.IsNotExist(err) && create:
		return os.MkdirAll(dir, 0755)
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s", ErrNoOutputDir, dir)
	default:
		return err
	}
}
