package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	bench "github.com/fjl/bmplot"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"
)

func main() {
	// Values in .env never override the real environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bmplot [results.csv]",
		Short: "Compare benchmark implementations relative to the fastest one",
		Long: `Reads Google Benchmark CSV output with names of the form <case>/<implementation>/<size>,
divides each real time by the fastest time at the same case and size, prints the
geometric mean ratio of every implementation and writes one chart per case.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromViper(v, args)
			if err != nil {
				return err
			}
			defer cfg.Log.Sync()
			_, err = bench.Run(cmd.Context(), cfg, cmd.OutOrStdout())
			return err
		},
	}

	def := bench.DefaultConfig()
	f := cmd.Flags()
	f.String("input", def.Input, "benchmark results CSV file")
	f.String("out", def.OutDir, "chart output directory")
	f.Int("skip", def.Skip, "metadata lines before the CSV header (negative: find the header)")
	f.Bool("report", def.Report, "print geometric mean relative times")
	f.Bool("plot", def.Plot, "write charts")
	f.Bool("skip-malformed", false, "skip rows with malformed names instead of failing")
	f.Bool("mkdir", false, "create the output directory if it doesn't exist")
	f.Float64("width", float64(def.Width/vg.Centimeter), "width of charts in cm")
	f.Float64("height", float64(def.Height/vg.Centimeter), "height of charts in cm")
	f.Int("jobs", 0, "charts rendered in parallel (0: number of CPUs)")
	f.String("log-level", "info", "log level (debug, info, warn, error)")

	if err := v.BindPFlags(f); err != nil {
		panic(err)
	}
	v.SetEnvPrefix("BMPLOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.BindEnv("log-level", "BMPLOT_LOG_LEVEL", "LOG_LEVEL")
	return cmd
}

func configFromViper(v *viper.Viper, args []string) (bench.Config, error) {
	cfg := bench.DefaultConfig()
	cfg.Input = v.GetString("input")
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	cfg.OutDir = v.GetString("out")
	cfg.Skip = v.GetInt("skip")
	cfg.Report = v.GetBool("report")
	cfg.Plot = v.GetBool("plot")
	if v.GetBool("skip-malformed") {
		cfg.Malformed = bench.SkipMalformed
	}
	cfg.CreateDir = v.GetBool("mkdir")
	cfg.Jobs = v.GetInt("jobs")

	width, height := v.GetFloat64("width"), v.GetFloat64("height")
	if width <= 0 || height <= 0 {
		return cfg, fmt.Errorf("invalid chart size %gx%g cm", width, height)
	}
	cfg.Width = vg.Length(width) * vg.Centimeter
	cfg.Height = vg.Length(height) * vg.Centimeter

	log, err := bench.NewLogger(v.GetString("log-level"))
	if err != nil {
		return cfg, err
	}
	cfg.Log = log
	return cfg, nil
}
