// 包 cli：map-render 命令，离线加载数据并输出静态分级设色图
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"geo-legend/internal/colorscale"
	"geo-legend/internal/config"
	"geo-legend/internal/dataset"
	"geo-legend/internal/filter"
	"geo-legend/internal/logger"
	"geo-legend/internal/render"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type renderFlags struct {
	csv, boundaryURL, prefix string
	low, high                float64
	lowSet, highSet          bool
	format, out              string
	width, height            float64
}

func newRootCmd() *cobra.Command {
	cfg, err := config.Load()
	f := renderFlags{
		csv:         cfg.CSVPath,
		boundaryURL: cfg.BoundaryURL,
		prefix:      cfg.RegionPrefix,
		format:      "png",
		out:         "map.png",
		width:       8,
		height:      6,
	}
	cmd := &cobra.Command{
		Use:          "map-render",
		Short:        "Render the filtered choropleth to a PNG or SVG file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err != nil {
				return err
			}
			logger.Setup()
			f.lowSet, f.highSet = cmd.Flags().Changed("low"), cmd.Flags().Changed("high")
			return run(cmd.Context(), cfg, f, cmd.OutOrStdout())
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.csv, "csv", f.csv, "statistics CSV path")
	fl.StringVar(&f.boundaryURL, "boundary-url", f.boundaryURL, "GeoJSON boundary URL")
	fl.StringVar(&f.prefix, "prefix", f.prefix, "region id prefix to keep")
	fl.Float64Var(&f.low, "low", 0, "lower bound (default: dataset minimum)")
	fl.Float64Var(&f.high, "high", 0, "upper bound (default: dataset maximum)")
	fl.StringVar(&f.format, "format", f.format, "output format: png or svg")
	fl.StringVar(&f.out, "out", f.out, "output file, - for stdout")
	fl.Float64Var(&f.width, "width", f.width, "image width in inches")
	fl.Float64Var(&f.height, "height", f.height, "image height in inches")
	return cmd
}

// run：未指定范围时使用全局范围；一侧未指定时取对应的全局边界
func run(ctx context.Context, cfg config.Config, f renderFlags, stdout io.Writer) error {
	if _, ok := render.ImageFormats[f.format]; !ok {
		return fmt.Errorf("unsupported format %q", f.format)
	}
	if f.width <= 0 || f.height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	l := &dataset.Loader{
		CSVPath: f.csv,
		Columns: dataset.Columns{Key: cfg.KeyColumn, Value: cfg.ValueColumn, Name: cfg.NameColumn},
		Prefix:  f.prefix,
		Fetcher: dataset.NewHTTPFetcher(f.boundaryURL, cfg.FetchTimeout, cfg.InsecureTLS),
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ds, err := l.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", dataset.Message(dataset.KindOf(err)), err)
	}
	r := filter.Full(ds)
	if f.lowSet {
		r.Low = f.low
	}
	if f.highSet {
		r.High = f.high
	}
	if err := r.Validate(); err != nil {
		return err
	}
	scale, err := colorscale.New(ds.Min, ds.Max, cfg.ColorLow, cfg.ColorHigh)
	if err != nil {
		return err
	}
	v := render.Render(ds, r, scale, render.Options{Title: cfg.Title, Step: cfg.Step})

	w := stdout
	if f.out != "-" {
		fh, err := os.Create(f.out)
		if err != nil {
			return err
		}
		defer fh.Close()
		w = fh
	}
	if err := render.WriteImage(w, v, f.format, vg.Length(f.width)*vg.Inch, vg.Length(f.height)*vg.Inch); err != nil {
		return err
	}
	logger.L().Info("map_rendered", "out", f.out, "format", f.format, "visible", v.Count, "total", v.Total)
	return nil
}
