package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zusistats/zusistats/cli/internal/config"
	"github.com/zusistats/zusistats/cli/internal/report"
	"github.com/zusistats/zusistats/pkg/analysis"
	"github.com/zusistats/zusistats/pkg/resultfile"
	"github.com/zusistats/zusistats/pkg/summary"
	"github.com/zusistats/zusistats/pkg/types"
)

var errNoRuns = errors.New("no runs could be loaded")

func main() {
	var (
		configPath = flag.String("config", "", "path to an optional YAML config file")
		pattern    string
		debug      bool
		format     = flag.String("format", config.DefaultFormat, "output format: text | json | prometheus")
		algorithm  = flag.String("algorithm", "", "pure average speed algorithm: pure_driving_time | weighted_local_speeds")
		chartPath  = flag.String("chart", "", "write the speed profile chart to this PNG file")
		watch      = flag.Bool("watch", false, "re-run the analysis whenever a matching file changes")
	)
	flag.StringVar(&pattern, "pattern", "", "glob pattern of the run files to analyse")
	flag.StringVar(&pattern, "p", "", "shorthand for -pattern")
	flag.BoolVar(&debug, "debug", false, "list analysed files and log at debug level")
	flag.BoolVar(&debug, "d", false, "shorthand for -debug")
	flag.Parse()

	var o config.Overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pattern", "p":
			o.Pattern = &pattern
		case "debug", "d":
			o.Debug = &debug
		case "format":
			o.Format = format
		case "algorithm":
			o.Algorithm = algorithm
		case "chart":
			o.Chart = chartPath
		case "watch":
			o.Watch = watch
		}
	})
	// A bare argument is accepted as the pattern.
	if o.Pattern == nil && flag.NArg() > 0 {
		arg := flag.Arg(0)
		o.Pattern = &arg
	}

	cfg, err := loadConfig(*configPath, o)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Output.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	alg, err := cfg.Analysis.ParsedAlgorithm()
	if err != nil {
		slog.Error("invalid algorithm", "err", err)
		os.Exit(1)
	}

	if err := analyse(os.Stdout, cfg, alg); err != nil {
		slog.Error("analysis failed", "pattern", cfg.Analysis.Pattern, "err", err)
		if !cfg.Watch.Enabled {
			os.Exit(1)
		}
	}
	if !cfg.Watch.Enabled {
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Re-runs are serialised through rerun; events arriving during a run
	// collapse into one follow-up run.
	rerun := make(chan struct{}, 1)
	go func() {
		err := resultfile.Watch(ctx, cfg.Analysis.Pattern, cfg.Watch.Debounce, func(e resultfile.Event) {
			slog.Debug("run file changed", "path", e.Path, "kind", e.Kind)
			select {
			case rerun <- struct{}{}:
			default:
			}
		})
		if err != nil {
			slog.Error("watcher stopped", "err", err)
			cancel()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("zusistats shutting down")
			return
		case <-rerun:
			if err := analyse(os.Stdout, cfg, alg); err != nil {
				slog.Error("analysis failed", "pattern", cfg.Analysis.Pattern, "err", err)
			}
		}
	}
}

// loadConfig builds the effective config from the optional file and the
// command-line overrides.
func loadConfig(path string, o config.Overrides) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.Override(o)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// analyse discovers, loads and summarises the runs matching the configured
// pattern and writes the report to w.
func analyse(w io.Writer, cfg *config.Config, alg analysis.Algorithm) error {
	files, err := resultfile.Discover(cfg.Analysis.Pattern)
	if err != nil {
		return err
	}
	if cfg.Output.Format == config.FormatText {
		report.WriteHeader(w, cfg.Analysis.Pattern, files, cfg.Output.Debug)
	}

	runs, errs := resultfile.LoadAll(files)
	if len(errs) > 0 {
		slog.Warn("some files were skipped", "skipped", len(errs), "loaded", len(runs))
	}

	s := summary.Summarize(runs, alg)
	if err := report.Write(w, cfg.Output.Format, s); err != nil {
		return err
	}

	if cfg.Output.Chart != "" && len(runs) > 0 {
		if err := writeChart(cfg.Output.Chart, runs); err != nil {
			slog.Warn("chart not written", "path", cfg.Output.Chart, "err", err)
		} else {
			slog.Info("chart written", "path", cfg.Output.Chart)
		}
	}

	if len(runs) == 0 {
		return errNoRuns
	}
	return nil
}

func writeChart(path string, runs []*types.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.RenderChart(f, runs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
