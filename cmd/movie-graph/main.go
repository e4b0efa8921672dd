package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ritzau/movie-graph/pkg/analysis"
	"github.com/ritzau/movie-graph/pkg/catalog"
	"github.com/ritzau/movie-graph/pkg/config"
	"github.com/ritzau/movie-graph/pkg/logging"
	"github.com/ritzau/movie-graph/pkg/output"
	"github.com/ritzau/movie-graph/pkg/pubsub"
	"github.com/ritzau/movie-graph/pkg/watcher"
	"github.com/ritzau/movie-graph/pkg/web"
	"github.com/spf13/pflag"
)

const (
	quietPeriod = 200 * time.Millisecond
	maxWait     = 2 * time.Second
)

func main() {
	// Parse command-line flags
	flags := pflag.NewFlagSet("movie-graph", pflag.ExitOnError)
	config.RegisterFlags(flags)
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.Configure(cfg.Verbosity, cfg.VerboseCnt, cfg.LogFormat == "json")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags, cfg); err != nil {
		logging.Fatal("movie-graph failed", "error", err)
	}
}

func run(ctx context.Context, flags *pflag.FlagSet, cfg *config.Config) error {
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return err
	}
	logging.Info("loaded catalog", "path", cfg.Catalog, "movies", len(cat.Movies))

	publisher := pubsub.NewSSEPublisher()
	defer publisher.Close()

	server := web.NewServer(analysis.NewAnalyzer(publisher), publisher)
	apply(server, cfg, cat)

	report, err := server.Reanalyze(ctx)
	if err != nil {
		return err
	}
	if err := printReport(cfg, report, cat); err != nil {
		return err
	}

	if cfg.Watch {
		if err := startWatching(ctx, flags, cfg, server); err != nil {
			return err
		}
	}

	if cfg.WebMode {
		return server.Start(ctx, cfg.Port)
	}
	if cfg.Watch {
		<-ctx.Done()
	}
	return nil
}

// apply pushes catalog and config state into the server. Selection flags
// win over the selection stored in the catalog.
func apply(server *web.Server, cfg *config.Config, cat *catalog.Catalog) {
	selected := cat.Selected
	if len(cfg.Selected) > 0 {
		selected = cfg.Selected
	}
	recommended := cat.Recommended
	if len(cfg.Recommended) > 0 {
		recommended = cfg.Recommended
	}

	server.SetCatalog(cat)
	server.SetSelection(selected, recommended)
	server.SetEndpoints(cfg.Start, cfg.End)
}

func printReport(cfg *config.Config, report *analysis.Report, cat *catalog.Catalog) error {
	if cfg.WebMode {
		return nil
	}
	if cfg.JSON {
		return output.WriteJSON(os.Stdout, report)
	}
	output.PrintReport(os.Stdout, report, cat)
	return nil
}

// startWatching re-runs the analysis whenever the catalog or config file
// changes
func startWatching(ctx context.Context, flags *pflag.FlagSet, cfg *config.Config, server *web.Server) error {
	fw, err := watcher.NewFileWatcher(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to watch catalog: %w", err)
	}
	if cfg.File != "" {
		if err := fw.AddFile(cfg.File, watcher.ChangeTypeConfig); err != nil {
			logging.Warn("failed to watch config file", "path", cfg.File, "error", err)
		}
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(fw.Events(), quietPeriod, maxWait)
	debouncer.Start(ctx)

	go func() {
		current := cfg
		for event := range debouncer.Output() {
			changes := watcher.AnalyzeChanges(event)
			logging.Info("detected changes", "type", event.Type.String(), "files", len(changes.ChangedFiles))

			if changes.NeedConfigReload {
				reloaded, err := config.Load(flags)
				if err != nil {
					logging.Error("failed to reload config", "error", err)
					continue
				}
				if reloaded.Catalog != current.Catalog {
					logging.Warn("catalog path changed, restart to watch the new file", "path", reloaded.Catalog)
				}
				current = reloaded
			}

			cat, err := catalog.Load(current.Catalog)
			if err != nil {
				logging.Error("failed to reload catalog", "error", err)
				continue
			}
			apply(server, current, cat)

			report, err := server.Reanalyze(ctx)
			if err != nil {
				logging.Warn("re-analysis aborted", "error", err)
				continue
			}
			if err := printReport(current, report, cat); err != nil {
				logging.Error("failed to print report", "error", err)
			}
		}
	}()

	return nil
}
