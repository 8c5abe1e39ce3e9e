package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"standalone/internal/core/app"
	"standalone/internal/core/config"
	"standalone/internal/data/history"
	"standalone/internal/datasets"
	"standalone/internal/shared/observability"
	"standalone/internal/shared/version"
	"standalone/internal/ui/report"
)

var (
	configPath    = flag.String("config", "./standalone.toml", "Path to config file")
	target        = flag.String("target", "", "Function to extract")
	out           = flag.String("out", "", "Write the snippet to this path (overrides [output].snippet)")
	deps          = flag.Bool("deps", false, "Print the per-category dependency listing")
	listTargets   = flag.Bool("list", false, "List extractable functions and exit")
	watch         = flag.Bool("watch", false, "Re-extract when corpus files change")
	ui            = flag.Bool("ui", false, "Pick the target interactively")
	fetchDatasets = flag.Bool("fetch-datasets", false, "Fetch configured corpora and exit")
	showHistory   = flag.Bool("history", false, "Print recent extraction runs and exit")
	showTrends    = flag.Bool("trends", false, "Print a trend summary over recent runs and exit")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

// trendWindow bounds the moving averages in -trends output.
const trendWindow = 24 * time.Hour

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("standalone v%s\n", version.Version)
		os.Exit(0)
	}

	// Setup logging. Logs go to stderr so stdout stays clean for the
	// snippet.
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stderr
	if *ui {
		// In UI mode, avoid terminal logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
				if err == nil {
					output = f
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	loadedConfigPath := *configPath
	cfg, err := config.Load(loadedConfigPath)
	if err != nil {
		if *configPath == "./standalone.toml" {
			loadedConfigPath = "./standalone.example.toml"
			cfg, err = config.Load(loadedConfigPath)
			if err != nil && os.IsNotExist(err) {
				// No config file at all: run on built-in defaults.
				loadedConfigPath = ""
				cfg, err = config.Default(), nil
			}
		}
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if flag.NArg() > 0 {
		cfg.CorpusPaths = flag.Args()
	}
	if *out != "" {
		cfg.Output.Snippet = *out
	}

	ctx := context.Background()

	if *fetchDatasets {
		if err := datasets.NewFetcher(cfg.Datasets).Fetch(ctx); err != nil {
			slog.Error("dataset fetch failed", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Initialize app
	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if cfg.Observability.Enabled && cfg.Observability.EnableTracing {
		shutdown, err := observability.InitTracing(ctx, "standalone", cfg.Observability.OTLPEndpoint)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}
	if cfg.Observability.Enabled && cfg.Observability.EnableMetrics {
		srv := observability.NewServer(fmt.Sprintf(":%d", cfg.Observability.Port), app.NewHealthService(application).Handler())
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer srv.Stop(context.Background())
	}

	tgt := strings.TrimSpace(*target)
	if tgt == "" {
		tgt = strings.TrimSpace(cfg.Target)
	}

	if *showHistory {
		runs, err := application.RecentRuns(tgt)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Print(formatRunHistory(runs))
		return
	}

	if *showTrends {
		runs, err := application.RecentRuns(tgt)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		// RecentRuns returns newest first; trends want oldest first.
		slices.Reverse(runs)
		tr, err := history.BuildTrendReport(runs, trendWindow)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Print(string(report.TrendTSV(tr)))
		return
	}

	if *listTargets {
		for _, def := range application.ListTargets() {
			fmt.Printf("%s\t%s:%d\n", def.Name, def.Unit, def.Line)
		}
		return
	}

	if *ui {
		chosen, err := runPicker(application)
		if err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
		if chosen == "" {
			return
		}
		tgt = chosen
	}

	if tgt == "" {
		fmt.Fprintln(os.Stderr, "a target function is required: standalone -target <name> [paths...]")
		os.Exit(1)
	}

	if err := runExtraction(application, tgt); err != nil {
		if !*watch {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		// Watch mode keeps going: the target may appear in a later edit.
		slog.Error("extraction failed", "target", tgt, "error", err)
	}

	if !*watch {
		return
	}

	// Watch mode
	onChange := func(paths []string) {
		if _, err := application.Reload(paths); err != nil {
			slog.Error("reload failed", "error", err)
			return
		}
		if err := runExtraction(application, tgt); err != nil {
			slog.Error("extraction failed", "target", tgt, "error", err)
		}
	}
	if err := application.StartWatcher(onChange); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if loadedConfigPath != "" {
		cfgWatcher := config.NewWatcher(loadedConfigPath, func(next *config.Config) {
			application.SetWatchDebounce(next.Watch.Debounce)
		})
		if err := cfgWatcher.Start(ctx); err != nil {
			slog.Warn("config watcher failed to start", "error", err)
		} else {
			defer cfgWatcher.Stop()
		}
	}

	// Block forever
	select {}
}

func runExtraction(application *app.App, target string) error {
	res, err := application.Extract(context.Background(), target)
	if err != nil {
		return err
	}
	if len(res.Result.Resolved) == 0 {
		slog.Warn("target not found in corpus", "target", target)
	}

	if *deps {
		fmt.Print(report.ResultListing(res.Result))
	}
	fmt.Println(report.SnippetBanner)
	fmt.Println(res.Result.Snippet)

	if written, err := application.WriteOutputs(res); err != nil {
		slog.Warn("failed to write outputs", "error", err)
	} else if len(written) > 0 {
		slog.Debug("outputs written", "files", written)
	}
	return nil
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "standalone", "standalone.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "standalone", "standalone.log")
	}

	return "standalone.log"
}

func formatRunHistory(runs []history.Run) string {
	if len(runs) == 0 {
		return "No recorded runs.\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Recent runs (%d)\n", len(runs)))
	for _, run := range runs {
		commit := run.CommitHash
		if commit == "" {
			commit = "-"
		}
		b.WriteString(fmt.Sprintf("%s  %s  commit=%s units=%d resolved=%d missing=%d lines=%d duration=%v\n",
			run.CreatedAt.Format(time.RFC3339),
			run.Target,
			commit,
			run.CorpusUnits,
			run.ResolvedCount,
			run.MissingCount,
			run.SnippetLines,
			run.Duration,
		))
	}
	return b.String()
}
