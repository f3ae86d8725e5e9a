package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/taskanalyzer/internal/analysis"
	"github.com/aristath/taskanalyzer/internal/config"
	"github.com/aristath/taskanalyzer/internal/events"
	"github.com/aristath/taskanalyzer/internal/render"
	"github.com/aristath/taskanalyzer/internal/session"
	"github.com/aristath/taskanalyzer/internal/tui"
)

func main() {
	// Create signal-aware context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	bulk     string
	strategy string
	api      string
	logPath  string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("taskanalyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.bulk, "bulk", "", "analyze a JSON array of tasks from `file` (- for stdin) and exit")
	fs.StringVar(&opts.strategy, "strategy", "", "scoring strategy (default from config)")
	fs.StringVar(&opts.api, "api", "", "scoring service base URL (overrides config)")
	fs.StringVar(&opts.logPath, "log", "", "write the debug log to `file`")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

// run executes the program and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	// The standard logger must stay off the terminal while the TUI owns it.
	if opts.logPath != "" {
		f, err := tea.LogToFile(opts.logPath, "taskanalyzer")
		if err != nil {
			fmt.Fprintf(stderr, "Error opening log file: %v\n", err)
			return 1
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if opts.api != "" {
		cfg.API.BaseURL = strings.TrimRight(opts.api, "/")
	}
	if opts.strategy != "" {
		cfg.DefaultStrategy = opts.strategy
	}

	if opts.bulk != "" {
		return runHeadless(ctx, cfg, opts.bulk, stdin, stdout, stderr)
	}
	if err := runInteractive(ctx, cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runHeadless analyzes one bulk payload and prints the rendered results.
func runHeadless(ctx context.Context, cfg *config.AnalyzerConfig, source string, stdin io.Reader, stdout, stderr io.Writer) int {
	bulkText, err := readBulk(source, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading bulk input: %v\n", err)
		return 1
	}

	// A headless run has no task list: the bulk input is the whole payload.
	dispatcher := session.DispatcherFromConfig(cfg)
	scored, err := dispatcher.Analyze(analysis.WithRequestID(ctx, session.NewAnalysisID()), bulkText, cfg.DefaultStrategy, nil)
	if err != nil {
		log.Printf("headless analysis failed: %v", err)
		fmt.Fprintln(stderr, session.UserMessage(err))
		return 1
	}

	entries := render.Render(scored)
	log.Printf("headless analysis: %d task(s) scored", len(entries))
	fmt.Fprint(stdout, render.Text(entries))
	return 0
}

func readBulk(source string, stdin io.Reader) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(source)
	return string(data), err
}

// runInteractive runs the TUI until the user quits or ctx is cancelled.
func runInteractive(ctx context.Context, cfg *config.AnalyzerConfig) error {
	globalPath, projectPath, err := config.DefaultPaths()
	if err != nil {
		return err
	}

	// Analyses started from the UI are cancelled when the program exits.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := events.NewEventBus()
	defer bus.Close()

	sess := session.New(session.DispatcherFromConfig(cfg), bus)
	model := tui.New(ctx, sess, bus, cfg, globalPath, projectPath)
	p := tea.NewProgram(model, tea.WithAltScreen())

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		_, err := p.Run()
		return err
	})

	g.Go(func() error {
		select {
		case <-done:
		case <-gctx.Done():
			log.Println("Shutdown signal received, quitting TUI")
			p.Quit()
		}
		return nil
	})

	err = g.Wait()
	log.Println("Shutdown complete")
	return err
}
