package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/winjitsu/internal/action"
	"github.com/1broseidon/winjitsu/internal/animate"
	"github.com/1broseidon/winjitsu/internal/cache"
	"github.com/1broseidon/winjitsu/internal/config"
	"github.com/1broseidon/winjitsu/internal/placement"
	"github.com/1broseidon/winjitsu/internal/platform"
)

// Replaced in tests.
var (
	loadConfig  = config.Load
	openBackend = defaultOpenBackend
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printMainUsage(stderr)
		return 2
	}

	switch args[0] {
	case "displays":
		return runDisplays(args[1:], stdout, stderr)
	case "config":
		return runConfig(args[1:], stdout, stderr)
	case "palette":
		return runPalette(args[1:], stdout, stderr)
	case "daemon":
		return runDaemon(args[1:], stderr)
	case "mcp":
		return runMCP(args[1:], stderr)
	case "help", "-h", "--help":
		printMainUsage(stdout)
		return 0
	}

	if len(args) != 1 {
		fmt.Fprintf(stderr, "expected a single action, got %d arguments\n\n", len(args))
		printMainUsage(stderr)
		return 2
	}
	a, err := action.Parse(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		printMainUsage(stderr)
		return 2
	}
	return runAction(a, stdout, stderr)
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winjitsu <ACTION>")
	fmt.Fprintln(w, "       winjitsu <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Actions (applied to the focused window):")
	for _, a := range action.All {
		fmt.Fprintf(w, "  %-4s %s\n", a, a.Description())
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  displays            List connected displays")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the configuration file path")
	fmt.Fprintln(w, "  palette             Pick an action from a launcher menu")
	fmt.Fprintln(w, "  daemon              Bind hotkeys and run actions on key press (foreground)")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
}

// fail prints a fatal error to stdout.
func fail(stdout io.Writer, err error) int {
	fmt.Fprintf(stdout, "Error: %v\n", err)
	return 1
}

func runAction(a action.Action, stdout, stderr io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		return fail(stdout, err)
	}
	logger := newLogger(cfg, stderr)

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		return fail(stdout, err)
	}
	defer closeBackend()

	runner, err := newRunner(cfg, backend, logger)
	if err != nil {
		return fail(stdout, err)
	}
	if err := runner.Run(a); err != nil {
		return fail(stdout, err)
	}
	return 0
}

func openCache(cfg *config.Config) (*cache.FileStore, error) {
	dir, err := cfg.ResolveCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	return cache.NewFileStore(dir), nil
}

func newRunner(cfg *config.Config, backend platform.Backend, logger *slog.Logger) (*action.Runner, error) {
	store, err := openCache(cfg)
	if err != nil {
		return nil, err
	}
	return action.NewRunner(action.RunnerConfig{
		Backend:  backend,
		Cache:    store,
		Animator: animate.New(backend, cfg.Animation.Steps, cfg.Animation.FrameDelay),
		Fallback: placement.Size{
			Width:  cfg.FallbackResolution.Width,
			Height: cfg.FallbackResolution.Height,
		},
		Logger: logger,
	}), nil
}

func defaultOpenBackend(cfg *config.Config) (platform.Backend, func(), error) {
	switch cfg.Backend {
	case config.BackendX11:
		b, err := platform.NewLinuxBackendFromDisplay()
		if err != nil {
			return nil, nil, err
		}
		return b, b.Disconnect, nil
	default:
		return platform.NewExecBackend(nil), func() {}, nil
	}
}

// newLogger writes text to a terminal and JSON otherwise.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

type displayJSON struct {
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Primary bool   `json:"primary"`
}

func runDisplays(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("displays", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: winjitsu displays [--json]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "List connected displays as the placement logic sees them.")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output displays as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, "displays takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig()
	if err != nil {
		return fail(stdout, err)
	}
	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		return fail(stdout, err)
	}
	defer closeBackend()

	layout, err := backend.Displays()
	if err != nil {
		return fail(stdout, err)
	}

	if *jsonOut {
		out := make([]displayJSON, 0, len(layout.Displays))
		for _, d := range layout.Displays {
			out = append(out, displayJSON{Name: d.Name, Width: d.Width, Height: d.Height, Primary: d.Primary})
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fail(stdout, err)
		}
		return 0
	}

	for _, d := range layout.Displays {
		fmt.Fprintln(stdout, d.String())
	}
	return 0
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winjitsu config validate [--path PATH]")
	fmt.Fprintln(w, "  winjitsu config print [--path PATH] [--defaults]")
	fmt.Fprintln(w, "  winjitsu config path")
}

func runConfig(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printConfigUsage(stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(stdout)
		return 0
	}

	load := func(path string) (*config.Config, error) {
		if path == "" {
			return loadConfig()
		}
		return config.LoadFromPath(path)
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winjitsu/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if _, err := load(*path); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, "config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winjitsu/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			var err error
			if cfg, err = load(*path); err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprint(stdout, string(data))
		return 0

	case "path":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, path)
		return 0

	default:
		fmt.Fprintf(stderr, "Unknown config subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}
