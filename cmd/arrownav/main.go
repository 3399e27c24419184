// Command arrownav runs the spatial navigation demo in the terminal.
package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/arrownav/pkg/config"
	"github.com/odvcencio/arrownav/pkg/errors"
	"github.com/odvcencio/arrownav/pkg/logging"
	"github.com/odvcencio/arrownav/pkg/terminal"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// isInteractiveTerminal is swapped out by tests.
var isInteractiveTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}

type startupOptions struct {
	configPath  string
	metricsAddr string
	traceFile   string
	logFile     string
	args        []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	opts, err := parseStartupOptions(argv, stderr)
	if stderrors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return report(stderr, withExitCode(err, 2), envDebug())
	}

	fail := func(err error) int {
		return report(stderr, err, err != nil && debugEnabled(opts))
	}
	cmd := ""
	if len(opts.args) > 0 {
		cmd = opts.args[0]
	}
	switch cmd {
	case "version":
		printVersion(stdout)
		return 0
	case "config":
		return fail(runConfigCommand(stdout, opts))
	case "keys":
		return fail(runKeysCommand(stdout, opts))
	case "":
		return fail(runInteractive(opts))
	default:
		return fail(withExitCode(fmt.Errorf("unknown command: %s (use config, keys or version)", cmd), 2))
	}
}

func parseStartupOptions(argv []string, stderr io.Writer) (startupOptions, error) {
	var opts startupOptions
	fs := flag.NewFlagSet("arrownav", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file (default ~/.arrownav/config.yaml then ./.arrownav/config.yaml)")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.StringVar(&opts.traceFile, "trace-file", "", "append OpenTelemetry spans to this file")
	fs.StringVar(&opts.logFile, "log-file", "", "append JSON logs to this file")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: arrownav [flags] [config check|show|path | keys | version]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		return opts, err
	}
	opts.args = fs.Args()
	return opts, nil
}

// loadConfig loads the config and applies flag overrides.
func loadConfig(opts startupOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.metricsAddr != "" {
		cfg.Telemetry.MetricsAddr = opts.metricsAddr
	}
	if opts.traceFile != "" {
		cfg.Telemetry.TraceFile = opts.traceFile
	}
	if opts.logFile != "" {
		cfg.Logging.File = opts.logFile
	}
	return cfg, nil
}

// configSource returns the file worth watching for reloads: the explicit
// path, else the project file, else the user file. Empty when none exists.
func configSource(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, path := range []string{config.ProjectPath, config.UserPath()} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func runConfigCommand(stdout io.Writer, opts startupOptions) error {
	sub := "show"
	if len(opts.args) > 1 {
		sub = opts.args[1]
	}

	switch sub {
	case "path":
		if path := configSource(opts.configPath); path != "" {
			fmt.Fprintln(stdout, path)
		} else {
			fmt.Fprintln(stdout, "(defaults)")
		}
		return nil
	case "check":
		cfg, err := loadConfig(opts)
		if err != nil {
			return err
		}
		out := terminal.NewWriter(stdout)
		out.Success("configuration OK")
		for _, w := range cfg.ValidationWarnings() {
			out.Warn("%s", w)
		}
		return nil
	case "show":
		cfg, err := loadConfig(opts)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "encoding config")
		}
		_, err = stdout.Write(data)
		return err
	default:
		return withExitCode(fmt.Errorf("unknown config command: %s (use check, show, or path)", sub), 2)
	}
}

// runKeysCommand prints the effective key bindings.
func runKeysCommand(stdout io.Writer, opts startupOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	km, err := cfg.KeyMap()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(km)+3)
	for b, dir := range km {
		rows = append(rows, []string{b.String(), dir.String()})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i][1] != rows[j][1] {
			return rows[i][1] < rows[j][1]
		}
		return rows[i][0] < rows[j][0]
	})
	// Bindings shadow the built-in keys, except Ctrl+C.
	builtin := func(action string, keys ...terminal.Binding) {
		var names []string
		for _, k := range keys {
			if _, bound := km[k]; !bound {
				names = append(names, k.String())
			}
		}
		if len(names) > 0 {
			rows = append(rows, []string{strings.Join(names, ", "), action})
		}
	}
	builtin("select", terminal.Binding{Key: terminal.KeyEnter})
	builtin("quit", terminal.Binding{Key: terminal.KeyEscape}, terminal.Binding{Key: terminal.KeyRune, Rune: 'q'})
	rows = append(rows, []string{"Ctrl+C", "quit"})

	out := terminal.NewWriter(stdout)
	out.Header("Key bindings")
	return out.Markdown(terminal.MarkdownTable([]string{"Key", "Action"}, rows))
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "arrownav %s\n", version)
	if commit != "unknown" {
		fmt.Fprintf(w, "  Commit:     %s\n", commit)
	}
	if buildDate != "unknown" {
		fmt.Fprintf(w, "  Built:      %s\n", buildDate)
	}
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
}

// report prints err with any remediation hints and returns the exit code.
// With stack set, coded errors also print where they were created.
func report(stderr io.Writer, err error, stack bool) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var coded *errors.Error
	if stderrors.As(err, &coded) {
		if len(coded.Remediation) > 0 {
			fmt.Fprintf(stderr, "  %s\n", strings.Join(coded.Remediation, "\n  "))
		}
		if stack && len(coded.Stack) > 0 {
			fmt.Fprint(stderr, coded.StackTrace())
		}
	}
	return exitCodeForError(err)
}

// debugEnabled reports whether logging.level resolves to debug, from the
// environment or, failing that, the loaded configuration.
func debugEnabled(opts startupOptions) bool {
	if envDebug() {
		return true
	}
	cfg, err := loadConfig(opts)
	return err == nil && cfg.LogLevel() == logging.LevelDebug
}

func envDebug() bool {
	level, err := logging.ParseLevel(os.Getenv("ARROWNAV_LOG_LEVEL"))
	return err == nil && level == logging.LevelDebug
}
