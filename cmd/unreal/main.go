package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/unreal-lang/unreal/unreal"
)

const versionText = "Unreal version 1.0.0"

const configEnv = "UNREAL_CONFIG"

var cliErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

// exitStatus ends the process with code without printing anything more.
type exitStatus struct {
	code int
}

func (e *exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	if err := runCLI(os.Args); err != nil {
		var status *exitStatus
		if errors.As(err, &status) {
			os.Exit(status.code)
		}
		fmt.Fprintln(os.Stderr, cliErrorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return replCommand(nil)
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "version":
		if len(args) > 2 {
			return tooManyArgs(len(args) - 2)
		}
		fmt.Println(versionText)
		return nil
	case "debug", "DEBUG":
		return debugCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	}
	if strings.HasSuffix(args[1], ".un") {
		return runShorthand(args[1:])
	}
	return fmt.Errorf("Unknown command '%s'", args[1])
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [command]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [flags] <file.un>       run a program")
	fmt.Fprintln(os.Stderr, "  <file.un> [POLICY] [MODE]   run a program (shorthand)")
	fmt.Fprintln(os.Stderr, "  debug <file.un>             run a program and write the editor portal file")
	fmt.Fprintln(os.Stderr, "  repl [-plain]               start the interactive console (default)")
	fmt.Fprintln(os.Stderr, "  version                     print the version")
	fmt.Fprintln(os.Stderr, "Run flags:")
	fmt.Fprintln(os.Stderr, "  -config <file>")
	fmt.Fprintln(os.Stderr, "    YAML settings file (default $"+configEnv+")")
	fmt.Fprintln(os.Stderr, "  -mode 1|2|3")
	fmt.Fprintln(os.Stderr, "    build, develop or none")
	fmt.Fprintln(os.Stderr, "  -exit POLICY")
	fmt.Fprintln(os.Stderr, "    EXIT-INSTANTLY, WAIT-FOR-EXIT, WAIT-IF-ERROR or EXIT-AFTER-TIME:<ms>")
	fmt.Fprintln(os.Stderr, "  -check")
	fmt.Fprintln(os.Stderr, "    only compile the program without executing")
	fmt.Fprintln(os.Stderr, "  -v")
	fmt.Fprintln(os.Stderr, "    verbose logging")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

func tooManyArgs(n int) error {
	return fmt.Errorf("%d too many args passed", n)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type runOptions struct {
	path       string
	configPath string
	mode       unreal.Mode
	policy     exitPolicy
	checkOnly  bool
	logger     *slog.Logger
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	configPath := fs.String("config", "", "YAML settings file")
	mode := fs.String("mode", "", "output mode: 1, 2 or 3")
	policy := fs.String("exit", "", "exit policy")
	checkOnly := fs.Bool("check", false, "only compile the program without executing")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("unreal run: file path required")
	}
	if len(remaining) > 1 {
		return tooManyArgs(len(remaining) - 1)
	}

	opts := runOptions{
		path:       remaining[0],
		configPath: *configPath,
		checkOnly:  *checkOnly,
		logger:     newLogger(*verbose),
	}
	var err error
	if opts.policy, err = parseExitPolicy(*policy); err != nil {
		return err
	}
	if opts.mode, err = parseMode(*mode); err != nil {
		return err
	}
	return runFile(opts)
}

// runShorthand handles `unreal <file.un> [POLICY] [MODE]`.
func runShorthand(args []string) error {
	if len(args) > 3 {
		return tooManyArgs(len(args) - 3)
	}
	opts := runOptions{path: args[0], logger: newLogger(false)}
	var err error
	if len(args) >= 2 {
		if opts.policy, err = parseExitPolicy(args[1]); err != nil {
			return err
		}
	}
	if len(args) == 3 {
		if opts.mode, err = parseMode(args[2]); err != nil {
			return err
		}
	}
	return runFile(opts)
}

func parseMode(raw string) (unreal.Mode, error) {
	switch raw {
	case "":
		return 0, nil
	case "1":
		return unreal.ModeBuild, nil
	case "2":
		return unreal.ModeDevelop, nil
	case "3":
		return unreal.ModeNone, nil
	default:
		return 0, errors.New("Mode must be 1, 2 or 3")
	}
}

// loadConfig resolves the settings file from the flag, then the
// environment. Without either the engine runs on defaults.
func loadConfig(path string, logger *slog.Logger) (unreal.Config, error) {
	source := "flag"
	if path == "" {
		path = os.Getenv(configEnv)
		source = "env"
	}
	if path == "" {
		logger.Debug("no config file, using defaults")
		return unreal.Config{}, nil
	}
	cfg, err := unreal.LoadConfig(path)
	if err != nil {
		return unreal.Config{}, err
	}
	logger.Debug("loaded config", "path", path, "source", source)
	return cfg, nil
}

func readProgram(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("'%s' doesn't exist", path)
	}
	if err != nil {
		return "", fmt.Errorf("read program: %w", err)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

func runFile(opts runOptions) error {
	text, err := readProgram(opts.path)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts.configPath, opts.logger)
	if err != nil {
		return err
	}
	if opts.mode != 0 {
		cfg.Mode = opts.mode
	}
	if cfg.Mode == 0 {
		cfg.Mode = unreal.ModeBuild
	}
	engine, err := unreal.NewEngine(cfg)
	if err != nil {
		return err
	}

	if opts.checkOnly {
		if _, err := engine.Compile(opts.path, text); err != nil {
			return fmt.Errorf("compile failed: %w", err)
		}
		return nil
	}

	opts.logger.Debug("running program", "path", opts.path, "mode", engine.Mode().String())
	result, err := engine.Execute(opts.path, text)
	var exit *unreal.ExitError
	if errors.As(err, &exit) {
		return &exitStatus{code: exit.Code}
	}
	failed := err != nil
	if failed {
		fmt.Fprintln(os.Stderr, cliErrorStyle.Render(strings.TrimSpace(err.Error())))
	} else {
		printResult(os.Stdout, engine.Mode(), result)
	}

	if err := opts.policy.apply(failed); err != nil {
		return err
	}
	if failed {
		return &exitStatus{code: 1}
	}
	return nil
}

var outStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

// printResult echoes a non-none program result in develop mode.
func printResult(w io.Writer, mode unreal.Mode, result unreal.Value) {
	if mode != unreal.ModeDevelop || result.IsNone() {
		return
	}
	fmt.Fprintln(w, outStyle.Render("Out:")+" "+unreal.Render(result))
}

type policyKind int

const (
	exitInstantly policyKind = iota
	waitForExit
	waitIfError
	exitAfterTime
)

// exitPolicy decides what happens once a file run has finished.
type exitPolicy struct {
	kind  policyKind
	delay time.Duration
}

const exitAfterTimePrefix = "EXIT-AFTER-TIME:"

func parseExitPolicy(raw string) (exitPolicy, error) {
	switch raw {
	case "", "EXIT-INSTANTLY":
		return exitPolicy{kind: exitInstantly}, nil
	case "WAIT-FOR-EXIT":
		return exitPolicy{kind: waitForExit}, nil
	case "WAIT-IF-ERROR":
		return exitPolicy{kind: waitIfError}, nil
	}
	if ms, ok := strings.CutPrefix(raw, exitAfterTimePrefix); ok {
		n, err := strconv.Atoi(ms)
		if err != nil || n < 0 {
			return exitPolicy{}, errors.New("Time must be int")
		}
		return exitPolicy{kind: exitAfterTime, delay: time.Duration(n) * time.Millisecond}, nil
	}
	return exitPolicy{}, fmt.Errorf("Invalid run condition '%s'", raw)
}

var (
	sleep      = time.Sleep
	waitForKey = pressAnyKey
)

func (p exitPolicy) apply(failed bool) error {
	switch p.kind {
	case waitForExit:
		return waitForKey()
	case waitIfError:
		if failed {
			return waitForKey()
		}
	case exitAfterTime:
		sleep(p.delay)
	}
	return nil
}
