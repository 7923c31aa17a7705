package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/unreal-lang/unreal/unreal"
)

const portalFile = "portal.upf"

// portalDir is where the editor picks up debug reports.
func portalDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "unreal-portal", "unreal-editor"), nil
}

func debugCommand(args []string) error {
	fs := flag.NewFlagSet("debug", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("File path not given")
	}
	if len(remaining) > 1 {
		return tooManyArgs(len(remaining) - 1)
	}
	logger := newLogger(*verbose)

	path := remaining[0]
	text, err := readProgram(path)
	if err != nil {
		return err
	}
	cfg, err := loadConfig("", logger)
	if err != nil {
		return err
	}
	engine, err := unreal.NewEngine(cfg)
	if err != nil {
		return err
	}
	report := engine.Debug(path, text)

	dir, err := portalDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create portal dir: %w", err)
	}
	target := filepath.Join(dir, portalFile)
	if err := os.WriteFile(target, []byte(report.String()), 0o644); err != nil {
		return fmt.Errorf("write debug report: %w", err)
	}
	logger.Info("wrote debug report", "path", target, "failed", report.Failed)
	return nil
}
