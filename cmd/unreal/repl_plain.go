package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/unreal-lang/unreal/unreal"
)

const (
	plainPrompt     = "Unreal >> "
	plainContPrompt = "      .. "
	historyFile     = ".unreal_history"
)

// runPlainREPL is the line-mode console. Programs talk to the real
// terminal, so input() works here.
func runPlainREPL(cfg unreal.Config) error {
	if cfg.Mode == 0 {
		cfg.Mode = unreal.ModeDevelop
	}
	engine, err := unreal.NewEngine(cfg)
	if err != nil {
		return err
	}

	fmt.Println(versionText)
	fmt.Println()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		return completeLine(line, append(unreal.Keywords(), engine.Globals().Symbols.Names()...))
	})

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		code, ok := readEntry(ln, engine)
		if !ok {
			fmt.Println()
			return nil
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if trimmed == ":quit" || trimmed == ":q" {
			return nil
		}
		if err := runEntry(os.Stdout, os.Stderr, engine, code); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// runEntry executes one console entry and reports its outcome. It returns
// an *exitStatus when the program called exit with a non-zero code, and
// io.EOF for exit(0).
func runEntry(stdout, stderr io.Writer, engine *unreal.Engine, code string) error {
	result, err := engine.Execute(replSource, code)
	var exit *unreal.ExitError
	if errors.As(err, &exit) {
		if exit.Code == 0 {
			return io.EOF
		}
		return &exitStatus{code: exit.Code}
	}
	if err != nil {
		fmt.Fprintln(stderr, cliErrorStyle.Render(strings.TrimSpace(err.Error())))
		return nil
	}
	printResult(stdout, engine.Mode(), result)
	return nil
}

// readEntry reads lines until they form a complete program, so blocks can
// span several lines.
func readEntry(ln *liner.State, engine *unreal.Engine) (string, bool) {
	var b strings.Builder
	for {
		prompt := plainPrompt
		if b.Len() > 0 {
			prompt = plainContPrompt
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			if b.Len() > 0 && errors.Is(err, liner.ErrPromptAborted) {
				return "", true
			}
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, err := engine.Compile(replSource, src); err != nil && incomplete(err, src) {
			continue
		}
		return src, true
	}
}

// incomplete reports whether a syntax error sits at the end of the text,
// meaning more lines could complete it.
func incomplete(err error, text string) bool {
	var syntaxErr *unreal.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return false
	}
	return syntaxErr.Start.Offset >= len(strings.TrimRight(text, " \t\n"))
}

func completeLine(line string, candidates []string) []string {
	cut := strings.LastIndexFunc(line, func(r rune) bool { return !isNameRune(r) })
	prefix, word := line[:cut+1], line[cut+1:]
	if word == "" {
		return nil
	}
	var out []string
	for _, match := range rankedMatches(word, candidates) {
		if strings.HasPrefix(match, word) {
			out = append(out, prefix+match)
		}
	}
	return out
}

func isNameRune(r rune) bool {
	return r == '_' || r == '$' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
