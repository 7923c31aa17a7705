package main

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/unreal-lang/unreal/unreal"
)

func newTestREPL(t *testing.T) replModel {
	t.Helper()
	m, err := newREPLModel(unreal.Config{})
	if err != nil {
		t.Fatalf("new repl: %v", err)
	}
	return m
}

func submit(t *testing.T, m replModel, input string) (replModel, tea.Cmd) {
	t.Helper()
	m.textInput.SetValue(input)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return rm, cmd
}

func lastEntry(t *testing.T, m replModel) historyEntry {
	t.Helper()
	if len(m.history) == 0 {
		t.Fatalf("history is empty")
	}
	return m.history[len(m.history)-1]
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	rm, cmd := submit(t, newTestREPL(t), ":quit")

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	rm, cmd := submit(t, newTestREPL(t), ":help")

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestEvaluateKeepsGlobalsBetweenEntries(t *testing.T) {
	m := newTestREPL(t)
	m, _ = submit(t, m, "var score = 40")
	m, _ = submit(t, m, "score + 2")

	entry := lastEntry(t, m)
	if entry.isErr || entry.output != "42" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if got := m.userVars(); !reflect.DeepEqual(got, []string{"score"}) {
		t.Fatalf("user vars: got %v", got)
	}
	if len(m.cmdHistory) != 2 {
		t.Fatalf("command history: got %v", m.cmdHistory)
	}
}

func TestEvaluateCapturesPrintedOutput(t *testing.T) {
	m, _ := submit(t, newTestREPL(t), `print("a"), print("b")`)
	entry := lastEntry(t, m)
	if entry.printed != "a\nb" {
		t.Fatalf("printed: got %q", entry.printed)
	}

	m, _ = submit(t, m, `print("c", end="")`)
	if entry := lastEntry(t, m); entry.printed != "c" {
		t.Fatalf("output must be captured per entry, got %q", entry.printed)
	}
}

func TestEvaluateNoneResultHasNoOutput(t *testing.T) {
	m, _ := submit(t, newTestREPL(t), "if false: 1")
	if entry := lastEntry(t, m); entry.output != "" || entry.isErr {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestEvaluateErrorSuggestsName(t *testing.T) {
	m := newTestREPL(t)
	m, _ = submit(t, m, "var counter = 1")
	m, _ = submit(t, m, "countr + 1")

	entry := lastEntry(t, m)
	if !entry.isErr {
		t.Fatalf("expected an error entry")
	}
	if !strings.Contains(entry.output, "'countr' isn't defined") {
		t.Fatalf("missing error details: %q", entry.output)
	}
	if !strings.HasSuffix(entry.output, "Did you mean 'counter'?") {
		t.Fatalf("missing suggestion: %q", entry.output)
	}
}

func TestModeCommand(t *testing.T) {
	m := newTestREPL(t)
	m, _ = submit(t, m, ":mode 1")
	if m.engine.Mode() != unreal.ModeBuild {
		t.Fatalf("mode: got %v", m.engine.Mode())
	}
	m, _ = submit(t, m, "1 + 1")
	if entry := lastEntry(t, m); entry.output != "" {
		t.Fatalf("build mode should not echo results, got %q", entry.output)
	}

	m, _ = submit(t, m, ":mode 5")
	if entry := lastEntry(t, m); !entry.isErr || entry.output != "Mode must be 1, 2 or 3" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	m, _ = submit(t, m, ":mode")
	if entry := lastEntry(t, m); entry.output != "Mode 1 (build)" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestResetCommandDropsGlobals(t *testing.T) {
	m := newTestREPL(t)
	m, _ = submit(t, m, "var kept = 1")
	m, _ = submit(t, m, ":reset")
	if vars := m.userVars(); len(vars) != 0 {
		t.Fatalf("expected no globals after reset, got %v", vars)
	}
	m, _ = submit(t, m, "kept")
	if entry := lastEntry(t, m); !entry.isErr {
		t.Fatalf("expected NotDefError after reset, got %+v", entry)
	}
}

func TestClearBuiltinClearsHistory(t *testing.T) {
	m := newTestREPL(t)
	m, _ = submit(t, m, "1")
	m, _ = submit(t, m, "2")
	m, _ = submit(t, m, "clear()")
	if len(m.history) != 1 || m.history[0].input != "clear()" {
		t.Fatalf("history after clear: %+v", m.history)
	}
}

func TestExitBuiltinQuits(t *testing.T) {
	m, cmd := submit(t, newTestREPL(t), "exit(5)")
	if !m.quitting || m.exitCode != 5 {
		t.Fatalf("expected quit with code 5, got quitting=%v code=%d", m.quitting, m.exitCode)
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
}

func TestUnknownCommand(t *testing.T) {
	m, _ := submit(t, newTestREPL(t), ":nope")
	if entry := lastEntry(t, m); !entry.isErr || entry.output != "Unknown command: :nope" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := newTestREPL(t)
	m, _ = submit(t, m, "1")
	m, _ = submit(t, m, "2")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(replModel)
	if m.textInput.Value() != "2" {
		t.Fatalf("up: got %q", m.textInput.Value())
	}
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(replModel)
	if m.textInput.Value() != "1" {
		t.Fatalf("second up: got %q", m.textInput.Value())
	}
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(replModel)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(replModel)
	if m.textInput.Value() != "" || m.historyIdx != -1 {
		t.Fatalf("down past the end should clear input, got %q", m.textInput.Value())
	}
}

func TestAutocomplete(t *testing.T) {
	m := newTestREPL(t)
	m.textInput.SetValue("x = isTu")
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = model.(replModel)
	if m.textInput.Value() != "x = isTuple" {
		t.Fatalf("completion: got %q", m.textInput.Value())
	}

	m.textInput.SetValue("is")
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = model.(replModel)
	entry := lastEntry(t, m)
	if !strings.HasPrefix(entry.output, "Completions: is, ") {
		t.Fatalf("expected ranked completions, got %q", entry.output)
	}
}

func TestSuggestName(t *testing.T) {
	names := []string{"print", "input", "total"}
	cases := map[string]string{
		"prin":  "print",
		"pritn": "print",
		"totl":  "total",
		"zzzzz": "",
	}
	for name, want := range cases {
		if got := suggestName(name, names); got != want {
			t.Fatalf("%s: got %q want %q", name, got, want)
		}
	}
}

func TestViewRendersHistory(t *testing.T) {
	m := newTestREPL(t)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = model.(replModel)
	m, _ = submit(t, m, `print("shown"), 7`)

	view := m.View()
	for _, want := range []string{"Unreal", "shown", "Out:", "7"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestRunEntry(t *testing.T) {
	engine := unreal.MustNewEngine(unreal.Config{Mode: unreal.ModeDevelop, Stdin: strings.NewReader("")})
	var stdout, stderr bytes.Buffer

	if err := runEntry(&stdout, &stderr, engine, "var n = 2\nn * 21"); err != nil {
		t.Fatalf("run entry: %v", err)
	}
	if !strings.Contains(stdout.String(), "42") {
		t.Fatalf("expected echoed result, got %q", stdout.String())
	}

	if err := runEntry(&stdout, &stderr, engine, "1 / 0"); err != nil {
		t.Fatalf("runtime errors are reported, not returned: %v", err)
	}
	if !strings.Contains(stderr.String(), "DivByZeroError") {
		t.Fatalf("expected error on stderr, got %q", stderr.String())
	}

	if err := runEntry(&stdout, &stderr, engine, "exit()"); !errors.Is(err, io.EOF) {
		t.Fatalf("exit() should end the console, got %v", err)
	}
	var status *exitStatus
	if err := runEntry(&stdout, &stderr, engine, "exit(9)"); !errors.As(err, &status) || status.code != 9 {
		t.Fatalf("expected exit status 9, got %v", err)
	}
}

func TestIncompleteInput(t *testing.T) {
	engine := unreal.MustNewEngine(unreal.Config{Stdin: strings.NewReader("")})
	cases := map[string]bool{
		"for i = 0 to 3 {": true,
		"func f(a,":        true,
		"1 +":              true,
		"var 1":            false,
		"x = 1\n)":         false,
	}
	for src, want := range cases {
		_, err := engine.Compile(replSource, src)
		if err == nil {
			t.Fatalf("%q: expected a syntax error", src)
		}
		if got := incomplete(err, src); got != want {
			t.Fatalf("%q: got %v want %v", src, got, want)
		}
	}
}

func TestCompleteLine(t *testing.T) {
	got := completeLine("var a = pri", []string{"print", "private", "input"})
	want := []string{"var a = print", "var a = private"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if completeLine("a + ", []string{"print"}) != nil {
		t.Fatalf("nothing to complete after a separator")
	}
}
