package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/unreal-lang/unreal/unreal"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

const replSource = "<stdin>"

type historyEntry struct {
	input   string
	printed string
	output  string
	isErr   bool
}

// replSession is shared by every copy of the model; the engine writes
// program output into it.
type replSession struct {
	output  bytes.Buffer
	cleared bool
}

type replModel struct {
	textInput   textinput.Model
	engine      *unreal.Engine
	session     *replSession
	builtins    map[string]struct{}
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
	exitCode    int
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlV key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlV: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle vars"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

// newREPLModel builds the console model. Program output is captured per
// entry; input() reads nothing here, so interactive programs belong in the
// plain console.
func newREPLModel(cfg unreal.Config) (replModel, error) {
	ti := textinput.New()
	ti.Placeholder = "type a statement..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "Unreal >> "

	session := &replSession{}
	cfg.Mode = unreal.ModeDevelop
	cfg.Stdout = &session.output
	cfg.Stdin = strings.NewReader("")
	cfg.ClearScreen = func(io.Writer) error {
		session.cleared = true
		session.output.Reset()
		return nil
	}
	engine, err := unreal.NewEngine(cfg)
	if err != nil {
		return replModel{}, err
	}

	builtins := make(map[string]struct{})
	for _, name := range engine.Globals().Symbols.Names() {
		builtins[name] = struct{}{}
	}

	return replModel{
		textInput:  ti,
		engine:     engine,
		session:    session,
		builtins:   builtins,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}, nil
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 14
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlV):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			entry, exited := m.evaluate(input)
			if m.session.cleared {
				m.history = make([]historyEntry, 0)
			}
			m.history = append(m.history, entry)
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			if exited {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":reset", ":r":
		m.engine.Reset()
		m.history = append(m.history, historyEntry{input: input, output: "Environment reset"})
	case ":mode", ":m":
		m.history = append(m.history, m.changeMode(input, parts[1:]))
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) changeMode(input string, args []string) historyEntry {
	if len(args) == 0 {
		return historyEntry{input: input, output: "Mode " + formatMode(m.engine.Mode())}
	}
	mode, err := parseMode(args[0])
	if err != nil || mode == 0 {
		return historyEntry{input: input, output: "Mode must be 1, 2 or 3", isErr: true}
	}
	m.engine.SetMode(mode)
	return historyEntry{input: input, output: "Mode " + formatMode(mode)}
}

// completionCandidates lists keywords and every name visible at the top
// level, built-ins included.
func (m replModel) completionCandidates() []string {
	candidates := unreal.Keywords()
	return append(candidates, m.engine.Globals().Symbols.Names()...)
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if input == "" {
		return m
	}

	words := strings.FieldsFunc(input, func(r rune) bool { return !isNameRune(r) })
	if len(words) == 0 || !strings.HasSuffix(input, words[len(words)-1]) {
		return m
	}
	lastWord := words[len(words)-1]

	completions := rankedMatches(lastWord, m.completionCandidates())
	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{output: "Completions: " + strings.Join(completions, ", ")})
	}
	return m
}

// rankedMatches returns the candidates fuzzily containing word, closest
// first, without duplicates.
func rankedMatches(word string, candidates []string) []string {
	ranks := fuzzy.RankFindFold(word, candidates)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].Target < ranks[j].Target
	})
	seen := make(map[string]struct{}, len(ranks))
	var out []string
	for _, r := range ranks {
		if _, dup := seen[r.Target]; dup {
			continue
		}
		seen[r.Target] = struct{}{}
		out = append(out, r.Target)
	}
	return out
}

// suggestName finds the closest defined name for an undefined one.
func suggestName(name string, candidates []string) string {
	if matches := rankedMatches(name, candidates); len(matches) > 0 {
		return matches[0]
	}
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// evaluate runs one console entry. The second result reports that the
// program called exit.
func (m *replModel) evaluate(input string) (historyEntry, bool) {
	m.session.output.Reset()
	m.session.cleared = false

	result, err := m.engine.Execute(replSource, input)
	entry := historyEntry{
		input:   input,
		printed: strings.TrimRight(m.session.output.String(), "\n"),
	}

	var exit *unreal.ExitError
	if errors.As(err, &exit) {
		m.exitCode = exit.Code
		return entry, true
	}
	if err != nil {
		entry.isErr = true
		entry.output = strings.TrimSpace(err.Error())
		if hint := m.hint(err); hint != "" {
			entry.output += "\n" + hint
		}
		return entry, false
	}
	if m.engine.Mode() == unreal.ModeDevelop && !result.IsNone() {
		entry.output = unreal.Render(result)
	}
	return entry, false
}

func (m replModel) hint(err error) string {
	var runtimeErr *unreal.RuntimeError
	if !errors.As(err, &runtimeErr) || runtimeErr.Kind != unreal.NotDefError {
		return ""
	}
	name, ok := quotedName(runtimeErr.Details)
	if !ok {
		return ""
	}
	if suggestion := suggestName(name, m.engine.Globals().Symbols.Names()); suggestion != "" && suggestion != name {
		return fmt.Sprintf("Did you mean '%s'?", suggestion)
	}
	return ""
}

func quotedName(details string) (string, bool) {
	start := strings.IndexByte(details, '\'')
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(details[start+1:], '\'')
	if end < 0 {
		return "", false
	}
	return details[start+1 : start+1+end], true
}

// userVars returns the global bindings a session defined, sorted by name.
func (m replModel) userVars() []string {
	var names []string
	for _, name := range m.engine.Globals().Symbols.Names() {
		if _, builtin := m.builtins[name]; !builtin {
			names = append(names, name)
		}
	}
	return names
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("Unreal")
	version := mutedStyle.Render(versionText)
	b.WriteString(header + " " + version + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	vars := m.userVars()
	reservedLines := 8
	if m.showHelp {
		reservedLines += 12
	}
	if m.showVars {
		reservedLines += len(vars) + 3
	}
	availableHeight := max(m.height-reservedLines, 1)

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.printed != "" {
			for _, line := range strings.Split(entry.printed, "\n") {
				b.WriteString("    " + line + "\n")
			}
		}
		switch {
		case entry.isErr:
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		case entry.output != "":
			b.WriteString("  " + helpKeyStyle.Render("Out: ") + resultStyle.Render(entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showVars {
		b.WriteString(m.renderVarsPanel(vars))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" vars  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func (m replModel) renderVarsPanel(names []string) string {
	if len(names) == 0 {
		return borderStyle.Render(mutedStyle.Render("No variables defined"))
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Variables"))
	varNameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, name := range names {
		value, ok := m.engine.Globals().Lookup(name)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s = %s", varNameStyle.Render(name), unreal.Render(value)))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate command history"},
		{"Tab", "Autocomplete"},
		{"Enter", "Execute statement"},
		{":help", "Toggle this help"},
		{":vars", "Toggle variables panel"},
		{":clear", "Clear history"},
		{":reset", "Reset global scope"},
		{":mode n", "Switch output mode (1, 2 or 3)"},
		{":quit", "Exit console"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runREPL(cfg unreal.Config) error {
	model, err := newREPLModel(cfg)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if rm, ok := final.(replModel); ok && rm.exitCode != 0 {
		return &exitStatus{code: rm.exitCode}
	}
	return nil
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	plain := fs.Bool("plain", false, "line-mode console without the full-screen interface")
	configPath := fs.String("config", "", "YAML settings file")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return tooManyArgs(fs.NArg())
	}
	logger := newLogger(*verbose)
	cfg, err := loadConfig(*configPath, logger)
	if err != nil {
		return err
	}
	if *plain || !stdinIsTerminal() {
		logger.Debug("starting line-mode console")
		return runPlainREPL(cfg)
	}
	return runREPL(cfg)
}

func formatMode(m unreal.Mode) string {
	return strconv.Itoa(int(m)) + " (" + m.String() + ")"
}
