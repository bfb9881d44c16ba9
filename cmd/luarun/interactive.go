package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxScrollback bounds the prompt history kept on screen.
const maxScrollback = 100

type replEntry struct {
	line   string
	output string
	failed bool
}

type replModel struct {
	rt      *runtime.Runtime
	input   textinput.Model
	entries []replEntry
}

func newReplModel(rt *runtime.Runtime) *replModel {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("> ")
	ti.Placeholder = `print("hello")`
	ti.Width = 78
	ti.Focus()
	return &replModel{rt: rt, input: ti}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.entries = append(m.entries, evaluate(m.rt, line))
			if len(m.entries) > maxScrollback {
				m.entries = m.entries[len(m.entries)-maxScrollback:]
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// evaluate runs a prompt line expression-first: "return <line>" makes bare
// expressions produce their values, and when that form does not compile the
// line runs unchanged as a statement.
func evaluate(rt *runtime.Runtime, line string) replEntry {
	fn, err := rt.Load("return " + line)
	if err != nil {
		fn, err = rt.Load(line)
		if err != nil {
			return replEntry{line: line, output: err.Error(), failed: true}
		}
	}

	vals, err := fn.CallValues()
	if err != nil {
		return replEntry{line: line, output: err.Error(), failed: true}
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}
	return replEntry{line: line, output: strings.Join(parts, "\t")}
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("lua-runtime"))
	b.WriteString(" ")
	b.WriteString(lua.LuaVersion)
	b.WriteString("\n\n")

	for _, e := range m.entries {
		b.WriteString(promptStyle.Render("> "))
		b.WriteString(e.line)
		b.WriteString("\n")
		if e.output != "" {
			if e.failed {
				b.WriteString(errorStyle.Render(e.output))
			} else {
				b.WriteString(resultStyle.Render(e.output))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter eval • ctrl+d quit"))

	return b.String()
}

func runInteractive(rt *runtime.Runtime) error {
	p := tea.NewProgram(newReplModel(rt), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
