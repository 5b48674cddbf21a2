package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/poiesic/threadoor/loader"
	"github.com/poiesic/threadoor/search"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sourceStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// answerMsg carries a finished QA call back into the update loop.
type answerMsg struct {
	answer *search.Answer
	err    error
}

// askModel is the interactive query prompt.
type askModel struct {
	ctx        context.Context
	qa         asker
	hideSource bool
	input      textinput.Model
	spinner    spinner.Model
	question   string
	busy       bool
	err        error
}

func newAskModel(ctx context.Context, qa asker, hideSource bool) askModel {
	input := textinput.New()
	input.Prompt = queryPrompt
	input.Focus()

	return askModel{
		ctx:        ctx,
		qa:         qa,
		hideSource: hideSource,
		input:      input,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m askModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m askModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			return m.submit()
		}

	case answerMsg:
		m.busy = false
		if errors.Is(msg.err, search.ErrEmptyQuery) {
			return m, tea.Println(errorStyle.Render("error: query empty!"))
		}
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		return m, tea.Println(renderAnswer(msg.answer, m.hideSource))

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m askModel) submit() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if query == exitCommand {
		return m, tea.Quit
	}
	m.question = query
	m.busy = true
	return m, tea.Batch(m.spinner.Tick, m.ask(query))
}

func (m askModel) ask(query string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.qa.Ask(m.ctx, query)
		return answerMsg{answer: answer, err: err}
	}
}

func (m askModel) View() string {
	if m.busy {
		return fmt.Sprintf("%s Thinking about %q\n", m.spinner.View(), m.question)
	}
	return m.input.View() + "\n"
}

func renderAnswer(answer *search.Answer, hideSource bool) string {
	var b strings.Builder
	b.WriteString("\n" + headingStyle.Render("> Question:") + "\n" + answer.Question + "\n")
	b.WriteString("\n" + headingStyle.Render("> Answer:") + "\n" + answer.Text + "\n")
	if !hideSource {
		for _, doc := range answer.Sources {
			label := fmt.Sprintf("> %v:", doc.Metadata[loader.MetadataSource])
			b.WriteString("\n" + headingStyle.Render(label) + "\n" + sourceStyle.Render(doc.PageContent) + "\n")
		}
	}
	return b.String()
}

func runAskUI(ctx context.Context, qa asker, hideSource bool) error {
	final, err := tea.NewProgram(newAskModel(ctx, qa, hideSource), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(askModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
