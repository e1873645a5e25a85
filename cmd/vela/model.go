package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	orchestration "github.com/koscakluka/vela-core/core"
	"github.com/muesli/reflow/wordwrap"
)

type statusChangedMsg struct{ status orchestration.Status }
type messageLoggedMsg struct{ message orchestration.Message }
type sessionErrorMsg struct{ message string }

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))

	statusStyles = map[orchestration.Status]lipgloss.Style{
		orchestration.StatusIdle:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		orchestration.StatusThinking:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		orchestration.StatusListening: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		orchestration.StatusSpeaking:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		orchestration.StatusError:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}

	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type model struct {
	ctx          context.Context
	orchestrator *orchestration.Orchestrator

	viewport viewport.Model
	ready    bool
	width    int

	status     orchestration.Status
	messages   []orchestration.Message
	errMessage string
}

func newModel(ctx context.Context, orchestrator *orchestration.Orchestrator) model {
	return model{
		ctx:          ctx,
		orchestrator: orchestrator,
		status:       orchestration.StatusIdle,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.orchestrator.Stop()
			return m, tea.Quit
		case " ", "enter":
			m.orchestrator.Toggle(m.ctx)
			return m, nil
		}

	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 2
		m.width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.viewport.SetContent(m.transcript())

	case statusChangedMsg:
		m.status = msg.status
		if msg.status != orchestration.StatusError {
			m.errMessage = ""
		}

	case messageLoggedMsg:
		m.messages = append(m.messages, msg.message)
		m.viewport.SetContent(m.transcript())
		m.viewport.GotoBottom()

	case sessionErrorMsg:
		m.errMessage = msg.message
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) transcript() string {
	if len(m.messages) == 0 {
		return helpStyle.Render("No conversation yet. Press space to start talking.")
	}

	var builder strings.Builder
	for _, message := range m.messages {
		label := userLabelStyle.Render("You")
		if message.Speaker == orchestration.SpeakerAssistant {
			label = assistantLabelStyle.Render("Vela")
		}
		builder.WriteString(label)
		builder.WriteString("  ")
		builder.WriteString(wordwrap.String(message.Text, max(20, m.width-8)))
		builder.WriteString("\n\n")
	}
	return builder.String()
}

func (m model) View() string {
	if !m.ready {
		return "Starting up..."
	}

	statusStyle, ok := statusStyles[m.status]
	if !ok {
		statusStyle = helpStyle
	}
	header := fmt.Sprintf("%s  %s\n", titleStyle.Render("vela"), statusStyle.Render("● "+m.status.String()))

	footer := helpStyle.Render("space: start/stop conversation • q: quit")
	if m.errMessage != "" {
		footer = errorStyle.Render(m.errMessage) + "\n" + footer
	} else {
		footer = "\n" + footer
	}

	return header + "\n" + m.viewport.View() + "\n" + footer
}
