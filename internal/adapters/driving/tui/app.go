package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/paperpilot/paperpilot-cli/internal/adapters/driving/tui/styles"
	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
)

// viewState tracks which screen is active.
type viewState int

const (
	// statePicking shows the document list.
	statePicking viewState = iota

	// stateChatting shows the conversation with one document.
	stateChatting
)

// chatEntry is one rendered line of the conversation.
type chatEntry struct {
	role string
	text string
}

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// userID scopes document access and chat history.
	userID string

	// state tracks which screen is active.
	state viewState

	// docs is the user's document list for the picker.
	docs []domain.Document

	// cursor is the selected picker row.
	cursor int

	// doc is the document being chatted with.
	doc *domain.Document

	// input is the question input field.
	input textinput.Model

	// history is the conversation shown on screen.
	history []chatEntry

	// thinking is true while an answer is being generated.
	thinking bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat TUI for the given user.
func NewApp(ports *Ports, userID string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	input := textinput.New()
	input.Placeholder = "Ask a question about this paper..."
	input.CharLimit = 500
	input.Focus()

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: styles.DefaultStyles(),
		userID: userID,
		state:  statePicking,
		input:  input,
		width:  80,
		height: 24,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithDocument skips the picker and opens the chat on one document.
func (a *App) WithDocument(doc *domain.Document) *App {
	a.doc = doc
	a.state = stateChatting
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		tea.SetWindowTitle("paperpilot - Paper Chat"),
	}
	if a.state == statePicking {
		cmds = append(cmds, a.loadDocuments())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(20, msg.Width-6)
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case documentsLoaded:
		a.docs = msg.docs
		a.err = msg.err
		a.cursor = 0
		return a, nil

	case answerReceived:
		a.thinking = false
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.history = append(a.history, chatEntry{role: domain.RoleAssistant, text: msg.answer})
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.state == statePicking {
		return a.handlePickerKey(msg)
	}
	return a.handleChatKey(msg)
}

func (a *App) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.docs)-1 {
			a.cursor++
		}
	case "enter":
		if len(a.docs) > 0 {
			doc := a.docs[a.cursor]
			a.doc = &doc
			a.state = stateChatting
			a.history = nil
			a.err = nil
			a.input.Focus()
			return a, textinput.Blink
		}
	}
	return a, nil
}

func (a *App) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Back to the picker, or quit when the chat was opened directly.
		if len(a.docs) > 0 {
			a.state = statePicking
			a.err = nil
			return a, nil
		}
		return a, tea.Quit

	case tea.KeyEnter:
		question := strings.TrimSpace(a.input.Value())
		if question == "" || a.thinking {
			return a, nil
		}
		a.history = append(a.history, chatEntry{role: domain.RoleUser, text: question})
		a.thinking = true
		a.err = nil
		a.input.Reset()
		return a, a.ask(question)

	default:
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
}

// loadDocuments lists the user's documents for the picker.
func (a *App) loadDocuments() tea.Cmd {
	return func() tea.Msg {
		docs, err := a.ports.Library.List(a.ctx, a.userID)
		return documentsLoaded{docs: docs, err: err}
	}
}

// ask sends one question to the assistant.
func (a *App) ask(question string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.ports.Assistant.Ask(a.ctx, driving.AskRequest{
			DocumentID: a.doc.ID,
			UserID:     a.userID,
			Question:   question,
		})
		if err != nil {
			return answerReceived{err: err}
		}
		return answerReceived{answer: result.Answer}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.state == statePicking {
		return a.pickerView()
	}
	return a.chatView()
}

func (a *App) pickerView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Your papers"))
	b.WriteString("\n\n")

	switch {
	case a.err != nil:
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		b.WriteString("\n")
	case len(a.docs) == 0:
		b.WriteString(a.styles.Muted.Render("No documents yet. Ingest a paper first."))
		b.WriteString("\n")
	default:
		for i, doc := range a.docs {
			line := fmt.Sprintf("  %s", doc.Title)
			if i == a.cursor {
				line = a.styles.Selected.Render("> " + doc.Title)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("↑/k ↓/j navigate • enter select • q quit"))
	return b.String()
}

func (a *App) chatView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render(a.doc.Title))
	b.WriteString("\n\n")

	wrap := a.styles.Normal.Width(max(20, a.width-4))
	for _, entry := range a.history {
		if entry.role == domain.RoleUser {
			b.WriteString(a.styles.User.Render("You"))
		} else {
			b.WriteString(a.styles.Assistant.Render("Paperpilot"))
		}
		b.WriteString("\n")
		b.WriteString(wrap.Render(entry.text))
		b.WriteString("\n\n")
	}

	if a.thinking {
		b.WriteString(a.styles.Muted.Render("Thinking..."))
		b.WriteString("\n\n")
	}
	if a.err != nil {
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(a.styles.InputField.Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("enter ask • esc back • ctrl+c quit"))
	return b.String()
}
