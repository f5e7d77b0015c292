// Package tui is the terminal admin UI: a post grid driving the
// search → pick size → assign workflow over the admin API.
package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/attila-kis/thumbnail-manager/internal/models"
)

// AdminAPI is the slice of the admin client the UI drives.
type AdminAPI interface {
	FetchToken(ctx context.Context) error
	ListPosts(ctx context.Context) ([]models.ContentItem, error)
	SearchImages(ctx context.Context, query string) ([]models.ImageResult, error)
	SetThumbnail(ctx context.Context, contentItemID int64, imageURL, photographer string) (string, error)
}

// ApplicationState represents the current UI state
type ApplicationState int

const (
	StateGrid ApplicationState = iota
	StateModalQuery
	StateModalResults
	StateModalSizes
)

// sizeChoice is one selectable entry of the size picker.
type sizeChoice struct {
	Label string
	Key   string
	URL   string
}

// modalSession holds everything belonging to one open modal. A fresh
// session is created every time the modal opens, so no query text or
// results leak between content items.
type modalSession struct {
	itemID    int64
	itemTitle string

	input textinput.Model

	results      []models.ImageResult
	resultCursor int

	selected   *models.ImageResult
	sizes      []sizeChoice
	sizeCursor int

	searching bool
	assigning bool
}

// Model is the main Bubble Tea model for the admin UI
type Model struct {
	State ApplicationState

	client AdminAPI
	logger *slog.Logger

	posts   []models.ContentItem
	cursor  int
	loading bool

	modal *modalSession

	status string

	width  int
	height int
}

// NewModel creates the admin UI model.
func NewModel(client AdminAPI, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		State:   StateGrid,
		client:  client,
		logger:  logger,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetchTokenCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TokenReadyMsg:
		return m, m.loadPostsCmd()

	case PostsLoadedMsg:
		m.posts = msg.Items
		m.loading = false
		if m.cursor >= len(m.posts) {
			m.cursor = len(m.posts) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case SearchResultsMsg:
		// Responses for a closed or re-opened modal are stale; drop them.
		if m.modal == nil || m.modal.itemID != msg.ContentItemID {
			return m, nil
		}
		m.modal.searching = false
		m.modal.results = msg.Results
		m.modal.resultCursor = 0
		m.State = StateModalResults
		return m, nil

	case ThumbnailSetMsg:
		if m.modal == nil || m.modal.itemID != msg.ContentItemID {
			return m, nil
		}
		m.modal = nil
		m.State = StateGrid
		m.loading = true
		m.status = "Thumbnail set successfully"
		return m, m.loadPostsCmd()

	case ErrMsg:
		return m.handleError(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleError surfaces the failure and returns the UI to its most
// recent stable substate. A failed assignment drops back to the cached
// result list; no state is left showing a busy indicator.
func (m Model) handleError(msg ErrMsg) (tea.Model, tea.Cmd) {
	if msg.ContentItemID != 0 {
		if m.modal == nil || m.modal.itemID != msg.ContentItemID {
			return m, nil
		}
		m.modal.searching = false
		if m.modal.assigning {
			m.modal.assigning = false
			m.modal.selected = nil
			m.modal.sizes = nil
			m.State = StateModalResults
		}
	}
	m.loading = false
	m.status = "Error: " + msg.Error()
	m.logger.Error("admin UI request failed", "context", msg.Context, "err", msg.Err)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.State {
	case StateGrid:
		return m.updateGrid(msg)
	case StateModalQuery:
		return m.updateModalQuery(msg)
	case StateModalResults:
		return m.updateModalResults(msg)
	case StateModalSizes:
		return m.updateModalSizes(msg)
	}
	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		m.status = ""
		return m, m.loadPostsCmd()
	case "enter":
		if len(m.posts) == 0 {
			return m, nil
		}
		m = m.openModal(m.posts[m.cursor])
		return m, textinput.Blink
	}
	return m, nil
}

// openModal starts a fresh modal session for the item, resetting query
// input and any prior results.
func (m Model) openModal(item models.ContentItem) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter search query..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Focus()

	m.modal = &modalSession{
		itemID:    item.ID,
		itemTitle: item.Title,
		input:     ti,
	}
	m.State = StateModalQuery
	m.status = ""
	return m
}

// closeModal discards the modal session from any substate.
func (m Model) closeModal() Model {
	m.modal = nil
	m.State = StateGrid
	return m
}

func (m Model) updateModalQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeModal(), nil
	case "enter":
		query := strings.TrimSpace(m.modal.input.Value())
		if query == "" {
			m.status = "Please enter a search query"
			return m, nil
		}
		if m.modal.searching {
			return m, nil
		}
		m.modal.searching = true
		m.status = ""
		return m, m.searchCmd(m.modal.itemID, query)
	}

	var cmd tea.Cmd
	m.modal.input, cmd = m.modal.input.Update(msg)
	return m, cmd
}

func (m Model) updateModalResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeModal(), nil
	case "s", "/":
		// Back to the query input of the same session; results stay
		// cached in case the user cancels out of the size picker.
		m.modal.input.Focus()
		m.State = StateModalQuery
		return m, textinput.Blink
	case "up", "k":
		if m.modal.resultCursor > 0 {
			m.modal.resultCursor--
		}
	case "down", "j":
		if m.modal.resultCursor < len(m.modal.results)-1 {
			m.modal.resultCursor++
		}
	case "enter":
		if len(m.modal.results) == 0 {
			return m, nil
		}
		selected := m.modal.results[m.modal.resultCursor]
		m.modal.selected = &selected
		m.modal.sizes = sizeChoices(selected)
		m.modal.sizeCursor = defaultSizeIndex(m.modal.sizes)
		m.State = StateModalSizes
	}
	return m, nil
}

func (m Model) updateModalSizes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "c":
		// Cancel restores the cached result set; no repeat search.
		m.modal.selected = nil
		m.modal.sizes = nil
		m.State = StateModalResults
		return m, nil
	case "up", "k":
		if m.modal.sizeCursor > 0 {
			m.modal.sizeCursor--
		}
	case "down", "j":
		if m.modal.sizeCursor < len(m.modal.sizes)-1 {
			m.modal.sizeCursor++
		}
	case "enter":
		if m.modal.assigning || len(m.modal.sizes) == 0 {
			return m, nil
		}
		m.modal.assigning = true
		m.status = ""
		choice := m.modal.sizes[m.modal.sizeCursor]
		return m, m.setThumbnailCmd(m.modal.itemID, choice.URL, m.modal.selected.Photographer)
	}
	return m, nil
}

// sizeLabels orders the picker entries; medium is the recommended
// default.
var sizeOrder = []struct {
	key   string
	label string
}{
	{models.SizeSmall, "Small"},
	{models.SizeMedium, "Medium (Recommended)"},
	{models.SizeLarge, "Large"},
	{models.SizeLarge2x, "Large 2x"},
	{models.SizeOriginal, "Original"},
}

// sizeChoices builds picker entries from the sizes the provider
// actually offered for the result.
func sizeChoices(result models.ImageResult) []sizeChoice {
	choices := make([]sizeChoice, 0, len(sizeOrder))
	for _, s := range sizeOrder {
		u, ok := result.Sizes[s.key]
		if !ok || u == "" {
			continue
		}
		choices = append(choices, sizeChoice{Label: s.label, Key: s.key, URL: u})
	}
	return choices
}

func defaultSizeIndex(choices []sizeChoice) int {
	for i, c := range choices {
		if c.Key == models.SizeMedium {
			return i
		}
	}
	return 0
}
