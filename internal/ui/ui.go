// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for interactive search:
//  1. [ResultListView] : Browse search results
//  2. [DetailView] : Inspect the selected track
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cadenza"
	"github.com/desertthunder/cadenza/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ResultListView ViewState = iota
	DetailView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	query    string
	width    int
	height   int
	results  list.Model
	tracks   []cadenza.Track
	selected *cadenza.Track
	err      error
	help     help.Model
	keys     keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up    key.Binding
	down  key.Binding
	enter key.Binding
	back  key.Binding
	quit  key.Binding
}

func binding(label, action string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, action))
}

func newKeyMap() keyMap {
	return keyMap{
		up:    binding("↑/k", "up", "up", "k"),
		down:  binding("↓/j", "down", "down", "j"),
		enter: binding("enter", "select", "enter"),
		back:  binding("esc", "back", "esc"),
		quit:  binding("q", "quit", "q", "ctrl+c"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.quit},
	}
}

// trackItem wraps [cadenza.Track] to implement list.Item.
type trackItem struct {
	track cadenza.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := artistLine(i.track)
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return desc
}

func artistLine(track cadenza.Track) string {
	if len(track.Artists) == 0 {
		return "Unknown artist"
	}
	line := track.Artists[0].Name
	for _, a := range track.Artists[1:] {
		line = fmt.Sprintf("%s, %s", line, a.Name)
	}
	return line
}

// NewModel creates a new TUI model over a set of search results.
func NewModel(ctx context.Context, query string, tracks []cadenza.Track) *Model {
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track}
	}
	results := list.New(items, list.NewDefaultDelegate(), 0, 0)
	results.Title = fmt.Sprintf("Results for %q", query)

	return &Model{
		ctx:     ctx,
		view:    ResultListView,
		query:   query,
		results: results,
		tracks:  tracks,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Selected returns the track the user picked, or nil when they quit without
// choosing.
func (m *Model) Selected() *cadenza.Track {
	return m.selected
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ResultListView:
			return m.handleResultListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ResultListView:
		return m.renderResultList()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleResultListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.selected = nil
		return m, tea.Quit
	case "enter":
		selected := m.results.SelectedItem()
		if selected != nil {
			if item, ok := selected.(trackItem); ok {
				track := item.track
				m.selected = &track
				m.view = DetailView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.selected = nil
		m.view = ResultListView
		return m, nil
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) renderResultList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.results.View(), helpView)
}

func (m *Model) renderDetail() string {
	track := m.selected
	title := styles.title.Render(track.Name)
	info := fmt.Sprintf(
		"\nArtist: %s\nAlbum: %s\nDuration: %s\nPopularity: %d\nURI: %s\n",
		artistLine(*track),
		track.Album.Name,
		shared.FormatDuration(track.DurationMs),
		track.Popularity,
		track.URI,
	)

	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n%s", title, info, helpView)
}

// PickTrack runs the picker to completion and returns the chosen track, or
// nil when the user backed out.
func PickTrack(ctx context.Context, query string, tracks []cadenza.Track) (*cadenza.Track, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no tracks to pick from", shared.ErrInvalidArgument)
	}

	model := NewModel(ctx, query, tracks)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("interactive picker failed: %w", err)
	}
	if m, ok := final.(*Model); ok {
		return m.Selected(), nil
	}
	return model.Selected(), nil
}
