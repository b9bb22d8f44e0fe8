package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"muselib/internal/catalog"
	"muselib/internal/models"
	"muselib/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	CatalogView
	PlaylistListView
	PlaylistSongsView
)

// Service covers the backend operations the TUI calls directly. Playlist
// mutations go through [catalog.Manager] instead.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
	ListSongs(ctx context.Context, search string) ([]models.Song, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx   context.Context
	view  ViewState
	svc   Service
	store *session.Store
	cat   *catalog.Catalog
	mgr   *catalog.Manager

	width  int
	height int

	username   textinput.Model
	password   textinput.Model
	loginField int
	loginErr   string

	search   textinput.Model
	songList list.Model
	popIndex int

	playlistList list.Model
	renameInput  textinput.Model
	renaming     int // playlist id being renamed inline; 0 = none
	creating     bool
	createTitle  textinput.Model
	createCover  textinput.Model
	createField  int
	formErr      string

	currentPlaylist models.Playlist
	playlistSongs   list.Model

	err  error
	help help.Model
	keys keyMap
}

type loginMsg struct {
	err error
}

type songsFetchedMsg struct {
	seq uint64
	err error
}

type playlistsFetchedMsg struct {
	err error
}

type playlistSongsFetchedMsg struct {
	playlistID int
	err        error
}

type actionMsg struct {
	err error
}

// NewModel creates a new TUI model with the provided dependencies.
//
// When the session store already holds a token the login view is skipped.
func NewModel(ctx context.Context, svc Service, store *session.Store, cat *catalog.Catalog, mgr *catalog.Manager) *Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	search := textinput.New()
	search.Placeholder = "type to search the catalog"

	renameInput := textinput.New()
	renameInput.Placeholder = "playlist title"

	createTitle := textinput.New()
	createTitle.Placeholder = "playlist title"

	createCover := textinput.New()
	createCover.Placeholder = "path to cover image"

	m := &Model{
		ctx:         ctx,
		view:        LoginView,
		svc:         svc,
		store:       store,
		cat:         cat,
		mgr:         mgr,
		username:    username,
		password:    password,
		search:      search,
		renameInput: renameInput,
		createTitle: createTitle,
		createCover: createCover,
		help:        help.New(),
		keys:        newKeyMap(),
	}

	if session.Authenticated(store) {
		m.view = CatalogView
		m.search.Focus()
	}

	m.songList = list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	m.songList.Title = "Catalog"
	m.songList.SetShowHelp(false)
	m.songList.SetFilteringEnabled(false)

	m.playlistList = list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	m.playlistList.Title = "Playlists"
	m.playlistList.SetShowHelp(false)

	m.playlistSongs = list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	m.playlistSongs.SetShowHelp(false)

	return m
}

// Init starts the initial fetches when a session already exists.
func (m *Model) Init() tea.Cmd {
	if m.view != CatalogView {
		return textinput.Blink
	}
	return tea.Batch(m.searchSongs(""), m.fetchPlaylists())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songList.SetSize(msg.Width-4, msg.Height-10)
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.playlistSongs.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case CatalogView:
			return m.handleCatalogKeys(msg)
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case PlaylistSongsView:
			return m.handlePlaylistSongsKeys(msg)
		}

	case loginMsg:
		if msg.err != nil {
			m.loginErr = msg.err.Error()
			return m, nil
		}
		m.loginErr = ""
		m.view = CatalogView
		m.search.Focus()
		return m, tea.Batch(m.searchSongs(""), m.fetchPlaylists())

	case songsFetchedMsg:
		m.rebuildSongList()
		return m, nil

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rebuildPlaylistList()
		return m, nil

	case playlistSongsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.playlistID == m.currentPlaylist.ID {
			m.rebuildPlaylistSongs()
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.formErr = msg.err.Error()
			return m, nil
		}
		m.formErr = ""
		m.creating = false
		m.renaming = 0
		m.createTitle.SetValue("")
		m.createCover.SetValue("")
		m.rebuildPlaylistList()
		m.rebuildPlaylistSongs()
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case CatalogView:
		return m.renderCatalog()
	case PlaylistListView:
		return m.renderPlaylistList()
	case PlaylistSongsView:
		return m.renderPlaylistSongs()
	default:
		return ""
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.loginField = 1 - m.loginField
		if m.loginField == 0 {
			m.username.Focus()
			m.password.Blur()
		} else {
			m.password.Focus()
			m.username.Blur()
		}
		return m, nil
	case "enter":
		if m.loginField == 0 {
			m.loginField = 1
			m.password.Focus()
			m.username.Blur()
			return m, nil
		}
		return m, m.submitLogin()
	}

	var cmd tea.Cmd
	if m.loginField == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if _, open := m.cat.Popover(); open {
		return m.handlePopoverKeys(msg)
	}

	if m.search.Focused() {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "enter":
			m.search.Blur()
			return m, nil
		}

		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			return m, tea.Batch(cmd, m.searchSongs(m.search.Value()))
		}
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.search.Focus()
		return m, textinput.Blink
	case "tab":
		m.view = PlaylistListView
		return m, m.fetchPlaylists()
	case "a":
		if selected, ok := m.selectedSong(); ok && len(m.mgr.Playlists()) > 0 {
			m.popIndex = 0
			m.cat.TogglePopover(selected.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handlePopoverKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	playlists := m.mgr.Playlists()

	switch msg.String() {
	case "esc", "a", "q":
		m.cat.ClosePopover()
		return m, nil
	case "up", "k":
		if m.popIndex > 0 {
			m.popIndex--
		}
		return m, nil
	case "down", "j":
		if m.popIndex < len(playlists)-1 {
			m.popIndex++
		}
		return m, nil
	case "enter":
		songID, open := m.cat.Popover()
		if !open || m.popIndex >= len(playlists) {
			return m, nil
		}
		m.cat.ClosePopover()
		return m, m.addSong(playlists[m.popIndex].ID, songID)
	}
	return m, nil
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.creating {
		return m.handleCreateFormKeys(msg)
	}
	if m.renaming != 0 {
		return m.handleRenameKeys(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "tab":
		m.view = CatalogView
		return m, nil
	case "n":
		m.creating = true
		m.createField = 0
		m.formErr = ""
		m.createTitle.Focus()
		m.createCover.Blur()
		return m, textinput.Blink
	case "r":
		if selected, ok := m.selectedPlaylist(); ok {
			m.renaming = selected.ID
			m.formErr = ""
			m.renameInput.SetValue(selected.Title)
			m.renameInput.Focus()
		}
		return m, textinput.Blink
	case "x":
		if selected, ok := m.selectedPlaylist(); ok {
			return m, m.deletePlaylist(selected.ID)
		}
		return m, nil
	case "enter":
		if selected, ok := m.selectedPlaylist(); ok {
			m.currentPlaylist = selected
			m.view = PlaylistSongsView
			m.playlistSongs.Title = selected.Title
			return m, m.fetchPlaylistSongs(selected.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleCreateFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.creating = false
		m.formErr = ""
		m.createTitle.SetValue("")
		m.createCover.SetValue("")
		return m, nil
	case "tab", "shift+tab":
		m.createField = 1 - m.createField
		if m.createField == 0 {
			m.createTitle.Focus()
			m.createCover.Blur()
		} else {
			m.createCover.Focus()
			m.createTitle.Blur()
		}
		return m, nil
	case "enter":
		if m.createField == 0 {
			m.createField = 1
			m.createCover.Focus()
			m.createTitle.Blur()
			return m, nil
		}
		return m, m.createPlaylist(m.createTitle.Value(), m.createCover.Value())
	}

	var cmd tea.Cmd
	if m.createField == 0 {
		m.createTitle, cmd = m.createTitle.Update(msg)
	} else {
		m.createCover, cmd = m.createCover.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleRenameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.renaming = 0
		m.formErr = ""
		return m, nil
	case "enter":
		return m, m.renamePlaylist(m.renaming, m.renameInput.Value())
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistSongsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	case "x":
		if selected, ok := m.selectedPlaylistSong(); ok {
			return m, m.removeSong(m.currentPlaylist.ID, selected.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistSongs, cmd = m.playlistSongs.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CatalogView:
		m.songList, cmd = m.songList.Update(msg)
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case PlaylistSongsView:
		m.playlistSongs, cmd = m.playlistSongs.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedSong() (models.Song, bool) {
	if item, ok := m.songList.SelectedItem().(songItem); ok {
		return item.song, true
	}
	return models.Song{}, false
}

func (m *Model) selectedPlaylist() (models.Playlist, bool) {
	if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
		return item.playlist, true
	}
	return models.Playlist{}, false
}

func (m *Model) selectedPlaylistSong() (models.Song, bool) {
	if item, ok := m.playlistSongs.SelectedItem().(songItem); ok {
		return item.song, true
	}
	return models.Song{}, false
}

func (m *Model) rebuildSongList() {
	songs := m.cat.Songs()
	items := make([]list.Item, len(songs))
	for i, song := range songs {
		items[i] = songItem{song: song}
	}
	m.songList.SetItems(items)
}

func (m *Model) rebuildPlaylistList() {
	playlists := m.mgr.Playlists()
	items := make([]list.Item, len(playlists))
	for i, pl := range playlists {
		items[i] = playlistItem{playlist: pl}
	}
	m.playlistList.SetItems(items)
}

func (m *Model) rebuildPlaylistSongs() {
	songs := m.mgr.Songs(m.currentPlaylist.ID)
	items := make([]list.Item, len(songs))
	for i, song := range songs {
		items[i] = songItem{song: song}
	}
	m.playlistSongs.SetItems(items)
}

func (m *Model) submitLogin() tea.Cmd {
	username := m.username.Value()
	password := m.password.Value()

	return func() tea.Msg {
		if err := models.ValidateLogin(username, password); err != nil {
			return loginMsg{err: err}
		}
		token, err := m.svc.Login(m.ctx, username, password)
		if err != nil {
			return loginMsg{err: err}
		}
		if err := m.store.Set(token); err != nil {
			return loginMsg{err: err}
		}
		return loginMsg{}
	}
}

func (m *Model) searchSongs(term string) tea.Cmd {
	seq := m.cat.Search(term)
	return func() tea.Msg {
		_, err := m.cat.Fetch(m.ctx, seq, term)
		return songsFetchedMsg{seq: seq, err: err}
	}
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		return playlistsFetchedMsg{err: m.mgr.Refresh(m.ctx)}
	}
}

func (m *Model) fetchPlaylistSongs(playlistID int) tea.Cmd {
	return func() tea.Msg {
		return playlistSongsFetchedMsg{playlistID: playlistID, err: m.mgr.RefreshSongs(m.ctx, playlistID)}
	}
}

func (m *Model) addSong(playlistID, songID int) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{err: m.mgr.AddSong(m.ctx, playlistID, songID)}
	}
}

func (m *Model) removeSong(playlistID, songID int) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{err: m.mgr.RemoveSong(m.ctx, playlistID, songID)}
	}
}

func (m *Model) createPlaylist(title, coverPath string) tea.Cmd {
	return func() tea.Msg {
		m.mgr.SetTitle(title)

		// Each submit reads the cover fresh so a failed create never leaves
		// the manager holding a spent reader.
		if coverPath == "" {
			m.mgr.SetCover("", nil)
		} else {
			data, err := os.ReadFile(coverPath)
			if err != nil {
				return actionMsg{err: err}
			}
			m.mgr.SetCover(filepath.Base(coverPath), bytes.NewReader(data))
		}

		if _, err := m.mgr.Create(m.ctx); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{}
	}
}

func (m *Model) renamePlaylist(playlistID int, title string) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{err: m.mgr.Rename(m.ctx, playlistID, title)}
	}
}

func (m *Model) deletePlaylist(playlistID int) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{err: m.mgr.Delete(m.ctx, playlistID)}
	}
}
