package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"muselib/internal/models"
	"muselib/internal/shared"
)

// PlaylistService covers the playlist operations the manager drives.
// Implemented by [api.Client].
type PlaylistService interface {
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)
	PlaylistSongs(ctx context.Context, playlistID int) ([]models.Song, error)
	CreatePlaylist(ctx context.Context, title, coverName string, cover io.Reader) (*models.Playlist, error)
	UpdatePlaylistTitle(ctx context.Context, playlistID int, title string) error
	DeletePlaylist(ctx context.Context, playlistID int) error
	AddSongToPlaylist(ctx context.Context, playlistID, songID int) error
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int) error
}

// Manager holds playlist state for the playlist views and routes every
// mutation through a refetch so the displayed lists always reflect the
// backend.
type Manager struct {
	svc PlaylistService

	mu        sync.Mutex
	playlists []models.Playlist
	songs     map[int][]models.Song
	editing   map[int]bool

	formTitle string
	coverName string
	cover     io.Reader
}

// NewManager creates a manager backed by the given playlist service.
func NewManager(svc PlaylistService) *Manager {
	return &Manager{
		svc:       svc,
		playlists: []models.Playlist{},
		songs:     map[int][]models.Song{},
		editing:   map[int]bool{},
	}
}

// Refresh refetches the playlist list.
func (m *Manager) Refresh(ctx context.Context) error {
	playlists, err := m.svc.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlists = playlists
	return nil
}

// RefreshSongs refetches the song list of a single playlist.
func (m *Manager) RefreshSongs(ctx context.Context, playlistID int) error {
	songs, err := m.svc.PlaylistSongs(ctx, playlistID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.songs[playlistID] = songs
	return nil
}

// Playlists returns the cached playlist list.
func (m *Manager) Playlists() []models.Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playlists
}

// Songs returns the cached song list for a playlist.
func (m *Manager) Songs(playlistID int) []models.Song {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.songs[playlistID]
}

// SetTitle records the creation form's title field.
func (m *Manager) SetTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formTitle = title
}

// SetCover records the creation form's cover image.
func (m *Manager) SetCover(name string, r io.Reader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coverName = name
	m.cover = r
}

// Create submits the creation form. Both the title and a cover image are
// required; when either is missing no request is made. On success the form is
// cleared and the playlist list refetched.
func (m *Manager) Create(ctx context.Context) (*models.Playlist, error) {
	m.mu.Lock()
	title := strings.TrimSpace(m.formTitle)
	coverName, cover := m.coverName, m.cover
	m.mu.Unlock()

	if title == "" || cover == nil {
		return nil, fmt.Errorf("%w: Title and cover image are required!", shared.ErrInvalidInput)
	}

	playlist, err := m.svc.CreatePlaylist(ctx, title, coverName, cover)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.formTitle = ""
	m.coverName = ""
	m.cover = nil
	m.mu.Unlock()

	if err := m.Refresh(ctx); err != nil {
		return playlist, err
	}
	return playlist, nil
}

// ToggleEdit flips the inline rename state for a playlist.
func (m *Manager) ToggleEdit(playlistID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editing[playlistID] = !m.editing[playlistID]
}

// Editing reports whether a playlist's title is being renamed inline.
func (m *Manager) Editing(playlistID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editing[playlistID]
}

// Rename submits a playlist title change. An empty title is rejected before
// any request is made. On success the edit state is cleared and the playlist
// list refetched.
func (m *Manager) Rename(ctx context.Context, playlistID int, title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: playlist title cannot be empty", shared.ErrInvalidInput)
	}

	if err := m.svc.UpdatePlaylistTitle(ctx, playlistID, title); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.editing, playlistID)
	m.mu.Unlock()

	return m.Refresh(ctx)
}

// Delete removes a playlist and refetches the playlist list.
func (m *Manager) Delete(ctx context.Context, playlistID int) error {
	if err := m.svc.DeletePlaylist(ctx, playlistID); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.songs, playlistID)
	delete(m.editing, playlistID)
	m.mu.Unlock()

	return m.Refresh(ctx)
}

// AddSong adds a song to a playlist and refetches that playlist's songs.
func (m *Manager) AddSong(ctx context.Context, playlistID, songID int) error {
	if err := m.svc.AddSongToPlaylist(ctx, playlistID, songID); err != nil {
		return err
	}
	return m.RefreshSongs(ctx, playlistID)
}

// RemoveSong removes a song from a playlist and refetches that playlist's
// songs.
func (m *Manager) RemoveSong(ctx context.Context, playlistID, songID int) error {
	if err := m.svc.RemoveSongFromPlaylist(ctx, playlistID, songID); err != nil {
		return err
	}
	return m.RefreshSongs(ctx, playlistID)
}
