package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"muselib/internal/catalog"
	"muselib/internal/models"
	"muselib/internal/session"
	"muselib/internal/shared"
)

type stubService struct{}

func (stubService) Login(ctx context.Context, username, password string) (string, error) {
	return "tok", nil
}

func (stubService) ListSongs(ctx context.Context, search string) ([]models.Song, error) {
	return nil, nil
}

// flakyPlaylistService fails the first create attempts and records the cover
// bytes received on each one.
type flakyPlaylistService struct {
	failures int
	covers   []string
}

func (s *flakyPlaylistService) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return nil, nil
}

func (s *flakyPlaylistService) PlaylistSongs(ctx context.Context, playlistID int) ([]models.Song, error) {
	return nil, nil
}

func (s *flakyPlaylistService) CreatePlaylist(ctx context.Context, title, coverName string, cover io.Reader) (*models.Playlist, error) {
	data, err := io.ReadAll(cover)
	if err != nil {
		return nil, err
	}
	s.covers = append(s.covers, string(data))

	if s.failures > 0 {
		s.failures--
		return nil, errors.New("backend unavailable")
	}
	return &models.Playlist{ID: 1, Title: title}, nil
}

func (s *flakyPlaylistService) UpdatePlaylistTitle(ctx context.Context, playlistID int, title string) error {
	return nil
}

func (s *flakyPlaylistService) DeletePlaylist(ctx context.Context, playlistID int) error {
	return nil
}

func (s *flakyPlaylistService) AddSongToPlaylist(ctx context.Context, playlistID, songID int) error {
	return nil
}

func (s *flakyPlaylistService) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int) error {
	return nil
}

func newTestModel(t *testing.T, svc *flakyPlaylistService) *Model {
	t.Helper()

	store, err := session.NewStore(filepath.Join(t.TempDir(), "token"))
	if err != nil {
		t.Fatalf("failed to create session store: %v", err)
	}

	cat := catalog.NewCatalog(stubService{})
	mgr := catalog.NewManager(svc)
	return NewModel(context.Background(), stubService{}, store, cat, mgr)
}

func TestCreatePlaylist(t *testing.T) {
	coverPath := filepath.Join(t.TempDir(), "cover.png")
	if err := os.WriteFile(coverPath, []byte("pngbytes"), 0644); err != nil {
		t.Fatalf("failed to write cover fixture: %v", err)
	}

	t.Run("retry after backend failure resubmits the full cover", func(t *testing.T) {
		svc := &flakyPlaylistService{failures: 1}
		m := newTestModel(t, svc)

		msg := m.createPlaylist("Road Trip", coverPath)()
		if msg.(actionMsg).err == nil {
			t.Fatal("expected first submit to fail")
		}

		msg = m.createPlaylist("Road Trip", coverPath)()
		if err := msg.(actionMsg).err; err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}

		if len(svc.covers) != 2 {
			t.Fatalf("expected 2 create attempts, got %d", len(svc.covers))
		}
		if svc.covers[1] != "pngbytes" {
			t.Errorf("expected full cover bytes on retry, got %q", svc.covers[1])
		}
	})

	t.Run("clearing the cover field drops the previous cover", func(t *testing.T) {
		svc := &flakyPlaylistService{failures: 1}
		m := newTestModel(t, svc)

		if msg := m.createPlaylist("Road Trip", coverPath)(); msg.(actionMsg).err == nil {
			t.Fatal("expected first submit to fail")
		}

		msg := m.createPlaylist("Road Trip", "")()
		if !errors.Is(msg.(actionMsg).err, shared.ErrInvalidInput) {
			t.Errorf("expected missing cover validation, got %v", msg.(actionMsg).err)
		}
		if len(svc.covers) != 1 {
			t.Errorf("expected no second request, got %d attempts", len(svc.covers))
		}
	})

	t.Run("unreadable cover path surfaces the error", func(t *testing.T) {
		svc := &flakyPlaylistService{}
		m := newTestModel(t, svc)

		msg := m.createPlaylist("Road Trip", filepath.Join(t.TempDir(), "missing.png"))()
		if msg.(actionMsg).err == nil {
			t.Error("expected error for missing cover file")
		}
		if len(svc.covers) != 0 {
			t.Errorf("expected no request, got %d attempts", len(svc.covers))
		}
	})
}
