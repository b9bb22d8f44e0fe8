package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"muselib/internal/models"
)

var (
	_ list.Item = songItem{}
	_ list.Item = playlistItem{}
)

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	desc := i.song.ArtistName
	if i.song.AlbumName != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.AlbumName)
	}
	return fmt.Sprintf("%s • %s", desc, models.FormatDuration(i.song.Duration))
}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }
func (i playlistItem) Title() string       { return i.playlist.Title }
func (i playlistItem) Description() string {
	if n := len(i.playlist.Songs); n > 0 {
		return fmt.Sprintf("%d songs", n)
	}
	return "press enter to load songs"
}
