package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"muselib/internal/formatter"
	"muselib/internal/models"
	"muselib/internal/shared"
)

// PlaylistsList lists all playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.client.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlainln("No playlists yet")
	}

	for _, pl := range playlists {
		r.writePlain("%d\t%s\n", pl.ID, pl.Title)
	}
	return nil
}

// PlaylistsSongs lists the songs in a playlist.
func (r *Runner) PlaylistsSongs(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"), "playlist id")
	if err != nil {
		return err
	}

	songs, err := r.client.PlaylistSongs(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		return r.writePlainln("Playlist is empty")
	}

	for _, song := range songs {
		r.writePlain("%d\t%s - %s [%s]\n",
			song.ID, song.ArtistName, song.Title, models.FormatDuration(song.Duration))
	}
	return nil
}

// PlaylistsCreate creates a playlist from a title and a cover image file.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.String("title"))
	coverPath := cmd.String("cover")

	if title == "" {
		return fmt.Errorf("%w: playlist title cannot be empty", shared.ErrInvalidInput)
	}

	cover, err := os.Open(coverPath)
	if err != nil {
		return fmt.Errorf("failed to open cover image: %w", err)
	}
	defer cover.Close()

	r.logger.Info("creating playlist", "title", title, "cover", coverPath)

	playlist, err := r.client.CreatePlaylist(ctx, title, filepath.Base(coverPath), cover)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Created playlist %d: %s\n", playlist.ID, playlist.Title)
}

// PlaylistsRename changes a playlist's title.
func (r *Runner) PlaylistsRename(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"), "playlist id")
	if err != nil {
		return err
	}

	title := cmd.String("title")
	if title == "" {
		return fmt.Errorf("%w: playlist title cannot be empty", shared.ErrInvalidInput)
	}

	if err := r.client.UpdatePlaylistTitle(ctx, id, title); err != nil {
		return err
	}

	return r.writePlain("✓ Renamed playlist %d to %s\n", id, title)
}

// PlaylistsDelete deletes a playlist.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"), "playlist id")
	if err != nil {
		return err
	}

	if err := r.client.DeletePlaylist(ctx, id); err != nil {
		return err
	}

	return r.writePlain("✓ Deleted playlist %d\n", id)
}

// PlaylistsAddSong adds a song to a playlist.
func (r *Runner) PlaylistsAddSong(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := parseID(cmd.StringArg("playlist-id"), "playlist id")
	if err != nil {
		return err
	}

	songID, err := parseID(cmd.StringArg("song-id"), "song id")
	if err != nil {
		return err
	}

	if err := r.client.AddSongToPlaylist(ctx, playlistID, songID); err != nil {
		return err
	}

	return r.writePlain("✓ Added song %d to playlist %d\n", songID, playlistID)
}

// PlaylistsRemoveSong removes a song from a playlist.
func (r *Runner) PlaylistsRemoveSong(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := parseID(cmd.StringArg("playlist-id"), "playlist id")
	if err != nil {
		return err
	}

	songID, err := parseID(cmd.StringArg("song-id"), "song id")
	if err != nil {
		return err
	}

	if err := r.client.RemoveSongFromPlaylist(ctx, playlistID, songID); err != nil {
		return err
	}

	return r.writePlain("✓ Removed song %d from playlist %d\n", songID, playlistID)
}

// PlaylistsExport writes a playlist's songs to CSV, Markdown, or plain text.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"), "playlist id")
	if err != nil {
		return err
	}

	playlist, err := r.findPlaylist(ctx, id)
	if err != nil {
		return err
	}

	songs, err := r.client.PlaylistSongs(ctx, id)
	if err != nil {
		return err
	}
	playlist.Songs = songs

	output := cmd.String("output")

	switch cmd.String("format") {
	case "csv":
		result, err := formatter.WriteCSVExport(playlist, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported songs to %s\n", result.SongsFile)
		return r.writePlain("✓ Exported metadata to %s\n", result.MetadataFile)
	case "markdown", "md":
		result, err := formatter.WriteMarkdownExport(playlist, output, "")
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported playlist to %s\n", result.Directory)
	case "text", "txt":
		path, err := formatter.WriteTextExport(playlist, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported playlist to %s\n", path)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, cmd.String("format"))
	}
}

// findPlaylist resolves a playlist by ID from the playlist listing.
func (r *Runner) findPlaylist(ctx context.Context, id int) (models.Playlist, error) {
	playlists, err := r.client.ListPlaylists(ctx)
	if err != nil {
		return models.Playlist{}, err
	}

	for _, pl := range playlists {
		if pl.ID == id {
			return pl, nil
		}
	}

	return models.Playlist{}, fmt.Errorf("%w: id %d", shared.ErrPlaylistNotFound, id)
}

func parseID(arg, name string) (int, error) {
	if arg == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}

	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", shared.ErrInvalidArgument, name)
	}

	return id, nil
}
