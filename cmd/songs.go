package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"muselib/internal/models"
	"muselib/internal/repositories"
	"muselib/internal/shared"
)

// SongsList lists catalog songs, optionally filtered by a title search.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")

	songs, err := r.client.ListSongs(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		return r.writePlainln("No songs found")
	}

	for _, song := range songs {
		r.writePlain("%d\t%s - %s [%s] (%s)\n",
			song.ID, song.ArtistName, song.Title, models.FormatDuration(song.Duration), song.Format)
	}
	return nil
}

// SongsDownload fetches a song's media file and records it in the local history.
func (r *Runner) SongsDownload(ctx context.Context, cmd *cli.Command) error {
	song, err := r.findSong(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	dest := cmd.String("output")
	if dest == "" {
		dir := r.config.Downloads.Dir
		if dir == "" {
			dir = "."
		}
		dest = filepath.Join(dir, downloadFilename(song))
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create downloads directory: %w", err)
		}
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	r.logger.Info("downloading song", "id", song.ID, "title", song.Title, "dest", dest)

	written, err := r.client.DownloadSong(ctx, song, out)
	if err != nil {
		os.Remove(dest)
		return err
	}

	r.recordDownload(song, dest, written)

	return r.writePlain("✓ Downloaded %s - %s to %s (%d bytes)\n", song.ArtistName, song.Title, dest, written)
}

// SongsOpen opens a song's media URL in the default browser.
func (r *Runner) SongsOpen(ctx context.Context, cmd *cli.Command) error {
	song, err := r.findSong(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	url := r.client.DownloadURL(song)
	r.logger.Info("opening media URL", "url", url)

	if err := shared.OpenBrowser(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// findSong resolves a catalog song from its string ID argument.
func (r *Runner) findSong(ctx context.Context, idArg string) (models.Song, error) {
	if idArg == "" {
		return models.Song{}, fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	id, err := strconv.Atoi(idArg)
	if err != nil {
		return models.Song{}, fmt.Errorf("%w: song id must be a number", shared.ErrInvalidArgument)
	}

	songs, err := r.client.ListSongs(ctx, "")
	if err != nil {
		return models.Song{}, err
	}

	for _, song := range songs {
		if song.ID == id {
			return song, nil
		}
	}

	return models.Song{}, fmt.Errorf("%w: id %d", shared.ErrSongNotFound, id)
}

// recordDownload writes a history row. History is bookkeeping only, so
// failures are logged and never fail the download itself.
func (r *Runner) recordDownload(song models.Song, path string, size int64) {
	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("skipping download history", "error", err)
		return
	}
	defer db.Close()

	repo := repositories.NewDownloadRepository(db)
	if err := repo.Create(models.NewDownload(song, path, size)); err != nil {
		r.logger.Warn("failed to record download", "error", err)
	}
}

func downloadFilename(song models.Song) string {
	name := fmt.Sprintf("%s - %s.%s", song.ArtistName, song.Title, song.Format)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "-")
	return name
}
