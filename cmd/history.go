package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"muselib/internal/repositories"
)

// historyEntry is the JSON shape for a download history row.
type historyEntry struct {
	ID         string    `json:"id"`
	SongID     int       `json:"song_id"`
	Title      string    `json:"title"`
	ArtistName string    `json:"artist_name"`
	Format     string    `json:"format"`
	Path       string    `json:"path"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}

// HistoryList prints the recorded downloads.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewDownloadRepository(db)

	criteria := map[string]any{}
	if format := cmd.String("format"); format != "" {
		criteria["format"] = format
	}

	downloads, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		entries := make([]historyEntry, len(downloads))
		for i, d := range downloads {
			entries[i] = historyEntry{
				ID:         d.ID(),
				SongID:     d.SongID(),
				Title:      d.Title(),
				ArtistName: d.ArtistName(),
				Format:     d.Format(),
				Path:       d.Path(),
				SizeBytes:  d.SizeBytes(),
				CreatedAt:  d.CreatedAt(),
			}
		}
		return r.writeJSON(entries, true)
	}

	if len(downloads) == 0 {
		return r.writePlainln("No downloads recorded")
	}

	for _, d := range downloads {
		r.writePlain("%s\t%s - %s (%s)\t%s\n",
			d.CreatedAt().Format(time.DateTime), d.ArtistName(), d.Title(), d.Format(), d.Path())
	}
	return nil
}
