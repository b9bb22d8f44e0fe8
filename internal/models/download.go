package models

import (
	"fmt"
	"time"
)

// Download records a completed media download in the client's local history.
//
// Rows are bookkeeping only: the media file itself lives wherever the user
// saved it, and deleting a history row never touches the file.
type Download struct {
	id         string
	sequence   int
	songID     int
	title      string
	artistName string
	format     string
	path       string
	sizeBytes  int64
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewDownload creates a download history entry for a fetched song.
func NewDownload(song Song, path string, sizeBytes int64) *Download {
	now := time.Now()
	return &Download{
		songID:     song.ID,
		title:      song.Title,
		artistName: song.ArtistName,
		format:     song.Format,
		path:       path,
		sizeBytes:  sizeBytes,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (d *Download) ID() string            { return d.id }
func (d *Download) Sequence() int         { return d.sequence }
func (d *Download) SongID() int           { return d.songID }
func (d *Download) Title() string         { return d.title }
func (d *Download) ArtistName() string    { return d.artistName }
func (d *Download) Format() string        { return d.format }
func (d *Download) Path() string          { return d.path }
func (d *Download) SizeBytes() int64      { return d.sizeBytes }
func (d *Download) CreatedAt() time.Time  { return d.createdAt }
func (d *Download) UpdatedAt() time.Time  { return d.updatedAt }
func (d *Download) DeletedAt() *time.Time { return d.deletedAt }

func (d *Download) SetID(id string)             { d.id = id }
func (d *Download) SetSequence(sequence int)    { d.sequence = sequence }
func (d *Download) SetPath(path string)         { d.path = path }
func (d *Download) SetSizeBytes(size int64)     { d.sizeBytes = size }
func (d *Download) SetCreatedAt(t time.Time)    { d.createdAt = t }
func (d *Download) SetUpdatedAt(t time.Time)    { d.updatedAt = t }
func (d *Download) SetDeletedAt(t *time.Time)   { d.deletedAt = t }
func (d *Download) SetTitle(title string)       { d.title = title }
func (d *Download) SetArtistName(artist string) { d.artistName = artist }
func (d *Download) SetFormat(format string)     { d.format = format }
func (d *Download) SetSongID(songID int)        { d.songID = songID }

// Validate checks the entry references a real song and a destination path.
func (d *Download) Validate() error {
	if d.songID <= 0 {
		return fmt.Errorf("download requires a song id")
	}
	if d.title == "" {
		return fmt.Errorf("download requires a song title")
	}
	if d.path == "" {
		return fmt.Errorf("download requires a destination path")
	}
	return nil
}
