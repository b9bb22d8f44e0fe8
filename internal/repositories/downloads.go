package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"muselib/internal/models"
	"muselib/internal/shared"
)

// DownloadRepository implements models.Repository[*models.Download] for
// download history.
//
// Every completed media download is recorded here so the history command can
// list what was fetched, where it went, and when. Soft deletes keep removed
// rows recoverable.
type DownloadRepository struct {
	db *sql.DB
}

// NewDownloadRepository creates a new DownloadRepository with the given database connection
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Create inserts a new [models.Download] into the database with generated ID and sequence
func (r *DownloadRepository) Create(download *models.Download) error {
	sequence, err := NextSequence(r.db, "downloads")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	download.SetID(id)
	download.SetSequence(sequence)

	if err := download.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO downloads (id, sequence, song_id, title, artist_name, format, path, size_bytes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		download.SongID(),
		download.Title(),
		download.ArtistName(),
		download.Format(),
		download.Path(),
		download.SizeBytes(),
		download.CreatedAt(),
		download.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}

	return nil
}

// Get retrieves a download by ID, excluding soft-deleted rows
func (r *DownloadRepository) Get(id string) (*models.Download, error) {
	query := `
		SELECT id, sequence, song_id, title, artist_name, format, path, size_bytes, created_at, updated_at, deleted_at
		FROM downloads
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySongID retrieves the most recent download of a song
func (r *DownloadRepository) GetBySongID(songID int) (*models.Download, error) {
	query := `
		SELECT id, sequence, song_id, title, artist_name, format, path, size_bytes, created_at, updated_at, deleted_at
		FROM downloads
		WHERE song_id = ? AND deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, songID))
}

// Update modifies an existing download in the database
func (r *DownloadRepository) Update(download *models.Download) error {
	if err := download.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	download.SetUpdatedAt(now)

	query := `
		UPDATE downloads
		SET title = ?, artist_name = ?, format = ?, path = ?, size_bytes = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		download.Title(),
		download.ArtistName(),
		download.Format(),
		download.Path(),
		download.SizeBytes(),
		now,
		download.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update download: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("download not found or already deleted: %s", download.ID())
	}

	return nil
}

// Delete soft-deletes a download by ID
func (r *DownloadRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE downloads
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete download: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("download not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all downloads matching the given criteria, excluding soft-deleted rows
func (r *DownloadRepository) List(criteria map[string]any) ([]*models.Download, error) {
	query := `
		SELECT id, sequence, song_id, title, artist_name, format, path, size_bytes, created_at, updated_at, deleted_at
		FROM downloads
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if songID, ok := criteria["song_id"].(int); ok && songID > 0 {
		query += " AND song_id = ?"
		args = append(args, songID)
	}

	if format, ok := criteria["format"].(string); ok && format != "" {
		query += " AND format = ?"
		args = append(args, format)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var downloads []*models.Download
	for rows.Next() {
		download, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		downloads = append(downloads, download)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return downloads, nil
}

// scanOne scans a single [sql.Row] into a [models.Download]
func (r *DownloadRepository) scanOne(row *sql.Row) (*models.Download, error) {
	var (
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
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &songID, &title, &artistName, &format, &path, &sizeBytes, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("download not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan download: %w", err)
	}

	return r.build(id, sequence, songID, title, artistName, format, path, sizeBytes, createdAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.Download]
func (r *DownloadRepository) scanRow(rows *sql.Rows) (*models.Download, error) {
	var (
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
		deletedAt  sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &songID, &title, &artistName, &format, &path, &sizeBytes, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan download: %w", err)
	}

	return r.build(id, sequence, songID, title, artistName, format, path, sizeBytes, createdAt, updatedAt, deletedAt), nil
}

func (r *DownloadRepository) build(id string, sequence, songID int, title, artistName, format, path string, sizeBytes int64, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.Download {
	download := models.NewDownload(models.Song{
		ID:         songID,
		Title:      title,
		ArtistName: artistName,
		Format:     format,
	}, path, sizeBytes)
	download.SetID(id)
	download.SetSequence(sequence)
	download.SetCreatedAt(createdAt)
	download.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		download.SetDeletedAt(&deletedAt.Time)
	}

	return download
}
