// package models defines the data model for the music library client
package models

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Song represents a playable media entry in the library catalog.
//
// Songs are created server-side and are read-only in this client: they are
// displayed, filtered, or referenced by ID when attached to a playlist.
type Song struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	ArtistName string `json:"artist_name"`
	AlbumName  string `json:"album_name"`
	Duration   string `json:"duration"` // seconds as a decimal string, e.g. "214.5"
	File       string `json:"file"`
	Format     string `json:"format"`
}

// Playlist represents a named, ordered collection of song references with a
// cover image. Songs may be empty or omitted depending on the endpoint.
type Playlist struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Cover string `json:"cover"`
	Songs []Song `json:"songs"`
}

// Registration holds the profile fields submitted to the register endpoint.
type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// FormatDuration converts a song's decimal-seconds duration string into a
// human-readable m:ss display value, e.g. "214.5" → "3:35".
//
// An unparseable duration renders as "0:00".
func FormatDuration(duration string) string {
	totalSeconds, err := strconv.ParseFloat(duration, 64)
	if err != nil || totalSeconds < 0 {
		return "0:00"
	}

	minutes := int(totalSeconds) / 60
	seconds := int(math.Round(math.Mod(totalSeconds, 60)))
	if seconds == 60 {
		minutes++
		seconds = 0
	}

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// DurationSeconds returns the song duration rounded to whole seconds.
func (s Song) DurationSeconds() int {
	totalSeconds, err := strconv.ParseFloat(s.Duration, 64)
	if err != nil || totalSeconds < 0 {
		return 0
	}
	return int(math.Round(totalSeconds))
}

// Model defines the base interface for all persistent models in the client's
// local bookkeeping store (download history entries and the like).
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}
