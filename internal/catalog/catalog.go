package catalog

import (
	"context"
	"sync"

	"muselib/internal/models"
)

// Phase represents the catalog view's fetch lifecycle.
type Phase int

const (
	Loading Phase = iota
	Ready
	Failed
)

// SongLister fetches songs matching a search term.
// Implemented by [api.Client].
type SongLister interface {
	ListSongs(ctx context.Context, search string) ([]models.Song, error)
}

// Catalog is the state machine behind the song catalog view.
//
// Fetches are tagged with a sequence number at dispatch; a resolution is
// applied only when no newer fetch has been issued since, so overlapping
// in-flight searches settle on the most recent term rather than the last
// response to arrive.
type Catalog struct {
	lister SongLister

	mu      sync.Mutex
	phase   Phase
	term    string
	songs   []models.Song
	errMsg  string
	issued  uint64 // sequence of the most recently dispatched fetch
	applied uint64 // sequence of the fetch whose result is displayed
	popover int    // song id with the open add-to-playlist popover; 0 = none
}

// NewCatalog creates a catalog backed by the given song lister.
func NewCatalog(lister SongLister) *Catalog {
	return &Catalog{lister: lister, songs: []models.Song{}}
}

// Search marks the catalog loading for term and returns the sequence number
// identifying this fetch. The caller performs the fetch and hands the outcome
// to [Catalog.Apply] with the same sequence.
func (c *Catalog) Search(term string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issued++
	c.term = term
	c.phase = Loading
	return c.issued
}

// Apply records the outcome of the fetch tagged seq. Outcomes issued before
// the current search are discarded, and Apply reports whether the
// result was taken.
func (c *Catalog) Apply(seq uint64, songs []models.Song, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.issued || seq <= c.applied {
		return false
	}
	c.applied = seq

	if err != nil {
		c.phase = Failed
		c.errMsg = err.Error()
		return true
	}

	if songs == nil {
		songs = []models.Song{}
	}
	c.phase = Ready
	c.songs = songs
	c.errMsg = ""
	return true
}

// Run performs the fetch for term end to end: dispatch, network call, apply.
// Used by the CLI; the TUI splits Search and Apply across a tea.Cmd instead.
func (c *Catalog) Run(ctx context.Context, term string) ([]models.Song, error) {
	seq := c.Search(term)
	songs, err := c.lister.ListSongs(ctx, term)
	c.Apply(seq, songs, err)
	return songs, err
}

// Fetch runs the network call for a previously dispatched sequence and
// applies its outcome.
func (c *Catalog) Fetch(ctx context.Context, seq uint64, term string) ([]models.Song, error) {
	songs, err := c.lister.ListSongs(ctx, term)
	c.Apply(seq, songs, err)
	return songs, err
}

// Phase returns the current fetch lifecycle state.
func (c *Catalog) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Term returns the most recently searched term.
func (c *Catalog) Term() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term
}

// Songs returns the currently displayed result set.
func (c *Catalog) Songs() []models.Song {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.songs
}

// ErrorMessage returns the displayed failure text, empty when not failed.
func (c *Catalog) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// TogglePopover opens the add-to-playlist popover for songID, closing any
// other. Toggling the song whose popover is already open closes it. At most
// one popover is open at a time.
func (c *Catalog) TogglePopover(songID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.popover == songID {
		c.popover = 0
		return
	}
	c.popover = songID
}

// ClosePopover closes any open popover.
func (c *Catalog) ClosePopover() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.popover = 0
}

// Popover returns the song id whose popover is open, if any.
func (c *Catalog) Popover() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.popover, c.popover != 0
}
