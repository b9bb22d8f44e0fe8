// Package catalog implements the client-side state machines behind the song
// catalog and playlist manager views.
//
// # Song Catalog
//
// [Catalog] tracks the {loading, ready, failed} lifecycle of a searchable
// song listing. Search-as-you-type dispatches a fetch per keystroke with no
// debounce, so responses can resolve out of order; every fetch is tagged with
// a monotonically increasing sequence number and [Catalog.Apply] discards any
// resolution older than the latest issued fetch. The rendered set therefore
// always reflects the most recent search term, never a stale response.
//
// # Playlist Manager
//
// [Manager] combines the playlist creation form, per-playlist edit flags, and
// per-playlist song listings. All mutations are followed by full refetches
// (or, for song removal, a refetch of only that playlist's songs); the
// manager holds no optimistic local mutation. Field-level validation runs
// before any network call and blocks the request outright.
//
// Both types are safe for use from bubbletea command goroutines.
package catalog
