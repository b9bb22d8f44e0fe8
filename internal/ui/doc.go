// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the music library:
//  1. [LoginView] : Sign in with username and password
//  2. [CatalogView] : Live-search the song catalog and add songs to playlists
//  3. [PlaylistListView] : Browse, create, rename, and delete playlists
//  4. [PlaylistSongsView] : Inspect a playlist and remove songs
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Search results flow through the catalog state machine, which tags each fetch
// with a sequence number so a slow response for an old term never replaces the
// results of a newer one.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
