// Package models defines domain entities and persistence interfaces for the
// music library client.
//
// The package contains two categories of types:
//
// 1. Catalog entities mirroring the backend's JSON representations:
//   - [Song] : read-only playable media entry with title/artist/album/duration/format metadata
//   - [Playlist] : named collection of songs with a cover image
//   - [Registration] : profile fields for account creation
//
// 2. Persistence interfaces for local bookkeeping:
//   - [Model] : base interface with ID generation, timestamps, and validation
//   - [Repository] : standard CRUD operations for database access
//
// Client-side field validation ([ValidateLogin], [Registration.Validate])
// runs before any network submission and blocks requests on violation.
package models
