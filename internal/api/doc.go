// Package api implements the HTTP client for the music library backend.
//
// # Operations
//
// [Client] exposes one method per backend endpoint: song listing with a
// title-contains filter, playlist CRUD, song attach/detach by identifier
// pair, credential exchange, registration, and media download. List endpoints
// use a fixed first-page window of 20 items.
//
// # Authentication
//
// Authenticated calls run through an [oauth2.Transport] whose token source
// reads the session store before every request, so a token written at login
// is picked up immediately and a cleared token fails fast with
// [shared.ErrNotAuthenticated]. Login and registration use the bare client.
//
// # Error Handling
//
// Every failure surfaces as the single [Error] kind carrying the HTTP status
// and the backend's message field when present, otherwise a per-operation
// fallback text. There is no retry, no backoff, and no token refresh.
//
// # Throttling
//
// A [rate.Limiter] caps outbound request rate; search-as-you-type dispatches
// one request per keystroke and the limiter keeps that within bounds.
package api
