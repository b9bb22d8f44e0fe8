// REST client for the music library backend.
//
// Response envelope convention: {result: {items: [...]}} for lists and
// {result: {...}} for single entities.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"muselib/internal/models"
	"muselib/internal/session"
	"muselib/internal/shared"
)

const (
	defaultBaseURL = "http://localhost:9000"

	// Fixed first-page window for all list endpoints.
	pageSize = 20
	pageNum  = 1
)

// Error is the single error kind surfaced by client operations: the request
// failed, with an optional backend-supplied message.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%v (status %d): %s", shared.ErrAPIRequest, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%v: %s", shared.ErrAPIRequest, e.Message)
}

// Unwrap allows errors.Is(err, shared.ErrAPIRequest).
func (e *Error) Unwrap() error {
	return shared.ErrAPIRequest
}

// tokenSource adapts [session.Source] to [oauth2.TokenSource] so the bearer
// token is read from session storage before every authenticated request.
type tokenSource struct {
	src session.Source
}

func (t tokenSource) Token() (*oauth2.Token, error) {
	token, ok := t.src.Token()
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: token}, nil
}

// Client wraps outbound HTTP calls to the music library backend, attaching a
// bearer token and shaping responses into plain domain objects.
//
// No retry, no backoff, no token refresh: any timeout comes from the injected
// [http.Client].
type Client struct {
	baseURL    string
	httpClient *http.Client // unauthenticated calls: login, register
	authClient *http.Client // bearer-injecting transport over httpClient
	limiter    *rate.Limiter
}

// NewClient creates a client for the backend at baseURL. The tokens source
// supplies the bearer credential per request; httpClient may be nil to use
// [http.DefaultClient].
func NewClient(baseURL string, tokens session.Source, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	authClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: tokenSource{src: tokens},
			Base:   httpClient.Transport,
		},
		Timeout: httpClient.Timeout,
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		authClient: authClient,
		// Search-as-you-type fires a request per keystroke; cap the flood.
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// SetRate adjusts the outbound request throttle.
func (c *Client) SetRate(perSecond int) {
	if perSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond*2)
	}
}

// do performs a request against the backend and decodes the response envelope
// into result. A non-2xx status surfaces the backend's message field when
// present, otherwise the fallback text.
func (c *Client) do(ctx context.Context, client *http.Client, method, endpoint string, body, result any, fallback string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("request cancelled: %w", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return shared.ErrNotAuthenticated
		}
		return &Error{Message: fallback + ": " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp, fallback)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// responseError extracts the backend's message from an error response body.
func responseError(resp *http.Response, fallback string) *Error {
	var payload struct {
		Message string `json:"message"`
	}
	message := fallback
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		message = payload.Message
	}
	return &Error{StatusCode: resp.StatusCode, Message: message}
}

// ListSongs retrieves the first page of songs whose titles contain the search
// term, case-insensitively. An empty result is not an error.
func (c *Client) ListSongs(ctx context.Context, search string) ([]models.Song, error) {
	params := url.Values{}
	params.Set("per-page", fmt.Sprint(pageSize))
	params.Set("page", fmt.Sprint(pageNum))
	params.Set("filter[title][like]", search)

	var envelope struct {
		Result struct {
			Items []models.Song `json:"items"`
		} `json:"result"`
	}

	endpoint := "/song?" + params.Encode()
	if err := c.do(ctx, c.authClient, http.MethodGet, endpoint, nil, &envelope, "failed to load songs"); err != nil {
		return nil, err
	}

	if envelope.Result.Items == nil {
		return []models.Song{}, nil
	}
	return envelope.Result.Items, nil
}

// ListPlaylists retrieves the first page of playlists. A playlist whose song
// collection the backend omits gets an empty slice.
func (c *Client) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	params := url.Values{}
	params.Set("per-page", fmt.Sprint(pageSize))
	params.Set("page", fmt.Sprint(pageNum))

	var envelope struct {
		Result struct {
			Items []models.Playlist `json:"items"`
		} `json:"result"`
	}

	endpoint := "/playlist?" + params.Encode()
	if err := c.do(ctx, c.authClient, http.MethodGet, endpoint, nil, &envelope, "failed to load playlists"); err != nil {
		return nil, err
	}

	playlists := envelope.Result.Items
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	for i := range playlists {
		if playlists[i].Songs == nil {
			playlists[i].Songs = []models.Song{}
		}
	}

	return playlists, nil
}

// PlaylistSongs retrieves the songs belonging to a playlist.
func (c *Client) PlaylistSongs(ctx context.Context, playlistID int) ([]models.Song, error) {
	var envelope struct {
		Result struct {
			Items []models.Song `json:"items"`
		} `json:"result"`
	}

	endpoint := fmt.Sprintf("/playlist/%d/songs", playlistID)
	if err := c.do(ctx, c.authClient, http.MethodGet, endpoint, nil, &envelope, "failed to load songs for this playlist"); err != nil {
		return nil, err
	}

	if envelope.Result.Items == nil {
		return []models.Song{}, nil
	}
	return envelope.Result.Items, nil
}

// CreatePlaylist submits a multipart payload with the playlist title and cover
// image, returning the created playlist. Presence of title and cover is the
// caller's responsibility, checked before invocation.
func (c *Client) CreatePlaylist(ctx context.Context, title, coverFilename string, cover io.Reader) (*models.Playlist, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("request cancelled: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("title", title); err != nil {
		return nil, fmt.Errorf("failed to write title field: %w", err)
	}

	part, err := writer.CreateFormFile("cover", coverFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to create cover part: %w", err)
	}
	if _, err := io.Copy(part, cover); err != nil {
		return nil, fmt.Errorf("failed to read cover image: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/playlist", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.authClient.Do(req)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return nil, shared.ErrNotAuthenticated
		}
		return nil, &Error{Message: "failed to create playlist: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp, "failed to create playlist")
	}

	var envelope struct {
		Result models.Playlist `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if envelope.Result.Songs == nil {
		envelope.Result.Songs = []models.Song{}
	}

	return &envelope.Result, nil
}

// UpdatePlaylistTitle renames a playlist. Non-empty title is caller-checked.
func (c *Client) UpdatePlaylistTitle(ctx context.Context, playlistID int, title string) error {
	endpoint := fmt.Sprintf("/playlist/%d", playlistID)
	body := map[string]string{"title": title}
	return c.do(ctx, c.authClient, http.MethodPut, endpoint, body, nil, "failed to update playlist title")
}

// DeletePlaylist deletes a playlist wholesale.
func (c *Client) DeletePlaylist(ctx context.Context, playlistID int) error {
	endpoint := fmt.Sprintf("/playlist/%d", playlistID)
	return c.do(ctx, c.authClient, http.MethodDelete, endpoint, nil, nil, "failed to delete playlist")
}

// AddSongToPlaylist attaches a song to a playlist by identifier pair.
func (c *Client) AddSongToPlaylist(ctx context.Context, playlistID, songID int) error {
	endpoint := fmt.Sprintf("/playlist/add-song/%d", playlistID)
	body := map[string]int{"song_id": songID}
	return c.do(ctx, c.authClient, http.MethodPost, endpoint, body, nil, "failed to add song to playlist")
}

// RemoveSongFromPlaylist detaches a song from a playlist. The backend takes
// the song identifier in the DELETE request body.
func (c *Client) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int) error {
	endpoint := fmt.Sprintf("/playlist/add-song/%d", playlistID)
	body := map[string]int{"song_id": songID}
	return c.do(ctx, c.authClient, http.MethodDelete, endpoint, body, nil, "failed to delete song")
}

// Login exchanges credentials for an access token. The caller persists the
// token; this operation never writes session state itself.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}

	var envelope struct {
		Result struct {
			AccessToken string `json:"access_token"`
		} `json:"result"`
	}

	if err := c.do(ctx, c.httpClient, http.MethodPost, "/site/login", body, &envelope, "invalid credentials"); err != nil {
		return "", err
	}

	if envelope.Result.AccessToken == "" {
		return "", &Error{Message: "login response contained no access token"}
	}

	return envelope.Result.AccessToken, nil
}

// Register submits profile fields for account creation. Does not log in.
func (c *Client) Register(ctx context.Context, profile models.Registration) error {
	return c.do(ctx, c.httpClient, http.MethodPost, "/site/register", profile, nil, "registration failed")
}

// DownloadURL builds the direct download link for a song from its identifier
// and encoding format.
func (c *Client) DownloadURL(song models.Song) string {
	return fmt.Sprintf("%s/song/download/%d.%s", c.baseURL, song.ID, song.Format)
}

// DownloadSong streams a song's media file into w, returning the number of
// bytes written.
func (c *Client) DownloadSong(ctx context.Context, song models.Song, w io.Writer) (int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("request cancelled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(song), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.authClient.Do(req)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return 0, shared.ErrNotAuthenticated
		}
		return 0, &Error{Message: "failed to download song: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, responseError(resp, "failed to download song")
	}

	written, err := io.Copy(w, resp.Body)
	if err != nil {
		return written, fmt.Errorf("failed to write media file: %w", err)
	}

	return written, nil
}
