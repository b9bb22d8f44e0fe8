package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"muselib/internal/models"
	"muselib/internal/session"
	"muselib/internal/shared"
	tu "muselib/internal/testing"
)

func TestNewClient(t *testing.T) {
	t.Run("empty base URL uses default", func(t *testing.T) {
		client := NewClient("", session.Static("tok"), nil)
		if client.baseURL != "http://localhost:9000" {
			t.Errorf("expected default base URL, got %s", client.baseURL)
		}
	})

	t.Run("nil http client uses default", func(t *testing.T) {
		client := NewClient("http://example.com", session.Static("tok"), nil)
		if client.httpClient != http.DefaultClient {
			t.Error("expected http.DefaultClient to be used")
		}
	})
}

func TestListSongs(t *testing.T) {
	t.Run("sends filter query and bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/song" {
				t.Errorf("expected path /song, got %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
				t.Errorf("expected bearer header, got %q", got)
			}
			q := r.URL.Query()
			if q.Get("per-page") != "20" || q.Get("page") != "1" {
				t.Errorf("expected fixed first-page window, got %v", q)
			}
			if q.Get("filter[title][like]") != "night" {
				t.Errorf("expected title filter 'night', got %q", q.Get("filter[title][like]"))
			}

			json.NewEncoder(w).Encode(map[string]any{
				"result": map[string]any{
					"items": []map[string]any{
						{"id": 1, "title": "Nightcall", "artist_name": "Kavinsky", "duration": "258.1", "format": "mp3"},
					},
				},
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static("tok123"), nil)
		songs, err := client.ListSongs(context.Background(), "night")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 1 || songs[0].Title != "Nightcall" {
			t.Errorf("unexpected songs: %+v", songs)
		}
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":{"items":[]}}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static("tok123"), nil)
		songs, err := client.ListSongs(context.Background(), "zzz")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if songs == nil || len(songs) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", songs)
		}
	})

	t.Run("missing items defaults to empty slice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":{}}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static("tok123"), nil)
		songs, err := client.ListSongs(context.Background(), "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if songs == nil {
			t.Error("expected non-nil slice")
		}
	})

	t.Run("backend message surfaces in error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"catalog offline"}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static("tok123"), nil)
		_, err := client.ListSongs(context.Background(), "a")
		if err == nil {
			t.Fatal("expected error")
		}

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if apiErr.Message != "catalog offline" {
			t.Errorf("expected backend message, got %q", apiErr.Message)
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Error("expected error to match shared.ErrAPIRequest")
		}
	})

	t.Run("no token fails before any request", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static(""), nil)
		_, err := client.ListSongs(context.Background(), "a")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if requests != 0 {
			t.Errorf("expected no request to reach the backend, got %d", requests)
		}
	})
}

func TestTransportFailures(t *testing.T) {
	t.Run("connection error maps to request error", func(t *testing.T) {
		httpClient := &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
		}
		client := NewClient("http://example.com", session.Static("tok123"), httpClient)

		_, err := client.ListSongs(context.Background(), "a")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("unreadable body surfaces decode error", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       &tu.FCloser{},
		}
		httpClient := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		client := NewClient("http://example.com", session.Static("tok123"), httpClient)

		_, err := client.ListSongs(context.Background(), "a")
		if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
			t.Errorf("expected decode error, got %v", err)
		}
	})
}

func TestListPlaylists(t *testing.T) {
	t.Run("omitted songs default to empty slice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlist" {
				t.Errorf("expected path /playlist, got %s", r.URL.Path)
			}
			fmt.Fprint(w, `{"result":{"items":[{"id":1,"title":"Drive","cover":"c.jpg"},{"id":2,"title":"Chill","cover":"d.jpg","songs":[{"id":9,"title":"Song"}]}]}}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static("tok123"), nil)
		playlists, err := client.ListPlaylists(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(playlists))
		}
		if playlists[0].Songs == nil || len(playlists[0].Songs) != 0 {
			t.Errorf("expected empty songs slice for playlist without songs, got %#v", playlists[0].Songs)
		}
		if len(playlists[1].Songs) != 1 {
			t.Errorf("expected 1 song in second playlist, got %d", len(playlists[1].Songs))
		}
	})
}

func TestPlaylistSongs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlist/7/songs" {
			t.Errorf("expected path /playlist/7/songs, got %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"result":{"items":[{"id":3,"title":"Opening","duration":"120"}]}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, session.Static("tok123"), nil)
	songs, err := client.PlaylistSongs(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(songs) != 1 || songs[0].ID != 3 {
		t.Errorf("unexpected songs: %+v", songs)
	}
}

func TestCreatePlaylist(t *testing.T) {
	t.Run("submits multipart title and cover", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("expected multipart form: %v", err)
			}
			if r.FormValue("title") != "Road Trip" {
				t.Errorf("expected title field, got %q", r.FormValue("title"))
			}
			file, header, err := r.FormFile("cover")
			if err != nil {
				t.Fatalf("expected cover file: %v", err)
			}
			defer file.Close()
			if header.Filename != "cover.png" {
				t.Errorf("expected cover filename, got %q", header.Filename)
			}

			fmt.Fprint(w, `{"result":{"id":11,"title":"Road Trip","cover":"cover.png"}}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static("tok123"), nil)
		playlist, err := client.CreatePlaylist(context.Background(), "Road Trip", "cover.png", strings.NewReader("pngbytes"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.ID != 11 || playlist.Title != "Road Trip" {
			t.Errorf("unexpected playlist: %+v", playlist)
		}
		if playlist.Songs == nil {
			t.Error("expected non-nil songs slice")
		}
	})

	t.Run("backend validation message surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message":"cover must be an image"}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static("tok123"), nil)
		_, err := client.CreatePlaylist(context.Background(), "x", "c.txt", strings.NewReader("no"))

		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Message != "cover must be an image" {
			t.Errorf("expected backend message, got %v", err)
		}
	})
}

func TestPlaylistMutations(t *testing.T) {
	type recorded struct {
		method string
		path   string
		body   map[string]any
	}

	var last recorded
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = recorded{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&last.body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, session.Static("tok123"), nil)
	ctx := context.Background()

	t.Run("UpdatePlaylistTitle", func(t *testing.T) {
		if err := client.UpdatePlaylistTitle(ctx, 5, "Renamed"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if last.method != http.MethodPut || last.path != "/playlist/5" {
			t.Errorf("unexpected request: %+v", last)
		}
		if last.body["title"] != "Renamed" {
			t.Errorf("expected title in body, got %v", last.body)
		}
	})

	t.Run("DeletePlaylist", func(t *testing.T) {
		if err := client.DeletePlaylist(ctx, 5); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if last.method != http.MethodDelete || last.path != "/playlist/5" {
			t.Errorf("unexpected request: %+v", last)
		}
	})

	t.Run("AddSongToPlaylist", func(t *testing.T) {
		if err := client.AddSongToPlaylist(ctx, 5, 42); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if last.method != http.MethodPost || last.path != "/playlist/add-song/5" {
			t.Errorf("unexpected request: %+v", last)
		}
		if last.body["song_id"] != float64(42) {
			t.Errorf("expected song_id in body, got %v", last.body)
		}
	})

	t.Run("RemoveSongFromPlaylist sends DELETE with body", func(t *testing.T) {
		if err := client.RemoveSongFromPlaylist(ctx, 5, 42); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if last.method != http.MethodDelete || last.path != "/playlist/add-song/5" {
			t.Errorf("unexpected request: %+v", last)
		}
		if last.body["song_id"] != float64(42) {
			t.Errorf("expected song_id in DELETE body, got %v", last.body)
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("returns access token without bearer header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/site/login" {
				t.Errorf("expected path /site/login, got %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("login must not send a bearer token, got %q", got)
			}

			var creds map[string]string
			json.NewDecoder(r.Body).Decode(&creds)
			if creds["username"] != "alice" || creds["password"] != "secret" {
				t.Errorf("unexpected credentials: %v", creds)
			}

			fmt.Fprint(w, `{"result":{"access_token":"tok123"}}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static(""), nil)
		token, err := client.Login(context.Background(), "alice", "secret")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "tok123" {
			t.Errorf("expected token 'tok123', got %q", token)
		}
	})

	t.Run("401 surfaces exact backend message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"bad credentials"}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static(""), nil)
		_, err := client.Login(context.Background(), "alice", "wrong")

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if apiErr.Message != "bad credentials" {
			t.Errorf("expected exact backend message, got %q", apiErr.Message)
		}
		if apiErr.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", apiErr.StatusCode)
		}
	})

	t.Run("missing message falls back to generic text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static(""), nil)
		_, err := client.Login(context.Background(), "alice", "wrong")

		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Message != "invalid credentials" {
			t.Errorf("expected generic fallback, got %v", err)
		}
	})

	t.Run("empty token in response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":{}}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static(""), nil)
		if _, err := client.Login(context.Background(), "alice", "secret"); err == nil {
			t.Error("expected error for missing access token")
		}
	})
}

func TestRegister(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/site/register" {
			t.Errorf("expected path /site/register, got %s", r.URL.Path)
		}

		var profile map[string]string
		json.NewDecoder(r.Body).Decode(&profile)
		if profile["first_name"] != "Alice" || profile["username"] != "alice" {
			t.Errorf("unexpected profile fields: %v", profile)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, session.Static(""), nil)
	err := client.Register(context.Background(), models.Registration{
		FirstName: "Alice",
		LastName:  "Smith",
		Username:  "alice",
		Password:  "secret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestDownload(t *testing.T) {
	song := models.Song{ID: 9, Title: "Opening", Format: "flac"}

	t.Run("DownloadURL builds direct link", func(t *testing.T) {
		client := NewClient("http://music.example.com", session.Static("tok"), nil)
		want := "http://music.example.com/song/download/9.flac"
		if got := client.DownloadURL(song); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("DownloadSong streams media bytes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/song/download/9.flac" {
				t.Errorf("expected download path, got %s", r.URL.Path)
			}
			w.Write([]byte("flacbytes"))
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static("tok123"), nil)
		var buf bytes.Buffer
		written, err := client.DownloadSong(context.Background(), song, &buf)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != int64(len("flacbytes")) || buf.String() != "flacbytes" {
			t.Errorf("unexpected download: %d bytes, %q", written, buf.String())
		}
	})

	t.Run("DownloadSong surfaces missing file", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"song not found"}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, session.Static("tok123"), nil)
		var buf bytes.Buffer
		_, err := client.DownloadSong(context.Background(), song, &buf)

		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Message != "song not found" {
			t.Errorf("expected backend message, got %v", err)
		}
	})
}
