package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shipgatedev/shipgate/pkg/semver"
)

// releaseHost is a minimal in-memory release API for tests.
type releaseHost struct {
	releases map[string]*Release
	nextID   int64
	uploads  []string
}

func newReleaseHost() *releaseHost {
	return &releaseHost{releases: map[string]*Release{}, nextID: 100}
}

func (h *releaseHost) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /releases", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		tag := body["tag_name"]
		if _, exists := h.releases[tag]; exists {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message":"Validation Failed: already_exists"}`)
			return
		}
		h.nextID++
		release := &Release{ID: h.nextID, TagName: tag, Name: tag}
		h.releases[tag] = release
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(release)
	})
	mux.HandleFunc("GET /releases/tags/{tag}", func(w http.ResponseWriter, r *http.Request) {
		release, ok := h.releases[r.PathValue("tag")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(release)
	})
	mux.HandleFunc("POST /releases/{id}/assets", func(w http.ResponseWriter, r *http.Request) {
		h.uploads = append(h.uploads, r.URL.Query().Get("name"))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"state":"uploaded"}`)
	})
	return mux
}

func stagedSet(t *testing.T, tag semver.Tag) ArtifactSet {
	t.Helper()
	dir := t.TempDir()
	binary := filepath.Join(dir, "app-linux-amd64")
	if err := os.WriteFile(binary, []byte("binary-bytes"), 0o755); err != nil {
		t.Fatal(err)
	}
	return ArtifactSet{Tag: tag, Dir: dir, BinaryPath: binary, Files: []string{binary}}
}

func TestPublish(t *testing.T) {
	tag := semver.Tag{Major: 1, Minor: 0, Patch: 4}

	t.Run("idempotent-on-retry", func(t *testing.T) {
		host := newReleaseHost()
		server := httptest.NewServer(host.handler())
		defer server.Close()

		client := NewClient(server.URL, "test-token", server.Client())
		set := stagedSet(t, tag)

		first, err := client.Publish(context.Background(), set)
		if err != nil {
			t.Fatal(err)
		}
		if first.Existing {
			t.Fatal("first publish must create the release")
		}

		second, err := client.Publish(context.Background(), set)
		if err != nil {
			t.Fatal(err)
		}
		if !second.Existing {
			t.Fatal("second publish must reuse the existing release")
		}
		if first.ReleaseID != second.ReleaseID {
			t.Fatalf("want: same release id got: %d and %d", first.ReleaseID, second.ReleaseID)
		}
		if len(host.uploads) != 2 {
			t.Fatalf("want: 2 uploads got: %d", len(host.uploads))
		}
	})

	t.Run("upload-failure-surfaces-status-and-body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/releases") {
				w.WriteHeader(http.StatusCreated)
				_ = json.NewEncoder(w).Encode(&Release{ID: 7, TagName: tag.String()})
				return
			}
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, "storage backend unavailable")
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", server.Client())
		_, err := client.Publish(context.Background(), stagedSet(t, tag))
		if !errors.Is(err, ErrAPI) {
			t.Fatalf("want: %v got: %v", ErrAPI, err)
		}
		msg := err.Error()
		if !strings.Contains(msg, "502") || !strings.Contains(msg, "storage backend unavailable") {
			t.Fatalf("diagnostic missing status or body: %s", msg)
		}
	})

	t.Run("bearer-token-sent", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(&Release{ID: 1, TagName: tag.String()})
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret-token", server.Client())
		_, _, err := client.CreateRelease(context.Background(), tag)
		if err != nil {
			t.Fatal(err)
		}
		if gotAuth != "Bearer secret-token" {
			t.Fatalf("got: %q", gotAuth)
		}
	})
}
