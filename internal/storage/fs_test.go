package storage_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/pestcert-lambda/internal/storage"
)

func newStore(t *testing.T) *storage.FSStore {
	t.Helper()
	s, err := storage.NewFSStore(t.TempDir(), "/assets")
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	return s
}

func TestPutGet(t *testing.T) {
	s := newStore(t)

	key, err := s.Put("insects/1700000000000_aphid.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "png-bytes" {
		t.Errorf("Get = %q", got)
	}
	if url := s.PublicURL(key); url != "/assets/insects/1700000000000_aphid.png" {
		t.Errorf("PublicURL = %q", url)
	}
}

func TestRejectsBadKeys(t *testing.T) {
	s := newStore(t)

	tests := []struct {
		key  string
		want error
	}{
		{"", storage.ErrEmptyKey},
		{"../escape.txt", storage.ErrInvalidKey},
		{"a/../../escape.txt", storage.ErrInvalidKey},
	}
	for _, tt := range tests {
		if _, err := s.Put(tt.key, strings.NewReader("x")); !errors.Is(err, tt.want) {
			t.Errorf("Put(%q) err = %v, want %v", tt.key, err, tt.want)
		}
	}
}

func TestRoutes(t *testing.T) {
	s := newStore(t)
	if _, err := s.Put("logo.png", strings.NewReader("img")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	r := chi.NewRouter()
	r.Mount("/assets", storage.Routes(s))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/logo.png", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "img" || rec.Header().Get("Content-Type") != "image/png" {
		t.Errorf("got %d %q %q", rec.Code, rec.Body.String(), rec.Header().Get("Content-Type"))
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.png", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing asset = %d", rec.Code)
	}
}
