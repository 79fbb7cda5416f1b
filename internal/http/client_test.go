package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "fomu" {
			t.Errorf("User-Agent = %q, want fomu", ua)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	var lastWritten int64
	data, err := NewClient(time.Second).Fetch(context.Background(), srv.URL, func(written, total int64) {
		lastWritten = written
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Errorf("Fetch() = %q", data)
	}
	if lastWritten != int64(len("mp3-bytes")) {
		t.Errorf("progress reported %d bytes", lastWritten)
	}
}

func TestFetch_Classification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"gone", http.StatusGone, ErrNotFound},
		{"gateway timeout", http.StatusGatewayTimeout, ErrTimeout},
		{"server error", http.StatusInternalServerError, ErrStatus},
		{"forbidden", http.StatusForbidden, ErrStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewClient(time.Second).Fetch(context.Background(), srv.URL, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(50*time.Millisecond).Fetch(context.Background(), srv.URL, nil)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Fetch() error = %v, want ErrTimeout", err)
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(time.Second).Fetch(context.Background(), url, nil)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Fetch() error = %v, want ErrNetwork", err)
	}
}

func TestFetch_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := NewClient(5*time.Second).Fetch(ctx, srv.URL, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}
