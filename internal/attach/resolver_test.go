package attach

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grigorel/gemcord/internal/core"
	"github.com/grigorel/gemcord/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"photo.png", "image/png"},
		{"photo.PNG", "image/png"},
		{"photo.JpEg", "image/jpeg"},
		{"voice.ogg", "audio/ogg"},
		{"notes.md", "text/md"},
		{"doc.pdf", "application/pdf"},
		{"script.py", "application/x-python"},
		{"bundle.js", "application/x-javascript"},
		{"script.exe", ""},
		{"archive.zip", ""},
		{"noextension", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.filename))
		})
	}
}

func newTestResolver() *Resolver {
	r := NewResolver()
	// Single attempt keeps failure tests fast.
	r.retrier = retry.NewRetrier(&retry.Config{MaxRetries: 0})
	return r
}

func TestFetchAll_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	resolver := newTestResolver()
	parts, err := resolver.FetchAll(context.Background(), []Ref{
		{URL: srv.URL, Filename: "a.png"},
		{URL: srv.URL, Filename: "b.mp3"},
	})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "image/png", parts[0].Blob.ContentType)
	assert.Equal(t, []byte("image-bytes"), parts[0].Blob.Data)
	assert.Equal(t, "audio/mp3", parts[1].Blob.ContentType)
}

func TestFetchAll_UnsupportedDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("whatever"))
	}))
	defer srv.Close()

	resolver := newTestResolver()
	parts, err := resolver.FetchAll(context.Background(), []Ref{
		{URL: srv.URL, Filename: "virus.exe"},
		{URL: srv.URL, Filename: "archive.zip"},
	})
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestFetchAll_FailFast(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte("first"))
	}))
	defer srv.Close()

	resolver := newTestResolver()
	parts, err := resolver.FetchAll(context.Background(), []Ref{
		{URL: srv.URL, Filename: "a.png"},
		{URL: srv.URL, Filename: "b.png"},
	})
	require.Error(t, err)
	// First item's bytes are discarded, not partially returned.
	assert.Nil(t, parts)

	var f *core.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, core.FailureTransport, f.Kind)
}

func TestFetchAll_Empty(t *testing.T) {
	resolver := newTestResolver()
	parts, err := resolver.FetchAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, parts)
}
