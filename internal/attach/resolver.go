package attach

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/grigorel/gemcord/internal/core"
	"github.com/grigorel/gemcord/pkg/log"
	"github.com/grigorel/gemcord/pkg/retry"
)

// Ref is one attachment reference as delivered by the platform.
type Ref struct {
	URL      string
	Filename string
}

var imageExts = map[string]bool{
	".png": true, ".jpeg": true, ".jpg": true, ".heic": true, ".webp": true, ".heif": true,
}

var audioExts = map[string]bool{
	".wav": true, ".mp3": true, ".aiff": true, ".aac": true, ".ogg": true, ".flac": true,
}

var textExts = map[string]bool{
	".html": true, ".css": true, ".md": true, ".csv": true, ".xml": true, ".rtf": true,
}

var applicationExts = map[string]string{
	".pdf": "application/pdf",
	".js":  "application/x-javascript",
	".py":  "application/x-python",
}

// Classify maps a file name to a content type. The allow-list is explicit;
// unknown extensions yield "" rather than an error.
func Classify(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageExts[ext]:
		return "image/" + ext[1:]
	case audioExts[ext]:
		return "audio/" + ext[1:]
	case textExts[ext]:
		return "text/" + ext[1:]
	}
	return applicationExts[ext]
}

type Resolver struct {
	client  *http.Client
	retrier *retry.Retrier
}

func NewResolver() *Resolver {
	return &Resolver{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		retrier: retry.NewDefaultRetrier(),
	}
}

// FetchAll downloads every reference in order. Any fetch failure fails the
// whole batch; references with unsupported extensions are dropped from the
// result without error, so an all-unsupported batch returns an empty slice.
func (r *Resolver) FetchAll(ctx context.Context, refs []Ref) ([]core.Part, error) {
	var parts []core.Part
	for _, ref := range refs {
		data, err := r.fetch(ctx, ref.URL)
		if err != nil {
			return nil, core.NewFailure(core.FailureTransport, err)
		}

		contentType := Classify(ref.Filename)
		if contentType == "" {
			log.FromCtx(ctx).Debug().Str("filename", ref.Filename).Msg("skipping unsupported attachment")
			continue
		}
		parts = append(parts, core.BlobPart(contentType, data))
	}
	return parts, nil
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := r.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", core.BotUserAgent)

		resp, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &statusError{code: resp.StatusCode, url: url}
		}

		data, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return "unexpected status " + http.StatusText(e.code) + " fetching " + e.url
}
