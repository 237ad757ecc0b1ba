package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"framefix/internal/config"
)

const userAgent = "framefix/0.1.0"

// ErrDisabled is returned by the noop uploader.
var ErrDisabled = errors.New("upload disabled")

// Uploader sends a local file to the asset service and returns its identifier.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// HTTPDoer is the subset of *http.Client used for uploads.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewUploader builds an uploader from configuration. When uploads are
// disabled a noop implementation is returned.
func NewUploader(cfg *config.Config) Uploader {
	if cfg == nil || !cfg.Upload.Enabled || strings.TrimSpace(cfg.Upload.URL) == "" {
		return noopUploader{}
	}
	timeout := cfg.UploadTimeout()
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return NewHTTPUploader(cfg.Upload, &http.Client{Timeout: timeout})
}

// NewHTTPUploader builds an uploader posting to settings.URL through client.
func NewHTTPUploader(settings config.Upload, client HTTPDoer) *HTTPUploader {
	field := strings.TrimSpace(settings.FieldName)
	if field == "" {
		field = "file"
	}
	return &HTTPUploader{
		endpoint:  strings.TrimSpace(settings.URL),
		token:     strings.TrimSpace(settings.Token),
		projectID: strings.TrimSpace(settings.ProjectID),
		field:     field,
		client:    client,
	}
}

// HTTPUploader posts files as multipart/form-data.
type HTTPUploader struct {
	endpoint  string
	token     string
	projectID string
	field     string
	client    HTTPDoer
}

type uploadResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Upload posts the file at path and returns the asset identifier, falling
// back to the asset URL when the service omits an id.
func (u *HTTPUploader) Upload(ctx context.Context, path string) (string, error) {
	if u == nil || u.client == nil {
		return "", ErrDisabled
	}
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()

	body, contentType := u.encode(file, filepath.Base(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		_ = body.CloseWithError(err)
		return "", fmt.Errorf("build upload request: %w", err)
	}
	// Unblocks the encoder when the client returns without draining the body.
	defer body.Close()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if u.token != "" {
		req.Header.Set("Authorization", "Bearer "+u.token)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("upload returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if id := strings.TrimSpace(decoded.ID); id != "" {
		return id, nil
	}
	if url := strings.TrimSpace(decoded.URL); url != "" {
		return url, nil
	}
	return "", errors.New("upload response missing asset id")
}

// encode streams the multipart body through a pipe so large clips are not
// buffered in memory. The encoder goroutine exits once the returned reader is
// drained or closed.
func (u *HTTPUploader) encode(file io.Reader, name string) (*io.PipeReader, string) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		err := func() error {
			if u.projectID != "" {
				if err := writer.WriteField("project_id", u.projectID); err != nil {
					return err
				}
			}
			part, err := writer.CreateFormFile(u.field, name)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, file); err != nil {
				return err
			}
			return writer.Close()
		}()
		_ = pw.CloseWithError(err)
	}()
	return pr, writer.FormDataContentType()
}

type noopUploader struct{}

func (noopUploader) Upload(context.Context, string) (string, error) { return "", ErrDisabled }
