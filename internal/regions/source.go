package regions

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Naminiges/USU-Peduli/internal/domain"
)

// BoundarySource supplies the region boundary dataset, already decoded.
type BoundarySource interface {
	// Name identifies the source in logs.
	Name() string
	// Fetch retrieves and decodes the full region set.
	Fetch(ctx context.Context) ([]domain.Region, error)
}

// FileSource reads the boundary dataset from a local GeoJSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed boundary source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements BoundarySource.
func (s *FileSource) Name() string { return "file:" + s.path }

// Fetch implements BoundarySource.
func (s *FileSource) Fetch(_ context.Context) ([]domain.Region, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read boundary file: %w", err)
	}
	return DecodeRegions(data)
}

// HTTPSource fetches the boundary dataset from a remote URL.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource creates an HTTP boundary source with a request timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name implements BoundarySource.
func (s *HTTPSource) Name() string { return s.url }

// Fetch implements BoundarySource.
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Region, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create boundary request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch boundary dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("boundary source status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read boundary response: %w", err)
	}
	return DecodeRegions(data)
}
