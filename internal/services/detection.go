package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slateroom/slateroom-backend/internal/domain"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

const maxDetectionErrorBodyBytes = 1024

// DetectionSource produces the detected-element list for one script
// revision. The extraction pipeline itself (PDF/FDX text, scene and
// character detection) runs outside this service; implementations adapt
// its output. The ingest endpoint is the push-style equivalent for
// pipelines that call back over HTTP.
type DetectionSource interface {
	DetectElements(ctx context.Context, scriptID uuid.UUID) ([]domain.DetectedElement, error)
}

type httpDetectionSource struct {
	log     *logger.Logger
	baseURL string
	http    *http.Client
}

// NewHTTPDetectionSource pulls detections from the extraction pipeline's
// HTTP API at GET {baseURL}/scripts/{id}/elements.
func NewHTTPDetectionSource(log *logger.Logger, baseURL string) (DetectionSource, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("detection service url required")
	}
	return &httpDetectionSource{
		log:     log.With("service", "HTTPDetectionSource"),
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (s *httpDetectionSource) DetectElements(ctx context.Context, scriptID uuid.UUID) ([]domain.DetectedElement, error) {
	url := s.baseURL + "/scripts/" + scriptID.String() + "/elements"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build detection request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detection request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxDetectionErrorBodyBytes))
		return nil, fmt.Errorf("detection service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Elements []domain.DetectedElement `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode detection response: %w", err)
	}
	s.log.Debug("Fetched detections", "script_id", scriptID.String(), "count", len(payload.Elements))
	return payload.Elements, nil
}
