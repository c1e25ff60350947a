package revision

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DefaultAPIURL is the production API root for revision and project lookups.
const DefaultAPIURL = "https://api.repo.md/v1"

type revResponse struct {
	Rev string `json:"rev"`
}

type projectResponse struct {
	ID        string `json:"id"`
	ActiveRev string `json:"activeRev"`
}

// NewHTTPResolveFunc returns a ResolveFunc that asks the API for the current
// latest revision of a project. It first hits the dedicated rev endpoint and
// falls back to the full project-details fetch when that fails.
func NewHTTPResolveFunc(apiURL, projectID string, client *http.Client, logger *zap.Logger) ResolveFunc {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	apiURL = strings.TrimSuffix(apiURL, "/")
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(ctx context.Context) (string, error) {
		rev, err := fetchRev(ctx, client, fmt.Sprintf("%s/project-id/%s/rev", apiURL, projectID))
		if err == nil {
			return rev, nil
		}

		logger.Debug("Rev endpoint failed, falling back to project details",
			zap.String("project_id", projectID),
			zap.Error(err))

		rev, detailsErr := fetchProjectRev(ctx, client, fmt.Sprintf("%s/projects/%s", apiURL, projectID))
		if detailsErr != nil {
			return "", fmt.Errorf("rev lookup failed (%v); project details fallback: %w", err, detailsErr)
		}
		return rev, nil
	}
}

func fetchRev(ctx context.Context, client *http.Client, url string) (string, error) {
	body, err := fetchJSON(ctx, client, url)
	if err != nil {
		return "", err
	}

	var parsed revResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode rev response: %w", err)
	}
	return parsed.Rev, nil
}

func fetchProjectRev(ctx context.Context, client *http.Client, url string) (string, error) {
	body, err := fetchJSON(ctx, client, url)
	if err != nil {
		return "", err
	}

	var parsed projectResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode project response: %w", err)
	}
	return parsed.ActiveRev, nil
}

func fetchJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
