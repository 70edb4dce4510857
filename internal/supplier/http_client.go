package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPClient talks to the catalog aggregator's REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewHTTPClient creates a client for the given aggregator endpoint.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type historyResponse struct {
	Items []struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Artist string `json:"artist"`
		Art    struct {
			Medium string `json:"medium"`
		} `json:"art"`
		PreviewURL string `json:"preview_url"`
	} `json:"items"`
}

// FetchCandidateTracks pulls the account's recent listening history.
func (c *HTTPClient) FetchCandidateTracks(ctx context.Context, cred Credential) ([]Candidate, error) {
	val := url.Values{}
	val.Set("key", c.apiKey)
	val.Set("limit", "50")

	endpoint := fmt.Sprintf("%s/v1/%s/history?%s", c.baseURL, url.PathEscape(cred.Provider), val.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog status %d", resp.StatusCode)
	}

	var body historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(body.Items))
	for _, item := range body.Items {
		if item.ID == "" {
			continue
		}
		out = append(out, Candidate{
			ExternalID: item.ID,
			Name:       item.Title,
			Artist:     item.Artist,
			ArtworkURL: item.Art.Medium,
			PreviewURL: item.PreviewURL,
		})
	}
	return out, nil
}
