// Package supplier fetches a player's candidate tracks from the external
// music/video catalog service. Fetches are best-effort: callers must tolerate
// per-player failures.
package supplier

import "context"

// Candidate is one track surfaced by a player's linked account.
type Candidate struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	ArtworkURL string `json:"artwork_url"`
	PreviewURL string `json:"preview_url"`
}

// Credential identifies a player's linked account to the catalog service.
type Credential struct {
	Provider string
	Token    string
}

// Supplier returns the candidate tracks for one linked account.
type Supplier interface {
	FetchCandidateTracks(ctx context.Context, cred Credential) ([]Candidate, error)
}
