package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/turtacn/smiles-parser/pkg/types/common"
	moltypes "github.com/turtacn/smiles-parser/pkg/types/molecule"
)

// Parse parses one SMILES string.  A rejected input returns an *APIError
// whose IsParseError is true.
func (c *Client) Parse(ctx context.Context, smiles string) (*moltypes.MoleculeDTO, error) {
	var dto moltypes.MoleculeDTO
	if err := c.do(ctx, http.MethodPost, "/api/v1/smiles/parse", moltypes.ParseRequest{SMILES: smiles}, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// ParseQuery is Parse through the GET endpoint.
func (c *Client) ParseQuery(ctx context.Context, smiles string) (*moltypes.MoleculeDTO, error) {
	var dto moltypes.MoleculeDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/smiles/parse?smiles="+url.QueryEscape(smiles), nil, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// ParseBatch parses items in one request.  Per-item failures are reported in
// the results, not as an error.
func (c *Client) ParseBatch(ctx context.Context, items []string) (*moltypes.BatchParseResponse, error) {
	var resp moltypes.BatchParseResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/smiles/batch", moltypes.BatchParseRequest{Items: items}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealthResponse is the liveness or readiness body.
type HealthResponse struct {
	Status     common.HealthStatus      `json:"status"`
	Version    string                   `json:"version,omitempty"`
	Uptime     string                   `json:"uptime,omitempty"`
	Components []common.ComponentHealth `json:"components,omitempty"`
}

// Health calls the liveness probe.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ready calls the readiness probe.  A not-ready server returns an *APIError
// with status 503.
func (c *Client) Ready(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

//Personal.AI order the ending
