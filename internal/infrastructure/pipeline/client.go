// Package pipeline implementa el cliente del pipeline externo de refresh de
// datos. El gateway solo consume dos operaciones: disparar el run y consultar
// su estado; el resto del pipeline es opaco.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/russellmoss/dashboard-api/internal/application/refresh"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/pkg/config"
)

var _ refresh.PipelineClient = (*Client)(nil)

// Client implementación HTTP del puerto PipelineClient. Usa net/http de la
// stdlib; toda llamada queda acotada por el deadline del contexto más el
// timeout configurado, nunca cuelga un handler.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient construye el cliente con la configuración de la app.
func NewClient(cfg config.PipelineConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type startRequest struct {
	ParentID string `json:"parent_id"`
}

type startResponse struct {
	RunID string `json:"run_id"`
}

type runResponse struct {
	RunID       string     `json:"run_id"`
	State       string     `json:"state"` // pending|running|succeeded|failed
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Error       string     `json:"error"`
}

// Start dispara el run hijo del job padre configurado y devuelve su id.
func (c *Client) Start(ctx context.Context, parentID string) (string, error) {
	body, _ := json.Marshal(startRequest{ParentID: parentID})
	var out startResponse
	if err := c.do(ctx, http.MethodPost, "/runs", strings.NewReader(string(body)), &out); err != nil {
		return "", err
	}
	if out.RunID == "" {
		return "", fmt.Errorf("%w: el pipeline no devolvió run_id", domain.ErrUpstreamQuery)
	}
	return out.RunID, nil
}

// GetRun consulta el estado de un run. Lectura pura, siempre segura de reintentar.
func (c *Client) GetRun(ctx context.Context, runID string) (refresh.PipelineRun, error) {
	var out runResponse
	if err := c.do(ctx, http.MethodGet, "/runs/"+runID, nil, &out); err != nil {
		return refresh.PipelineRun{}, err
	}
	return refresh.PipelineRun{
		RunID:       out.RunID,
		State:       out.State,
		CompletedAt: out.CompletedAt,
		Error:       out.Error,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("pipeline: construir request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeout o red caída: error reintentable, envuelto en la taxonomía.
		return fmt.Errorf("%w: %v", domain.ErrUpstreamQuery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: pipeline respondió %d: %s", domain.ErrUpstreamQuery, resp.StatusCode, string(raw))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decodificar respuesta del pipeline: %v", domain.ErrUpstreamQuery, err)
	}
	return nil
}
