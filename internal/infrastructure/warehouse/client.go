// Package warehouse implementa el adaptador HTTP del colaborador de consultas
// analíticas. El dialecto y el texto de las consultas viven del otro lado del
// proxy; este cliente solo envía filtros y recibe filas.
package warehouse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/access"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/repository"
	"github.com/russellmoss/dashboard-api/pkg/config"
)

var _ repository.AnalyticsSource = (*Client)(nil)

// Client implementación HTTP del puerto AnalyticsSource.
//
// Contrato con el warehouse: mismos filtros → mismas filas hasta el próximo
// refresh del snapshot. No hay semántica de resultado parcial: o llega el set
// completo o la consulta falla.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient construye el cliente con la configuración de la app.
func NewClient(cfg config.WarehouseConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// queryRequest filtros serializados para el proxy analítico.
type queryRequest struct {
	SGANames       []string  `json:"sga_names,omitempty"`
	SGMNames       []string  `json:"sgm_names,omitempty"`
	RecruiterNames []string  `json:"recruiter_names,omitempty"`
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
}

func newQueryRequest(filter access.AdvisorFilter, from, to time.Time) queryRequest {
	return queryRequest{
		SGANames:       filter.SGANames,
		SGMNames:       filter.SGMNames,
		RecruiterNames: filter.RecruiterNames,
		From:           from,
		To:             to,
	}
}

// FetchFunnelRecords filas crudas del funnel, ya filtradas por fila.
func (c *Client) FetchFunnelRecords(ctx context.Context, filter access.AdvisorFilter, from, to time.Time) ([]entity.FunnelRecord, error) {
	var out struct {
		Records []entity.FunnelRecord `json:"records"`
	}
	if err := c.post(ctx, "/query/funnel", newQueryRequest(filter, from, to), &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// FetchAdvisorRows filas por asesor para leaderboard y detalle.
func (c *Client) FetchAdvisorRows(ctx context.Context, filter access.AdvisorFilter, from, to time.Time) ([]entity.AdvisorRow, error) {
	var out struct {
		Rows []entity.AdvisorRow `json:"rows"`
	}
	if err := c.post(ctx, "/query/advisors", newQueryRequest(filter, from, to), &out); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("warehouse: serializar filtros: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(string(raw)))
	if err != nil {
		return fmt.Errorf("warehouse: construir request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamQuery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: warehouse respondió %d: %s", domain.ErrUpstreamQuery, resp.StatusCode, string(detail))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decodificar filas del warehouse: %v", domain.ErrUpstreamQuery, err)
	}
	return nil
}
