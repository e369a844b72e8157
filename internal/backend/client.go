package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"maintenance_dashboard/internal/logger"
	"maintenance_dashboard/internal/models"

	"github.com/goccy/go-json"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 8 << 20 // 8 MB
)

// API is the set of backend calls the dashboard makes.
type API interface {
	Estadisticas(ctx context.Context) (models.Estadisticas, error)
	ResumenGeneral(ctx context.Context) (models.ResumenGeneral, error)
	Equipos(ctx context.Context) (models.Listing[models.Equipo], error)
	Mantenimientos(ctx context.Context) (models.Listing[models.Mantenimiento], error)
	Recursos(ctx context.Context) (models.Listing[models.Recurso], error)
	Eventos(ctx context.Context) (models.Listing[models.Evento], error)
	EquiposCriticos(ctx context.Context) (models.EquiposCriticos, error)
	ConocimientoWeb(ctx context.Context) (models.ConocimientoWeb, error)
	PrediccionesIA(ctx context.Context) (models.PrediccionesIA, error)
	Conocimiento(ctx context.Context) (models.Listing[models.Conocimiento], error)
	MetricasML(ctx context.Context) (models.MetricasML, error)
	Recomendaciones(ctx context.Context) (models.Listing[models.Recomendacion], error)

	// Post sends a command. A nil body sends an empty request.
	Post(ctx context.Context, path string, body any) (models.ActionReply, error)
}

// Client talks JSON over HTTP to the maintenance backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *logger.Logger
}

// Ensure implementation of API at compile time.
var _ API = (*Client)(nil)

// NewClient validates baseURL and builds a client. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

func (c *Client) Estadisticas(ctx context.Context) (out models.Estadisticas, err error) {
	err = c.get(ctx, PathEstadisticas, &out)
	return out, err
}

func (c *Client) ResumenGeneral(ctx context.Context) (out models.ResumenGeneral, err error) {
	err = c.get(ctx, PathResumenGeneral, &out)
	return out, err
}

func (c *Client) Equipos(ctx context.Context) (out models.Listing[models.Equipo], err error) {
	err = c.get(ctx, PathEquipos, &out)
	return out, err
}

func (c *Client) Mantenimientos(ctx context.Context) (out models.Listing[models.Mantenimiento], err error) {
	err = c.get(ctx, PathMantenimientos, &out)
	return out, err
}

func (c *Client) Recursos(ctx context.Context) (out models.Listing[models.Recurso], err error) {
	err = c.get(ctx, PathRecursos, &out)
	return out, err
}

func (c *Client) Eventos(ctx context.Context) (out models.Listing[models.Evento], err error) {
	err = c.get(ctx, PathEventos, &out)
	return out, err
}

func (c *Client) EquiposCriticos(ctx context.Context) (out models.EquiposCriticos, err error) {
	err = c.get(ctx, PathEquiposCriticos, &out)
	return out, err
}

func (c *Client) ConocimientoWeb(ctx context.Context) (out models.ConocimientoWeb, err error) {
	err = c.get(ctx, PathConocimientoWeb, &out)
	return out, err
}

func (c *Client) PrediccionesIA(ctx context.Context) (out models.PrediccionesIA, err error) {
	err = c.get(ctx, PathPrediccionesIA, &out)
	return out, err
}

func (c *Client) Conocimiento(ctx context.Context) (out models.Listing[models.Conocimiento], err error) {
	err = c.get(ctx, PathConocimiento, &out)
	return out, err
}

func (c *Client) MetricasML(ctx context.Context) (out models.MetricasML, err error) {
	err = c.get(ctx, PathMetricasML, &out)
	return out, err
}

func (c *Client) Recomendaciones(ctx context.Context) (out models.Listing[models.Recomendacion], err error) {
	err = c.get(ctx, PathRecomendaciones, &out)
	return out, err
}

// Post sends a command and decodes the reply. A failure reported inside a
// 2xx body is returned as *APIError together with the decoded reply.
func (c *Client) Post(ctx context.Context, path string, body any) (models.ActionReply, error) {
	var reply models.ActionReply
	status, err := c.do(ctx, http.MethodPost, path, body, &reply)
	if err != nil {
		return reply, err
	}
	if msg := reply.Failure(); msg != "" {
		return reply, &APIError{Status: status, Path: path, Message: msg}
	}
	return reply, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	_, err := c.do(ctx, http.MethodGet, path, nil, out)
	return err
}

// do performs one request. It never retries.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return 0, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: read %s %s: %w", ErrTransport, method, path, err)
	}
	if c.log != nil {
		c.log.Debugw("backend_call", "method", method, "path", path,
			"status", resp.StatusCode, "bytes", len(raw), "took", time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Path: path, Message: failureMessage(resp.StatusCode, raw)}
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, fmt.Errorf("%w: %s %s: empty body", ErrDecode, method, path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %s %s: %v", ErrDecode, method, path, err)
	}
	return resp.StatusCode, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// failureMessage extracts the server-provided message of a non-2xx reply.
func failureMessage(status int, raw []byte) string {
	var reply models.ActionReply
	if err := json.Unmarshal(raw, &reply); err == nil {
		if msg := reply.Failure(); msg != "" {
			return msg
		}
		if reply.Mensaje != "" {
			return string(reply.Mensaje)
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

// IsCanceled reports whether err comes from a cancelled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
