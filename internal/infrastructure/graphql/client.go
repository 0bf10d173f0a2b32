// Package graphql adaptador del servidor de logística: consultas y mutaciones por
// HTTP POST y la suscripción de movimientos por WebSocket (graphql-transport-ws).
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
	"github.com/jhoicas/Inventario-eventos/pkg/logger"
)

// maxResponseBytes límite de lectura del cuerpo de respuesta.
const maxResponseBytes = 8 << 20

// Config parámetros del transporte. El host sale de la sesión (QR escaneado);
// DefaultHost solo se usa mientras la sesión no tiene host.
type Config struct {
	Scheme      string // https por defecto
	DefaultHost string
	GraphQLPath string // /graphql por defecto
	WSPath      string // /graphql por defecto
	Token       string // bearer opcional
	Timeout     time.Duration
}

// HostSource sesión vigente de la que se toma el host de la API (store.Store).
type HostSource interface {
	Session() entity.Session
}

// Client cliente GraphQL mínimo sobre net/http.
type Client struct {
	cfg        Config
	hosts      HostSource
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente. hosts puede ser nil (se usa siempre DefaultHost).
func NewClient(cfg Config, hosts HostSource, log *logger.Logger) *Client {
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}
	if cfg.GraphQLPath == "" {
		cfg.GraphQLPath = "/graphql"
	}
	if cfg.WSPath == "" {
		cfg.WSPath = cfg.GraphQLPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		cfg:        cfg,
		hosts:      hosts,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.Component("graphql"),
	}
}

// ── Protocolo ─────────────────────────────────────────────────────────────────

type request struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func joinErrors(errs []gqlError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// ── Transporte ────────────────────────────────────────────────────────────────

func (c *Client) host() (string, error) {
	if c.hosts != nil {
		if h := c.hosts.Session().APIHost; h != "" {
			return h, nil
		}
	}
	if c.cfg.DefaultHost != "" {
		return c.cfg.DefaultHost, nil
	}
	return "", fmt.Errorf("%w: sesión sin host de API", domain.ErrTransport)
}

// Endpoint URL HTTP del servidor GraphQL para la sesión vigente.
func (c *Client) Endpoint() (string, error) {
	h, err := c.host()
	if err != nil {
		return "", err
	}
	return c.cfg.Scheme + "://" + h + c.cfg.GraphQLPath, nil
}

// wsEndpoint URL WebSocket equivalente (https -> wss, http -> ws).
func (c *Client) wsEndpoint() (string, error) {
	h, err := c.host()
	if err != nil {
		return "", err
	}
	scheme := "wss"
	if c.cfg.Scheme == "http" {
		scheme = "ws"
	}
	return scheme + "://" + h + c.cfg.WSPath, nil
}

// Do ejecuta una operación y decodifica data en out. Los errores GraphQL y HTTP
// se devuelven envueltos en domain.ErrTransport.
func (c *Client) Do(ctx context.Context, operation, query string, vars map[string]any, out any) error {
	url, err := c.Endpoint()
	if err != nil {
		return err
	}
	body, err := json.Marshal(request{OperationName: operation, Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("graphql: serializar request %s: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("graphql: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrTransport, operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %s: leer respuesta: %v", domain.ErrTransport, operation, err)
	}
	c.log.Debug().Str("operation", operation).Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).Msg("respuesta graphql")

	var gr response
	if err := json.Unmarshal(raw, &gr); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: %s: HTTP %d", domain.ErrTransport, operation, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s: deserializar respuesta: %v", domain.ErrTransport, operation, err)
	}
	if len(gr.Errors) > 0 {
		return fmt.Errorf("%w: %s: %s", domain.ErrTransport, operation, joinErrors(gr.Errors))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: HTTP %d", domain.ErrTransport, operation, resp.StatusCode)
	}
	if out == nil || len(gr.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("%w: %s: deserializar data: %v", domain.ErrTransport, operation, err)
	}
	return nil
}
