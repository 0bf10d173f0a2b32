package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jhoicas/Inventario-eventos/internal/application/ports"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
)

var _ ports.MovementSubscriber = (*Subscriber)(nil)

// Subprotocolo y tipos de mensaje de graphql-transport-ws.
const (
	wsSubprotocol = "graphql-transport-ws"

	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgSubscribe      = "subscribe"
	msgNext           = "next"
	msgError          = "error"
	msgComplete       = "complete"
	msgPing           = "ping"
	msgPong           = "pong"
)

const (
	ackTimeout   = 10 * time.Second
	writeTimeout = 5 * time.Second
)

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Subscriber abre una conexión WebSocket por suscripción de movimientos.
type Subscriber struct {
	client *Client
	dialer *websocket.Dialer
}

// NewSubscriber construye el suscriptor sobre la configuración del cliente.
func NewSubscriber(client *Client) *Subscriber {
	return &Subscriber{
		client: client,
		dialer: &websocket.Dialer{
			HandshakeTimeout: ackTimeout,
			Subprotocols:     []string{wsSubprotocol},
		},
	}
}

// SubscribeMovements abre la suscripción. El canal recibe una señal por cada movimiento
// (las ráfagas se coalescen) y se cierra al cancelar ctx o cuando el servidor termina.
// No hay reconexión automática.
func (s *Subscriber) SubscribeMovements(ctx context.Context, locationID string) (<-chan struct{}, error) {
	url, err := s.client.wsEndpoint()
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	if s.client.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+s.client.cfg.Token)
	}

	raw, _, err := s.dialer.DialContext(ctx, url, header)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: conectar %s: %v", domain.ErrTransport, url, err)
	}
	conn := &wsConn{Conn: raw}

	if err := s.handshake(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	id := uuid.NewString()
	vars := map[string]any{}
	if locationID != "" {
		vars["locationId"] = locationID
	}
	payload, _ := json.Marshal(request{OperationName: "MovementEvents", Query: movementSubscription, Variables: vars})
	if err := conn.write(wsMessage{ID: id, Type: msgSubscribe, Payload: payload}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: suscribir: %v", domain.ErrTransport, err)
	}

	out := make(chan struct{}, 1)
	log := s.client.log.With().Str("subscription", id).Str("location_id", locationID).Logger()

	var closeOnce sync.Once
	shutdown := func() { closeOnce.Do(func() { _ = conn.Close() }) }

	// Al cancelar ctx se avisa al servidor y se corta la lectura bloqueada.
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.write(wsMessage{ID: id, Type: msgComplete})
			shutdown()
		case <-stop:
		}
	}()

	go func() {
		defer close(out)
		defer close(stop)
		defer shutdown()
		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Msg("suscripción interrumpida")
				}
				return
			}
			switch msg.Type {
			case msgNext:
				select {
				case out <- struct{}{}:
				default:
				}
			case msgPing:
				_ = conn.write(wsMessage{Type: msgPong})
			case msgError:
				log.Error().RawJSON("payload", msg.Payload).Msg("error de suscripción")
				return
			case msgComplete:
				log.Debug().Msg("suscripción completada por el servidor")
				return
			}
		}
	}()
	return out, nil
}

func (s *Subscriber) handshake(conn *wsConn) error {
	var init json.RawMessage
	if s.client.cfg.Token != "" {
		init, _ = json.Marshal(map[string]string{"Authorization": "Bearer " + s.client.cfg.Token})
	}
	if err := conn.write(wsMessage{Type: msgConnectionInit, Payload: init}); err != nil {
		return fmt.Errorf("%w: connection_init: %v", domain.ErrTransport, err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(ackTimeout))
	defer conn.SetReadDeadline(time.Time{})
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("%w: esperando connection_ack: %v", domain.ErrTransport, err)
		}
		switch msg.Type {
		case msgConnectionAck:
			return nil
		case msgPing:
			_ = conn.write(wsMessage{Type: msgPong})
		default:
			return fmt.Errorf("%w: mensaje inesperado %q antes de connection_ack", domain.ErrTransport, msg.Type)
		}
	}
}

// wsConn serializa las escrituras: gorilla admite un solo escritor concurrente.
type wsConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) write(msg wsMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.WriteJSON(msg)
}
