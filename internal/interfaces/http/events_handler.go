package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/application/ports"
	"github.com/jhoicas/Inventario-eventos/internal/application/stocksync"
	"github.com/jhoicas/Inventario-eventos/internal/application/store"
	"github.com/jhoicas/Inventario-eventos/pkg/logger"
)

// ToastSource difusor de avisos para la presentación (notify.Hub[ports.Toast]).
type ToastSource interface {
	Subscribe(buffer int) (<-chan ports.Toast, func())
}

const (
	streamBuffer    = 64
	streamKeepAlive = 15 * time.Second
)

// EventsHandler canal SSE con cambios del store, banderas de carga y avisos.
type EventsHandler struct {
	ctx    context.Context
	store  *store.Store
	sync   *stocksync.Controller
	toasts ToastSource
	log    *logger.Logger
}

// NewEventsHandler construye el handler. ctx cierra todos los streams al apagar.
func NewEventsHandler(ctx context.Context, st *store.Store, ctl *stocksync.Controller, toasts ToastSource, log *logger.Logger) *EventsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &EventsHandler{ctx: ctx, store: st, sync: ctl, toasts: toasts, log: log.Component("sse")}
}

// Stream godoc
// @Summary      Eventos en vivo (SSE)
// @Description  Tipos: store (acción aplicada), loading (bandera de carga), toast (aviso).
// @Tags         sync
// @Security     Bearer
// @Produce      text/event-stream
// @Param        token  query  string  false  "token de sesión (EventSource no envía cabeceras)"
// @Success      200
// @Router       /api/events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	changes, stopChanges := h.store.Subscribe(streamBuffer)
	loading, stopLoading := h.sync.SubscribeLoading(streamBuffer)
	var (
		toasts     <-chan ports.Toast
		stopToasts = func() {}
	)
	if h.toasts != nil {
		toasts, stopToasts = h.toasts.Subscribe(streamBuffer)
	}

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer stopChanges()
		defer stopLoading()
		defer stopToasts()
		h.log.Debug().Msg("stream abierto")

		keepAlive := time.NewTicker(streamKeepAlive)
		defer keepAlive.Stop()

		for {
			var ev dto.StreamEvent
			select {
			case <-h.ctx.Done():
				return
			case <-keepAlive.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					h.log.Debug().Msg("stream cerrado por el cliente")
					return
				}
				continue
			case ch, ok := <-changes:
				if !ok {
					return
				}
				ev = dto.StreamEvent{Type: "store", Data: dto.StoreChangeDTO{Version: ch.Version, Action: string(ch.Kind), LocationID: ch.LocationID}}
			case lc, ok := <-loading:
				if !ok {
					return
				}
				ev = dto.StreamEvent{Type: "loading", Data: dto.LoadingChangeDTO{Kind: string(lc.Key.Kind), ID: lc.Key.ID, Loading: lc.Loading}}
			case t, ok := <-toasts:
				if !ok {
					return
				}
				ev = dto.StreamEvent{Type: "toast", Data: t}
			}
			if err := writeEvent(w, ev); err != nil {
				h.log.Debug().Err(err).Msg("stream cerrado")
				return
			}
		}
	}))
	return nil
}

// writeEvent escribe un evento SSE ("event: <tipo>\ndata: <json>\n\n") y hace flush.
func writeEvent(w *bufio.Writer, ev dto.StreamEvent) error {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload); err != nil {
		return err
	}
	return w.Flush()
}
