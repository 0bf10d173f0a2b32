// Package notify difunde notificaciones de cambio a múltiples consumidores.
package notify

import "sync"

// Hub difusor en memoria. Publish nunca bloquea: si el buffer de un suscriptor
// está lleno la notificación se descarta para ese suscriptor.
type Hub[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]chan T
}

// NewHub construye un difusor vacío.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[int]chan T)}
}

// Subscribe registra un consumidor. La función devuelta lo da de baja y cierra el canal.
func (h *Hub[T]) Subscribe(buffer int) (<-chan T, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan T, buffer)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish entrega v a cada suscriptor sin bloquear.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// Len cantidad de suscriptores activos.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
