package ports

// Tipos de aviso para la capa de presentación.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast aviso breve para el usuario. Code es una clave estable que la capa de
// presentación traduce; Text lleva el detalle ya formateado (p. ej. "amount must be positive").
type Toast struct {
	Kind string `json:"kind"`
	Code string `json:"code"`
	Text string `json:"text,omitempty"`
}

// Notifier puerto hacia la capa de presentación para avisos (toasts).
type Notifier interface {
	Notify(t Toast)
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(Toast)

// Notify implementa Notifier.
func (f NotifierFunc) Notify(t Toast) { f(t) }
