package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageDTO mensaje de validación devuelto por el servidor ("<campo> <mensaje>").
type MessageDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
