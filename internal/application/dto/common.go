package dto

// ErrorResponse cuerpo de error HTTP. Code distingue la clase de falla
// (VALIDATION, DUPLICATE_SKU, INSUFFICIENT_STOCK, ...) para que la UI dé un
// mensaje accionable.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
