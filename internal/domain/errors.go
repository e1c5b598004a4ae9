package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los adaptadores de
// infraestructura traducen a estos centinelas y los handlers HTTP los mapean
// a códigos de estado; nunca se aplanan a un string genérico.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrTransport         = errors.New("almacén o feed no disponible")
)
