package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrDuplicate         = errors.New("registro duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// NotFoundError el producto, orden o ítem referenciado no existe.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidStateError la operación no está permitida en el estado actual de la orden o ítem.
// Current lleva el estado vigente para que el llamador pueda explicar el conflicto.
type InvalidStateError struct {
	Entity  string
	ID      string
	Current string
	Action  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("no se puede %s %s %q en estado %s", e.Action, e.Entity, e.ID, e.Current)
}

func (e *InvalidStateError) Unwrap() error { return ErrConflict }

// InsufficientStockError se intentó consumir más stock del disponible.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

// Shortfall cantidad faltante para cubrir lo solicitado.
func (e *InsufficientStockError) Shortfall() int {
	if e.Requested <= e.Available {
		return 0
	}
	return e.Requested - e.Available
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %q: solicitado %d, disponible %d (faltan %d)",
		e.ProductID, e.Requested, e.Available, e.Shortfall())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError cantidades no positivas, costos negativos o vínculos requeridos ausentes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewNotFound atajo para construir un NotFoundError.
func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// NewValidation atajo para construir un ValidationError.
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// RequireActor valida que la operación mutante traiga un actor explícito.
// No existe usuario por defecto: sin actor, la operación se rechaza.
func RequireActor(actorID string) error {
	if actorID == "" {
		return NewValidation("actor_id", "se requiere el usuario que ejecuta la operación")
	}
	return nil
}
