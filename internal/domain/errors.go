package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUsernameTaken     = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)

// Errores del libro de marcaciones.
var (
	ErrAlreadyClockedIn = errors.New("el usuario ya tiene una marcación abierta")
	ErrNotClockedIn     = errors.New("el usuario no tiene una marcación abierta")
	ErrUnknownWorkOrder = errors.New("orden de trabajo inexistente")
	ErrWorkOrderBusy    = errors.New("la orden de trabajo tiene una marcación abierta")
	ErrWorkOrderClosed  = errors.New("la orden de trabajo está cerrada")
	ErrPersistence      = errors.New("fallo de persistencia")
)

var domainErrors = []error{
	ErrNotFound, ErrUserNotFound, ErrUsernameTaken, ErrInvalidInput, ErrUnauthorized,
	ErrForbidden, ErrConflict, ErrInvalidTransition,
	ErrAlreadyClockedIn, ErrNotClockedIn, ErrUnknownWorkOrder, ErrWorkOrderBusy,
	ErrWorkOrderClosed, ErrPersistence,
}

// Persistence envuelve err como ErrPersistence, salvo que ya sea un error de dominio.
// errors.Is sigue funcionando contra la causa original.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	for _, de := range domainErrors {
		if errors.Is(err, de) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
