package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Nombres de los índices únicos parciales que garantizan una sola marcación abierta por usuario y por orden.
const (
	constraintOpenPunchPerUser      = "punch_events_open_per_user"
	constraintOpenPunchPerWorkOrder = "punch_events_open_per_work_order"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// violatedConstraint devuelve el nombre del constraint/índice violado, o "" si no se conoce.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// isUUID evita mandar a una columna UUID un identificador mal formado (22P02); quien consulta
// recibe "no encontrado" en lugar de un fallo de persistencia.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
