package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasSQLState(err, "23505")
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503),
// por ejemplo al borrar un producto que ya aparece en facturas.
func isForeignKeyViolation(err error) bool {
	return hasSQLState(err, "23503")
}

// isInvalidText verifica si Postgres rechazó un literal mal formado (22P02), por ejemplo un id que no es UUID.
func isInvalidText(err error) bool {
	return hasSQLState(err, "22P02")
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
