package attendance

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoCaller means a create was attempted without an authenticated identity.
var ErrNoCaller = errors.New("caller identity required")

// Validation failure kinds.
const (
	MissingField = "missing_field"
	TypeMismatch = "type_mismatch"
	InvalidValue = "invalid_value"
)

// ValidationError reports a payload that cannot become a typed record.
type ValidationError struct {
	Field string
	Kind  string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("missing required field: %s", e.Field)
	case TypeMismatch:
		return fmt.Sprintf("field %s has the wrong type", e.Field)
	default:
		return fmt.Sprintf("field %s is invalid", e.Field)
	}
}

// ReferenceError reports a foreign key pointing at a row that does not exist.
type ReferenceError struct {
	Field string
	ID    int64
}

func (e *ReferenceError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s references an unknown record", e.Field)
	}
	return fmt.Sprintf("%s %d does not exist", e.Field, e.ID)
}

// FromBindError converts a JSON decode or validation failure into a
// *ValidationError. Other errors are returned unchanged.
func FromBindError(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		kind := InvalidValue
		if fe.Tag() == "required" {
			kind = MissingField
		}
		return &ValidationError{Field: fe.Field(), Kind: kind}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{Field: typeErr.Field, Kind: TypeMismatch}
	}
	return err
}

// fkColumns maps constraint names generated by the schema to payload fields.
var fkColumns = map[string]string{
	"students_department_id_fkey":     "department_id",
	"courses_department_id_fkey":      "department_id",
	"attendance_logs_student_id_fkey": "student_id",
	"attendance_logs_course_id_fkey":  "course_id",
}

// fromStoreError turns a foreign key violation into a *ReferenceError.
func fromStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		field := fkColumns[pgErr.ConstraintName]
		if field == "" {
			field = strings.TrimSuffix(pgErr.ConstraintName, "_fkey")
		}
		return &ReferenceError{Field: field}
	}
	return err
}
