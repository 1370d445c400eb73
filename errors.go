package componente

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Stable machine codes for business rule violations. These survive transport
// translation so API clients can branch on them.
const (
	TextCodeRecursoRequerido    = "RECURSO_REQUERIDO"
	TextCodeNombreRequerido     = "NOMBRE_REQUERIDO"
	TextCodeNombreMuyLargo      = "NOMBRE_MUY_LARGO"
	TextCodeDescripcionMuyLarga = "DESCRIPCION_MUY_LARGA"
	TextCodeRecursoNoEncontrado = "RECURSO_NO_ENCONTRADO"
	TextCodeValidacionExtension = "VALIDACION_EXTENSION"
)

// ErrRecursoRequerido is returned when a mutation receives a nil record.
var ErrRecursoRequerido = goerrors.New("el recurso no puede ser nulo", goerrors.CategoryValidation).
	WithTextCode(TextCodeRecursoRequerido)

// ErrNombreRequerido is returned when the record name is empty or blank.
var ErrNombreRequerido = goerrors.New("el nombre del recurso es requerido", goerrors.CategoryValidation).
	WithTextCode(TextCodeNombreRequerido).
	WithMetadata(map[string]any{"field": "nombre"})

// ErrNombreMuyLargo is returned when the record name exceeds 100 characters.
var ErrNombreMuyLargo = goerrors.New("el nombre del recurso no puede exceder los 100 caracteres", goerrors.CategoryValidation).
	WithTextCode(TextCodeNombreMuyLargo).
	WithMetadata(map[string]any{"field": "nombre"})

// ErrDescripcionMuyLarga is returned when the description exceeds 500 characters.
var ErrDescripcionMuyLarga = goerrors.New("la descripción del recurso no puede exceder los 500 caracteres", goerrors.CategoryValidation).
	WithTextCode(TextCodeDescripcionMuyLarga).
	WithMetadata(map[string]any{"field": "descripcion"})

// ErrValidacionExtension is the veto error: at least one registered extension
// returned an explicit negative verdict for the mutation.
var ErrValidacionExtension = goerrors.New("el recurso no cumple con las validaciones de las extensiones", goerrors.CategoryValidation).
	WithTextCode(TextCodeValidacionExtension)

// NewRecursoNoEncontrado builds the not-found error for the given id.
func NewRecursoNoEncontrado(id uuid.UUID) *goerrors.Error {
	return goerrors.New("recurso no encontrado", goerrors.CategoryNotFound).
		WithTextCode(TextCodeRecursoNoEncontrado).
		WithMetadata(map[string]any{"id": id.String()})
}

// IsNoEncontrado reports whether err is a not-found business error.
func IsNoEncontrado(err error) bool {
	return goerrors.IsNotFound(err)
}
