package componente

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// NombreMaxLen is the longest accepted record name.
	NombreMaxLen = 100
	// DescripcionMaxLen is the longest accepted record description.
	DescripcionMaxLen = 500
)

// Recurso is the generic resource managed by this component template.
type Recurso struct {
	bun.BaseModel `bun:"table:recursos,alias:rec"`

	ID          uuid.UUID         `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Nombre      string            `bun:"nombre,notnull" json:"nombre,omitempty"`
	Descripcion string            `bun:"descripcion" json:"descripcion,omitempty"`
	Activo      bool              `bun:"activo,notnull" json:"activo"`
	Atributos   map[string]string `bun:"atributos,type:jsonb" json:"atributos,omitempty"`

	CreadoPor         string     `bun:"creado_por" json:"creado_por,omitempty"`
	ModificadoPor     string     `bun:"modificado_por" json:"modificado_por,omitempty"`
	FechaCreacion     *time.Time `bun:"fecha_creacion,nullzero,default:current_timestamp" json:"fecha_creacion,omitempty"`
	FechaModificacion *time.Time `bun:"fecha_modificacion,nullzero,default:current_timestamp" json:"fecha_modificacion,omitempty"`
	DeletedAt         *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// SetAtributo adds or replaces a free-form attribute.
func (r *Recurso) SetAtributo(clave, valor string) *Recurso {
	if r.Atributos == nil {
		r.Atributos = make(map[string]string)
	}
	r.Atributos[clave] = valor
	return r
}

// Validar checks the static business rules of the record. Violations come
// back as rich validation errors with stable text codes; the rules match the
// length limits enforced by ozzo below.
func (r *Recurso) Validar() error {
	if err := validation.Validate(strings.TrimSpace(r.Nombre), validation.Required); err != nil {
		return ErrNombreRequerido
	}
	if err := validation.Validate(r.Nombre, validation.RuneLength(0, NombreMaxLen)); err != nil {
		return ErrNombreMuyLargo
	}
	if err := validation.Validate(r.Descripcion, validation.RuneLength(0, DescripcionMaxLen)); err != nil {
		return ErrDescripcionMuyLarga
	}
	return nil
}

// RecursoDTO is the transport representation of a Recurso. Events carry this
// snapshot instead of the live entity.
type RecursoDTO struct {
	ID                uuid.UUID         `json:"id,omitempty"`
	Nombre            string            `json:"nombre"`
	Descripcion       string            `json:"descripcion,omitempty"`
	Activo            bool              `json:"activo"`
	Atributos         map[string]string `json:"atributos,omitempty"`
	CreadoPor         string            `json:"creado_por,omitempty"`
	ModificadoPor     string            `json:"modificado_por,omitempty"`
	FechaCreacion     *time.Time        `json:"fecha_creacion,omitempty"`
	FechaModificacion *time.Time        `json:"fecha_modificacion,omitempty"`
}

// ToDTO builds an immutable snapshot of the record. The attribute map is
// copied so the snapshot cannot observe later mutations.
func ToDTO(r *Recurso) RecursoDTO {
	if r == nil {
		return RecursoDTO{}
	}

	var atributos map[string]string
	if len(r.Atributos) > 0 {
		atributos = make(map[string]string, len(r.Atributos))
		for k, v := range r.Atributos {
			atributos[k] = v
		}
	}

	return RecursoDTO{
		ID:                r.ID,
		Nombre:            r.Nombre,
		Descripcion:       r.Descripcion,
		Activo:            r.Activo,
		Atributos:         atributos,
		CreadoPor:         r.CreadoPor,
		ModificadoPor:     r.ModificadoPor,
		FechaCreacion:     r.FechaCreacion,
		FechaModificacion: r.FechaModificacion,
	}
}

// FromDTO builds a Recurso from its transport representation. Audit fields
// are not taken from the DTO; the lifecycle stamps them.
func FromDTO(dto RecursoDTO) *Recurso {
	rec := &Recurso{
		ID:          dto.ID,
		Nombre:      dto.Nombre,
		Descripcion: dto.Descripcion,
		Activo:      dto.Activo,
	}
	for k, v := range dto.Atributos {
		rec.SetAtributo(k, v)
	}
	return rec
}
