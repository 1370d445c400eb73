package componente

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventOrigin identifies this component as the source of emitted events.
const EventOrigin = "vucem-componente"

// TipoEventoRecursoCreado is the event type published after a successful create.
const TipoEventoRecursoCreado = "recurso.creado"

// Evento is a domain event emitted by the component.
type Evento interface {
	EventoID() string
	Tipo() string
	Origen() string
	FechaCreacion() time.Time
}

// EventoBase carries the fields shared by every component event.
type EventoBase struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"tipo"`
	Source  string    `json:"origen"`
	Created time.Time `json:"fecha_creacion"`
}

func newEventoBase(tipo string) EventoBase {
	return EventoBase{
		ID:      uuid.New(),
		Type:    tipo,
		Source:  EventOrigin,
		Created: time.Now(),
	}
}

func (e EventoBase) EventoID() string { return e.ID.String() }

func (e EventoBase) Tipo() string { return e.Type }

func (e EventoBase) Origen() string { return e.Source }

func (e EventoBase) FechaCreacion() time.Time { return e.Created }

// RecursoCreado announces that a resource was persisted. It carries an
// immutable snapshot of the stored record.
type RecursoCreado struct {
	EventoBase
	Recurso RecursoDTO `json:"recurso"`
}

// NewRecursoCreado builds the creation event for the given snapshot.
func NewRecursoCreado(recurso RecursoDTO) RecursoCreado {
	return RecursoCreado{
		EventoBase: newEventoBase(TipoEventoRecursoCreado),
		Recurso:    recurso,
	}
}

// Publicador hands domain events to the hosting application's event bus.
// Publication is fire and forget: the lifecycle logs failures but never rolls
// back a persisted write because of them.
type Publicador interface {
	Publicar(ctx context.Context, evento Evento) error
}

// PublicadorFunc adapts a function to the Publicador interface.
type PublicadorFunc func(ctx context.Context, evento Evento) error

// Publicar implements Publicador.
func (f PublicadorFunc) Publicar(ctx context.Context, evento Evento) error {
	if f == nil {
		return nil
	}
	return f(ctx, evento)
}

type noopPublicador struct{}

func (noopPublicador) Publicar(context.Context, Evento) error { return nil }

func normalizePublicador(p Publicador) Publicador {
	if p == nil {
		return noopPublicador{}
	}
	return p
}
