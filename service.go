package componente

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// ContextoRecursoExistente is the context key under which update runs expose
// the stored record to extensions, so they can diff old against new.
const ContextoRecursoExistente = "recursoExistente"

// RecursoService orchestrates the mutation pipeline for resource records:
// validate, run extensions, persist, publish. Reads pass straight through to
// the storage collaborator.
type RecursoService struct {
	repo       Recursos
	registro   *RegistroExtensiones
	publicador Publicador
	auditor    Auditor
	logger     Logger
}

// NewRecursoService wires the lifecycle. Publicador and Auditor may be nil;
// they default to a no-op publisher and the SISTEMA auditor.
func NewRecursoService(repo Recursos, registro *RegistroExtensiones, publicador Publicador, auditor Auditor, logger Logger) *RecursoService {
	if registro == nil {
		registro = NewRegistroExtensiones(logger)
	}
	return &RecursoService{
		repo:       repo,
		registro:   registro,
		publicador: normalizePublicador(publicador),
		auditor:    normalizeAuditor(auditor),
		logger:     normalizeLogger(logger),
	}
}

// Registro exposes the extension registry so the composition root can attach
// extension points before the first request is served.
func (s *RecursoService) Registro() *RegistroExtensiones {
	return s.registro
}

// ObtenerTodos returns every stored record.
func (s *RecursoService) ObtenerTodos(ctx context.Context) ([]*Recurso, error) {
	s.logger.Debug("Obteniendo todos los recursos")
	return s.repo.Todos(ctx)
}

// ObtenerActivos returns the records flagged active.
func (s *RecursoService) ObtenerActivos(ctx context.Context) ([]*Recurso, error) {
	s.logger.Debug("Obteniendo recursos activos")
	return s.repo.Activos(ctx)
}

// BuscarPorNombre returns the records whose name contains the given substring.
func (s *RecursoService) BuscarPorNombre(ctx context.Context, nombre string) ([]*Recurso, error) {
	s.logger.Debug("Buscando recursos por nombre: %s", nombre)
	return s.repo.PorNombre(ctx, nombre)
}

// ObtenerPorID returns the record with the given id, or a not-found business
// error.
func (s *RecursoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*Recurso, error) {
	s.logger.Debug("Obteniendo recurso por ID: %s", id)

	rec, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, NewRecursoNoEncontrado(id)
		}
		return nil, err
	}
	return rec, nil
}

// Crear validates the record, runs the registered validation extensions,
// persists and publishes a RecursoCreado event. Any validation failure or
// extension veto rejects the whole operation with no side effects. A storage
// failure propagates unchanged. Event publication is fire and forget; a
// failed publish never rolls back the persisted write.
func (s *RecursoService) Crear(ctx context.Context, recurso *Recurso) (*Recurso, error) {
	if recurso == nil {
		return nil, ErrRecursoRequerido
	}
	s.logger.Debug("Creando nuevo recurso: %s", recurso.Nombre)

	if err := recurso.Validar(); err != nil {
		return nil, err
	}

	contexto := make(map[string]any)
	resultados := s.registro.Ejecutar(SujetoRecurso, recurso, contexto)
	if ContieneVeto(resultados) {
		return nil, ErrValidacionExtension
	}

	// assign identity only when absent; an existing id is never regenerated
	if recurso.ID == uuid.Nil {
		recurso.ID = uuid.New()
	}

	recurso.CreadoPor = s.auditor.CurrentActor(ctx)
	recurso.ModificadoPor = recurso.CreadoPor

	guardado, err := s.repo.Create(ctx, recurso)
	if err != nil {
		return nil, err
	}

	evento := NewRecursoCreado(ToDTO(guardado))
	if err := s.publicador.Publicar(ctx, evento); err != nil {
		s.logger.Error("Error al publicar evento %s: %v", evento.Tipo(), err)
	}

	return guardado, nil
}

// Actualizar overwrites the record identified by id. The identity is fixed to
// id regardless of the incoming payload, the stored record is offered to the
// extensions through the context, and no event is published.
func (s *RecursoService) Actualizar(ctx context.Context, id uuid.UUID, recurso *Recurso) (*Recurso, error) {
	if recurso == nil {
		return nil, ErrRecursoRequerido
	}
	s.logger.Debug("Actualizando recurso con ID: %s", id)

	existente, err := s.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}

	recurso.ID = id
	if err := recurso.Validar(); err != nil {
		return nil, err
	}

	contexto := map[string]any{
		ContextoRecursoExistente: existente,
	}
	resultados := s.registro.Ejecutar(SujetoRecurso, recurso, contexto)
	if ContieneVeto(resultados) {
		return nil, ErrValidacionExtension
	}

	recurso.CreadoPor = existente.CreadoPor
	recurso.ModificadoPor = s.auditor.CurrentActor(ctx)

	return s.repo.Update(ctx, recurso)
}

// Eliminar removes the record identified by id, confirming existence first.
// No extension hooks run on delete.
func (s *RecursoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	s.logger.Debug("Eliminando recurso con ID: %s", id)

	if _, err := s.ObtenerPorID(ctx, id); err != nil {
		return err
	}

	return s.repo.Eliminar(ctx, id)
}
