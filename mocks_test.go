package componente_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/goliatone/go-repository-bun"
	componente "github.com/osvalois-ultrasist/vucem-componente"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockRecursos implements componente.Recursos. The embedded interface covers
// the repository methods the service never touches; tests stub only what they
// expect to be called.
type MockRecursos struct {
	mock.Mock
	componente.Recursos
}

func (m *MockRecursos) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*componente.Recurso, error) {
	args := m.Called(ctx, id)
	if rec := args.Get(0); rec != nil {
		return rec.(*componente.Recurso), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecursos) Create(ctx context.Context, record *componente.Recurso, criteria ...repository.InsertCriteria) (*componente.Recurso, error) {
	args := m.Called(ctx, record)
	if rec := args.Get(0); rec != nil {
		return rec.(*componente.Recurso), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecursos) Update(ctx context.Context, record *componente.Recurso, criteria ...repository.UpdateCriteria) (*componente.Recurso, error) {
	args := m.Called(ctx, record)
	if rec := args.Get(0); rec != nil {
		return rec.(*componente.Recurso), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecursos) Todos(ctx context.Context) ([]*componente.Recurso, error) {
	args := m.Called(ctx)
	if recs := args.Get(0); recs != nil {
		return recs.([]*componente.Recurso), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecursos) Activos(ctx context.Context) ([]*componente.Recurso, error) {
	args := m.Called(ctx)
	if recs := args.Get(0); recs != nil {
		return recs.([]*componente.Recurso), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecursos) PorNombre(ctx context.Context, nombre string) ([]*componente.Recurso, error) {
	args := m.Called(ctx, nombre)
	if recs := args.Get(0); recs != nil {
		return recs.([]*componente.Recurso), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecursos) Eliminar(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecursos) EliminarTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockPublicador implements componente.Publicador
type MockPublicador struct {
	mock.Mock
}

func (m *MockPublicador) Publicar(ctx context.Context, evento componente.Evento) error {
	args := m.Called(ctx, evento)
	return args.Error(0)
}

// capturePublicador records every published event without failing.
type capturePublicador struct {
	mu      sync.Mutex
	eventos []componente.Evento
}

func (p *capturePublicador) Publicar(_ context.Context, evento componente.Evento) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eventos = append(p.eventos, evento)
	return nil
}

func (p *capturePublicador) publicados() []componente.Evento {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]componente.Evento, len(p.eventos))
	copy(out, p.eventos)
	return out
}

// captureLogger keeps formatted entries so tests can assert on what the
// component reported.
type captureLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
	infos  []string
	debugs []string
}

func (l *captureLogger) record(bucket *[]string, format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*bucket = append(*bucket, format)
}

func (l *captureLogger) Error(format string, args ...any) { l.record(&l.errors, format) }
func (l *captureLogger) Warn(format string, args ...any)  { l.record(&l.warns, format) }
func (l *captureLogger) Info(format string, args ...any)  { l.record(&l.infos, format) }
func (l *captureLogger) Debug(format string, args ...any) { l.record(&l.debugs, format) }

func (l *captureLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

func (l *captureLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}
