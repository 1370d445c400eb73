package componente

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Recursos is the storage collaborator for resource records. The component
// treats every method as an atomic single-object operation.
type Recursos interface {
	repository.Repository[*Recurso]

	Todos(ctx context.Context) ([]*Recurso, error)
	Activos(ctx context.Context) ([]*Recurso, error)
	PorNombre(ctx context.Context, nombre string) ([]*Recurso, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	EliminarTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type recursos struct {
	repository.Repository[*Recurso]
	db *bun.DB
}

var (
	_ Recursos                        = (*recursos)(nil)
	_ repository.Repository[*Recurso] = (*recursos)(nil)
)

// NewRecursosRepository builds the Bun backed repository for Recurso records.
func NewRecursosRepository(db *bun.DB) Recursos {
	repo := repository.NewRepository[*Recurso](db, repository.ModelHandlers[*Recurso]{
		NewRecord: func() *Recurso { return &Recurso{} },
		GetID: func(r *Recurso) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Recurso, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "nombre"
		},
	})

	return &recursos{
		Repository: repo,
		db:         db,
	}
}

func (r *recursos) Todos(ctx context.Context) ([]*Recurso, error) {
	var records []*Recurso
	err := r.db.NewSelect().
		Model(&records).
		Order("nombre ASC").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Recurso{}, nil
		}
		return nil, err
	}
	return records, nil
}

func (r *recursos) Activos(ctx context.Context) ([]*Recurso, error) {
	var records []*Recurso
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.activo = ?", true).
		Order("nombre ASC").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Recurso{}, nil
		}
		return nil, err
	}
	return records, nil
}

func (r *recursos) PorNombre(ctx context.Context, nombre string) ([]*Recurso, error) {
	var records []*Recurso
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.nombre LIKE ?", "%"+nombre+"%").
		Order("nombre ASC").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Recurso{}, nil
		}
		return nil, err
	}
	return records, nil
}

func (r *recursos) Eliminar(ctx context.Context, id uuid.UUID) error {
	return r.EliminarTx(ctx, r.db, id)
}

func (r *recursos) EliminarTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewDelete().
		Model((*Recurso)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}
