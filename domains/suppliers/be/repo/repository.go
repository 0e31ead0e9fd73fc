// Package repo binds the suppliers collection to the persistence engine.
package repo

import (
	"context"
	"fmt"

	"github.com/freshfleet/backoffice/platform/go/persistence"
	"github.com/freshfleet/backoffice/platform/go/registry"
)

// SuppliersCollection is the collection owned by this domain.
const SuppliersCollection = "suppliers"

// Repository exposes the persistence operations the suppliers service needs.
type Repository interface {
	Create(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error)
	Get(ctx context.Context, id string) (persistence.Document, error)
	List(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error)
	Update(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error)
	Deactivate(ctx context.Context, id string, actor *int64) (persistence.Document, error)
	Spec() registry.Collection
}

type engineRepository struct {
	suppliers *persistence.CollectionRepository
}

// NewEngineRepository binds the suppliers collection to the shared engine.
func NewEngineRepository(engine *persistence.Engine) (Repository, error) {
	suppliers, err := engine.Collection(SuppliersCollection)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", SuppliersCollection, err)
	}
	return &engineRepository{suppliers: suppliers}, nil
}

func (r *engineRepository) Create(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error) {
	return r.suppliers.Create(ctx, fields, actor)
}

func (r *engineRepository) Get(ctx context.Context, id string) (persistence.Document, error) {
	return r.suppliers.Get(ctx, id)
}

func (r *engineRepository) List(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error) {
	return r.suppliers.List(ctx, opts)
}

func (r *engineRepository) Update(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error) {
	return r.suppliers.Update(ctx, id, set, actor)
}

func (r *engineRepository) Deactivate(ctx context.Context, id string, actor *int64) (persistence.Document, error) {
	return r.suppliers.Deactivate(ctx, id, actor)
}

func (r *engineRepository) Spec() registry.Collection {
	return r.suppliers.Spec()
}
