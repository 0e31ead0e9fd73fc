// Package repo binds the catering collections to the persistence engine.
package repo

import (
	"context"
	"fmt"

	"github.com/freshfleet/backoffice/platform/go/persistence"
	"github.com/freshfleet/backoffice/platform/go/registry"
)

// Collection names owned by the catering domain.
const (
	CateringsCollection     = "caterings"
	CateringTypesCollection = "catering_types"
)

// Repository exposes the persistence operations the catering service needs.
type Repository interface {
	CreateCatering(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error)
	GetCatering(ctx context.Context, id string) (persistence.Document, error)
	ListCaterings(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error)
	UpdateCatering(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error)
	DeactivateCatering(ctx context.Context, id string, actor *int64) (persistence.Document, error)
	CateringSpec() registry.Collection

	CreateCateringType(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error)
	GetCateringType(ctx context.Context, id string) (persistence.Document, error)
	ListCateringTypes(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error)
	UpdateCateringType(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error)
	DeactivateCateringType(ctx context.Context, id string, actor *int64) (persistence.Document, error)
	CateringTypeSpec() registry.Collection
}

type engineRepository struct {
	caterings *persistence.CollectionRepository
	types     *persistence.CollectionRepository
}

// NewEngineRepository binds the catering collections to the shared engine.
func NewEngineRepository(engine *persistence.Engine) (Repository, error) {
	caterings, err := engine.Collection(CateringsCollection)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", CateringsCollection, err)
	}
	types, err := engine.Collection(CateringTypesCollection)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", CateringTypesCollection, err)
	}
	return &engineRepository{caterings: caterings, types: types}, nil
}

func (r *engineRepository) CreateCatering(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error) {
	return r.caterings.Create(ctx, fields, actor)
}

func (r *engineRepository) GetCatering(ctx context.Context, id string) (persistence.Document, error) {
	return r.caterings.Get(ctx, id)
}

func (r *engineRepository) ListCaterings(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error) {
	return r.caterings.List(ctx, opts)
}

func (r *engineRepository) UpdateCatering(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error) {
	return r.caterings.Update(ctx, id, set, actor)
}

func (r *engineRepository) DeactivateCatering(ctx context.Context, id string, actor *int64) (persistence.Document, error) {
	return r.caterings.Deactivate(ctx, id, actor)
}

func (r *engineRepository) CateringSpec() registry.Collection {
	return r.caterings.Spec()
}

func (r *engineRepository) CreateCateringType(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error) {
	return r.types.Create(ctx, fields, actor)
}

func (r *engineRepository) GetCateringType(ctx context.Context, id string) (persistence.Document, error) {
	return r.types.Get(ctx, id)
}

func (r *engineRepository) ListCateringTypes(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error) {
	return r.types.List(ctx, opts)
}

func (r *engineRepository) UpdateCateringType(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error) {
	return r.types.Update(ctx, id, set, actor)
}

func (r *engineRepository) DeactivateCateringType(ctx context.Context, id string, actor *int64) (persistence.Document, error) {
	return r.types.Deactivate(ctx, id, actor)
}

func (r *engineRepository) CateringTypeSpec() registry.Collection {
	return r.types.Spec()
}
