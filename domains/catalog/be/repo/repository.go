// Package repo binds the grocery catalog collections to the persistence engine.
package repo

import (
	"context"
	"fmt"

	"github.com/freshfleet/backoffice/platform/go/persistence"
	"github.com/freshfleet/backoffice/platform/go/registry"
)

// Collection names owned by the catalog domain.
const (
	CategoriesCollection    = "grocery_categories"
	CategoryTypesCollection = "grocery_category_types"
)

// Repository exposes the persistence operations the catalog service needs.
type Repository interface {
	CreateCategory(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error)
	GetCategory(ctx context.Context, id string) (persistence.Document, error)
	ListCategories(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error)
	UpdateCategory(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error)
	DeactivateCategory(ctx context.Context, id string, actor *int64) (persistence.Document, error)
	CategorySpec() registry.Collection

	CreateCategoryType(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error)
	GetCategoryType(ctx context.Context, id string) (persistence.Document, error)
	ListCategoryTypes(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error)
	UpdateCategoryType(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error)
	DeactivateCategoryType(ctx context.Context, id string, actor *int64) (persistence.Document, error)
	CategoryTypeSpec() registry.Collection
}

type engineRepository struct {
	categories *persistence.CollectionRepository
	types      *persistence.CollectionRepository
}

// NewEngineRepository binds the catalog collections to the shared engine.
func NewEngineRepository(engine *persistence.Engine) (Repository, error) {
	categories, err := engine.Collection(CategoriesCollection)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", CategoriesCollection, err)
	}
	types, err := engine.Collection(CategoryTypesCollection)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", CategoryTypesCollection, err)
	}
	return &engineRepository{categories: categories, types: types}, nil
}

func (r *engineRepository) CreateCategory(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error) {
	return r.categories.Create(ctx, fields, actor)
}

func (r *engineRepository) GetCategory(ctx context.Context, id string) (persistence.Document, error) {
	return r.categories.Get(ctx, id)
}

func (r *engineRepository) ListCategories(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error) {
	return r.categories.List(ctx, opts)
}

func (r *engineRepository) UpdateCategory(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error) {
	return r.categories.Update(ctx, id, set, actor)
}

func (r *engineRepository) DeactivateCategory(ctx context.Context, id string, actor *int64) (persistence.Document, error) {
	return r.categories.Deactivate(ctx, id, actor)
}

func (r *engineRepository) CategorySpec() registry.Collection {
	return r.categories.Spec()
}

func (r *engineRepository) CreateCategoryType(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error) {
	return r.types.Create(ctx, fields, actor)
}

func (r *engineRepository) GetCategoryType(ctx context.Context, id string) (persistence.Document, error) {
	return r.types.Get(ctx, id)
}

func (r *engineRepository) ListCategoryTypes(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error) {
	return r.types.List(ctx, opts)
}

func (r *engineRepository) UpdateCategoryType(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error) {
	return r.types.Update(ctx, id, set, actor)
}

func (r *engineRepository) DeactivateCategoryType(ctx context.Context, id string, actor *int64) (persistence.Document, error) {
	return r.types.Deactivate(ctx, id, actor)
}

func (r *engineRepository) CategoryTypeSpec() registry.Collection {
	return r.types.Spec()
}
