// Package repo binds the users collection to the persistence engine.
package repo

import (
	"context"
	"fmt"

	"github.com/freshfleet/backoffice/platform/go/persistence"
	"github.com/freshfleet/backoffice/platform/go/registry"
)

// UsersCollection is the collection owned by this domain.
const UsersCollection = "users"

// Repository exposes the persistence operations the users service needs.
type Repository interface {
	Create(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error)
	Get(ctx context.Context, id string) (persistence.Document, error)
	List(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error)
	Update(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error)
	Deactivate(ctx context.Context, id string, actor *int64) (persistence.Document, error)
	FindByEmail(ctx context.Context, email string) (persistence.Document, error)
	Spec() registry.Collection
}

type engineRepository struct {
	engine *persistence.Engine
	users  *persistence.CollectionRepository
}

// NewEngineRepository binds the users collection to the shared engine.
func NewEngineRepository(engine *persistence.Engine) (Repository, error) {
	users, err := engine.Collection(UsersCollection)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", UsersCollection, err)
	}
	return &engineRepository{engine: engine, users: users}, nil
}

func (r *engineRepository) Create(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error) {
	return r.users.Create(ctx, fields, actor)
}

func (r *engineRepository) Get(ctx context.Context, id string) (persistence.Document, error) {
	return r.users.Get(ctx, id)
}

func (r *engineRepository) List(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error) {
	return r.users.List(ctx, opts)
}

func (r *engineRepository) Update(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error) {
	return r.users.Update(ctx, id, set, actor)
}

func (r *engineRepository) Deactivate(ctx context.Context, id string, actor *int64) (persistence.Document, error) {
	return r.users.Deactivate(ctx, id, actor)
}

func (r *engineRepository) FindByEmail(ctx context.Context, email string) (persistence.Document, error) {
	return r.engine.Store().FindOne(ctx, UsersCollection, persistence.Eq("Email", email), nil)
}

func (r *engineRepository) Spec() registry.Collection {
	return r.users.Spec()
}
