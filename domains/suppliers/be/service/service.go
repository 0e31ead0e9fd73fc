// Package service implements the suppliers domain operations.
package service

import (
	"context"
	"errors"
	"strings"

	domainrepo "github.com/freshfleet/backoffice/domains/suppliers/be/repo"
	"github.com/freshfleet/backoffice/platform/go/persistence"
	"github.com/freshfleet/backoffice/platform/go/requesttrace"
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

// ValidationError captures input validation problems surfaced by the service.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Domain-level error sentinel values.
var (
	ErrNotFound  = errors.New("supplier not found")
	ErrInvalidID = errors.New("invalid supplier identifier")
)

// CreateSupplierInput defines the payload required to create a supplier.
type CreateSupplierInput struct {
	Name       string
	Email      *string
	Phone      *string
	City       *string
	Address    *string
	CategoryID *int64
	Status     *bool
}

// UpdateSupplierInput defines the fields that can be modified on a supplier.
type UpdateSupplierInput struct {
	Name       *string
	Email      *string
	Phone      *string
	City       *string
	Address    *string
	CategoryID *int64
	Status     *bool
}

// Service exposes the suppliers domain operations.
type Service interface {
	Create(ctx context.Context, audit requesttrace.AuditInfo, input CreateSupplierInput) (persistence.Document, error)
	Get(ctx context.Context, audit requesttrace.AuditInfo, id string) (persistence.Document, error)
	List(ctx context.Context, audit requesttrace.AuditInfo, params persistence.Params) (persistence.ListResult, error)
	Update(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateSupplierInput) (persistence.Document, error)
	Deactivate(ctx context.Context, audit requesttrace.AuditInfo, id string) error
}

type service struct {
	repo domainrepo.Repository
}

// New builds a suppliers Service backed by the provided repository.
func New(repo domainrepo.Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, audit requesttrace.AuditInfo, input CreateSupplierInput) (persistence.Document, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &ValidationError{Fields: FieldErrors{"Name": {"name is required"}}}
	}

	fields := persistence.Document{"Name": name}
	if input.Email != nil {
		fields["Email"] = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		fields["Phone_Number"] = strings.TrimSpace(*input.Phone)
	}
	if input.City != nil {
		fields["City"] = strings.TrimSpace(*input.City)
	}
	if input.Address != nil {
		fields["Address"] = strings.TrimSpace(*input.Address)
	}
	if input.CategoryID != nil {
		fields["Grocery_Categories_id"] = *input.CategoryID
	}
	if input.Status != nil {
		fields["Status"] = *input.Status
	}

	doc, err := s.repo.Create(ctx, fields, audit.UserID)
	return doc, mapRepoError(err)
}

func (s *service) Get(ctx context.Context, audit requesttrace.AuditInfo, id string) (persistence.Document, error) { //nolint:revive
	doc, err := s.repo.Get(ctx, id)
	return doc, mapRepoError(err)
}

func (s *service) List(ctx context.Context, audit requesttrace.AuditInfo, params persistence.Params) (persistence.ListResult, error) { //nolint:revive
	opts := persistence.BuildListOptions(params, s.repo.Spec())
	result, err := s.repo.List(ctx, opts)
	return result, mapRepoError(err)
}

func (s *service) Update(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateSupplierInput) (persistence.Document, error) {
	set := persistence.Document{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, &ValidationError{Fields: FieldErrors{"Name": {"name must not be empty"}}}
		}
		set["Name"] = name
	}
	if input.Email != nil {
		set["Email"] = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		set["Phone_Number"] = strings.TrimSpace(*input.Phone)
	}
	if input.City != nil {
		set["City"] = strings.TrimSpace(*input.City)
	}
	if input.Address != nil {
		set["Address"] = strings.TrimSpace(*input.Address)
	}
	if input.CategoryID != nil {
		set["Grocery_Categories_id"] = *input.CategoryID
	}
	if input.Status != nil {
		set["Status"] = *input.Status
	}
	if len(set) == 0 {
		return nil, &ValidationError{Fields: FieldErrors{"body": {"at least one field is required"}}}
	}

	doc, err := s.repo.Update(ctx, id, set, audit.UserID)
	return doc, mapRepoError(err)
}

func (s *service) Deactivate(ctx context.Context, audit requesttrace.AuditInfo, id string) error {
	_, err := s.repo.Deactivate(ctx, id, audit.UserID)
	return mapRepoError(err)
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrInvalidIdentifier):
		return ErrInvalidID
	default:
		return err
	}
}
