// Package service implements the grocery catalog domain operations: categories
// and the category types that reference them.
package service

import (
	"context"
	"errors"
	"strings"

	domainrepo "github.com/freshfleet/backoffice/domains/catalog/be/repo"
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
	ErrNotFound  = errors.New("catalog record not found")
	ErrInvalidID = errors.New("invalid catalog identifier")
)

// CreateCategoryInput defines the payload required to create a grocery category.
type CreateCategoryInput struct {
	Name        string
	Description *string
	Status      *bool
}

// UpdateCategoryInput defines the fields that can be modified on a category.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Status      *bool
}

// CreateCategoryTypeInput defines the payload required to create a category type.
type CreateCategoryTypeInput struct {
	Name        string
	Description *string
	CategoryID  *int64
	Status      *bool
}

// UpdateCategoryTypeInput defines the fields that can be modified on a category type.
type UpdateCategoryTypeInput struct {
	Name        *string
	Description *string
	CategoryID  *int64
	Status      *bool
}

// Service exposes the catalog domain operations.
type Service interface {
	CreateCategory(ctx context.Context, audit requesttrace.AuditInfo, input CreateCategoryInput) (persistence.Document, error)
	GetCategory(ctx context.Context, audit requesttrace.AuditInfo, id string) (persistence.Document, error)
	ListCategories(ctx context.Context, audit requesttrace.AuditInfo, params persistence.Params) (persistence.ListResult, error)
	UpdateCategory(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateCategoryInput) (persistence.Document, error)
	DeactivateCategory(ctx context.Context, audit requesttrace.AuditInfo, id string) error

	CreateCategoryType(ctx context.Context, audit requesttrace.AuditInfo, input CreateCategoryTypeInput) (persistence.Document, error)
	GetCategoryType(ctx context.Context, audit requesttrace.AuditInfo, id string) (persistence.Document, error)
	ListCategoryTypes(ctx context.Context, audit requesttrace.AuditInfo, params persistence.Params) (persistence.ListResult, error)
	UpdateCategoryType(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateCategoryTypeInput) (persistence.Document, error)
	DeactivateCategoryType(ctx context.Context, audit requesttrace.AuditInfo, id string) error
}

type service struct {
	repo domainrepo.Repository
}

// New builds a catalog Service backed by the provided repository.
func New(repo domainrepo.Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCategory(ctx context.Context, audit requesttrace.AuditInfo, input CreateCategoryInput) (persistence.Document, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &ValidationError{Fields: FieldErrors{"Name": {"name is required"}}}
	}

	fields := persistence.Document{"Name": name}
	if input.Description != nil {
		fields["Description"] = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		fields["Status"] = *input.Status
	}

	doc, err := s.repo.CreateCategory(ctx, fields, audit.UserID)
	return doc, mapRepoError(err)
}

func (s *service) GetCategory(ctx context.Context, audit requesttrace.AuditInfo, id string) (persistence.Document, error) { //nolint:revive
	doc, err := s.repo.GetCategory(ctx, id)
	return doc, mapRepoError(err)
}

func (s *service) ListCategories(ctx context.Context, audit requesttrace.AuditInfo, params persistence.Params) (persistence.ListResult, error) { //nolint:revive
	opts := persistence.BuildListOptions(params, s.repo.CategorySpec())
	result, err := s.repo.ListCategories(ctx, opts)
	return result, mapRepoError(err)
}

func (s *service) UpdateCategory(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateCategoryInput) (persistence.Document, error) {
	set := persistence.Document{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, &ValidationError{Fields: FieldErrors{"Name": {"name must not be empty"}}}
		}
		set["Name"] = name
	}
	if input.Description != nil {
		set["Description"] = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		set["Status"] = *input.Status
	}
	if len(set) == 0 {
		return nil, &ValidationError{Fields: FieldErrors{"body": {"at least one field is required"}}}
	}

	doc, err := s.repo.UpdateCategory(ctx, id, set, audit.UserID)
	return doc, mapRepoError(err)
}

func (s *service) DeactivateCategory(ctx context.Context, audit requesttrace.AuditInfo, id string) error {
	_, err := s.repo.DeactivateCategory(ctx, id, audit.UserID)
	return mapRepoError(err)
}

func (s *service) CreateCategoryType(ctx context.Context, audit requesttrace.AuditInfo, input CreateCategoryTypeInput) (persistence.Document, error) {
	fields := persistence.Document{}
	issues := FieldErrors{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		issues["Name"] = append(issues["Name"], "name is required")
	}
	if input.CategoryID == nil {
		issues["Grocery_Categories_id"] = append(issues["Grocery_Categories_id"], "grocery category is required")
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Fields: issues}
	}

	fields["Name"] = name
	fields["Grocery_Categories_id"] = *input.CategoryID
	if input.Description != nil {
		fields["Description"] = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		fields["Status"] = *input.Status
	}

	doc, err := s.repo.CreateCategoryType(ctx, fields, audit.UserID)
	return doc, mapRepoError(err)
}

func (s *service) GetCategoryType(ctx context.Context, audit requesttrace.AuditInfo, id string) (persistence.Document, error) { //nolint:revive
	doc, err := s.repo.GetCategoryType(ctx, id)
	return doc, mapRepoError(err)
}

func (s *service) ListCategoryTypes(ctx context.Context, audit requesttrace.AuditInfo, params persistence.Params) (persistence.ListResult, error) { //nolint:revive
	opts := persistence.BuildListOptions(params, s.repo.CategoryTypeSpec())
	result, err := s.repo.ListCategoryTypes(ctx, opts)
	return result, mapRepoError(err)
}

func (s *service) UpdateCategoryType(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateCategoryTypeInput) (persistence.Document, error) {
	set := persistence.Document{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, &ValidationError{Fields: FieldErrors{"Name": {"name must not be empty"}}}
		}
		set["Name"] = name
	}
	if input.Description != nil {
		set["Description"] = strings.TrimSpace(*input.Description)
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

	doc, err := s.repo.UpdateCategoryType(ctx, id, set, audit.UserID)
	return doc, mapRepoError(err)
}

func (s *service) DeactivateCategoryType(ctx context.Context, audit requesttrace.AuditInfo, id string) error {
	_, err := s.repo.DeactivateCategoryType(ctx, id, audit.UserID)
	return mapRepoError(err)
}

// mapRepoError translates engine errors into domain sentinels. Reference
// errors pass through untouched so handlers can name the failing relationship.
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
