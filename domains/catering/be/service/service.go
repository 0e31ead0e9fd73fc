// Package service implements the catering domain operations: catering types
// and the catering offerings that reference them.
package service

import (
	"context"
	"errors"
	"strings"

	domainrepo "github.com/freshfleet/backoffice/domains/catering/be/repo"
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
	ErrNotFound  = errors.New("catering record not found")
	ErrInvalidID = errors.New("invalid catering identifier")
)

// CreateCateringTypeInput defines the payload required to create a catering type.
type CreateCateringTypeInput struct {
	Name        string
	Description *string
	Status      *bool
}

// UpdateCateringTypeInput defines the fields that can be modified on a catering type.
type UpdateCateringTypeInput struct {
	Name        *string
	Description *string
	Status      *bool
}

// CreateCateringInput defines the payload required to create a catering offering.
type CreateCateringInput struct {
	Name           string
	Description    *string
	Location       *string
	CateringTypeID *int64
	Status         *bool
}

// UpdateCateringInput defines the fields that can be modified on a catering offering.
type UpdateCateringInput struct {
	Name           *string
	Description    *string
	Location       *string
	CateringTypeID *int64
	Status         *bool
}

// Service exposes the catering domain operations.
type Service interface {
	CreateCateringType(ctx context.Context, audit requesttrace.AuditInfo, input CreateCateringTypeInput) (persistence.Document, error)
	GetCateringType(ctx context.Context, audit requesttrace.AuditInfo, id string) (persistence.Document, error)
	ListCateringTypes(ctx context.Context, audit requesttrace.AuditInfo, params persistence.Params) (persistence.ListResult, error)
	UpdateCateringType(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateCateringTypeInput) (persistence.Document, error)
	DeactivateCateringType(ctx context.Context, audit requesttrace.AuditInfo, id string) error

	CreateCatering(ctx context.Context, audit requesttrace.AuditInfo, input CreateCateringInput) (persistence.Document, error)
	GetCatering(ctx context.Context, audit requesttrace.AuditInfo, id string) (persistence.Document, error)
	ListCaterings(ctx context.Context, audit requesttrace.AuditInfo, params persistence.Params) (persistence.ListResult, error)
	UpdateCatering(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateCateringInput) (persistence.Document, error)
	DeactivateCatering(ctx context.Context, audit requesttrace.AuditInfo, id string) error
}

type service struct {
	repo domainrepo.Repository
}

// New builds a catering Service backed by the provided repository.
func New(repo domainrepo.Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCateringType(ctx context.Context, audit requesttrace.AuditInfo, input CreateCateringTypeInput) (persistence.Document, error) {
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

	doc, err := s.repo.CreateCateringType(ctx, fields, audit.UserID)
	return doc, mapRepoError(err)
}

func (s *service) GetCateringType(ctx context.Context, audit requesttrace.AuditInfo, id string) (persistence.Document, error) { //nolint:revive
	doc, err := s.repo.GetCateringType(ctx, id)
	return doc, mapRepoError(err)
}

func (s *service) ListCateringTypes(ctx context.Context, audit requesttrace.AuditInfo, params persistence.Params) (persistence.ListResult, error) { //nolint:revive
	opts := persistence.BuildListOptions(params, s.repo.CateringTypeSpec())
	result, err := s.repo.ListCateringTypes(ctx, opts)
	return result, mapRepoError(err)
}

func (s *service) UpdateCateringType(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateCateringTypeInput) (persistence.Document, error) {
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

	doc, err := s.repo.UpdateCateringType(ctx, id, set, audit.UserID)
	return doc, mapRepoError(err)
}

func (s *service) DeactivateCateringType(ctx context.Context, audit requesttrace.AuditInfo, id string) error {
	_, err := s.repo.DeactivateCateringType(ctx, id, audit.UserID)
	return mapRepoError(err)
}

func (s *service) CreateCatering(ctx context.Context, audit requesttrace.AuditInfo, input CreateCateringInput) (persistence.Document, error) {
	issues := FieldErrors{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		issues["Name"] = append(issues["Name"], "name is required")
	}
	if input.CateringTypeID == nil {
		issues["Catering_Types_id"] = append(issues["Catering_Types_id"], "catering type is required")
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Fields: issues}
	}

	fields := persistence.Document{
		"Name":              name,
		"Catering_Types_id": *input.CateringTypeID,
	}
	if input.Description != nil {
		fields["Description"] = strings.TrimSpace(*input.Description)
	}
	if input.Location != nil {
		fields["Location"] = strings.TrimSpace(*input.Location)
	}
	if input.Status != nil {
		fields["Status"] = *input.Status
	}

	doc, err := s.repo.CreateCatering(ctx, fields, audit.UserID)
	return doc, mapRepoError(err)
}

func (s *service) GetCatering(ctx context.Context, audit requesttrace.AuditInfo, id string) (persistence.Document, error) { //nolint:revive
	doc, err := s.repo.GetCatering(ctx, id)
	return doc, mapRepoError(err)
}

func (s *service) ListCaterings(ctx context.Context, audit requesttrace.AuditInfo, params persistence.Params) (persistence.ListResult, error) { //nolint:revive
	opts := persistence.BuildListOptions(params, s.repo.CateringSpec())
	result, err := s.repo.ListCaterings(ctx, opts)
	return result, mapRepoError(err)
}

func (s *service) UpdateCatering(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateCateringInput) (persistence.Document, error) {
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
	if input.Location != nil {
		set["Location"] = strings.TrimSpace(*input.Location)
	}
	if input.CateringTypeID != nil {
		set["Catering_Types_id"] = *input.CateringTypeID
	}
	if input.Status != nil {
		set["Status"] = *input.Status
	}
	if len(set) == 0 {
		return nil, &ValidationError{Fields: FieldErrors{"body": {"at least one field is required"}}}
	}

	doc, err := s.repo.UpdateCatering(ctx, id, set, audit.UserID)
	return doc, mapRepoError(err)
}

func (s *service) DeactivateCatering(ctx context.Context, audit requesttrace.AuditInfo, id string) error {
	_, err := s.repo.DeactivateCatering(ctx, id, audit.UserID)
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
