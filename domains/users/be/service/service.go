// Package service implements the users domain operations. Users are referenced
// as audit actors across every other collection, so the service keeps email
// addresses unique within the collection.
package service

import (
	"context"
	"errors"
	"strings"

	domainrepo "github.com/freshfleet/backoffice/domains/users/be/repo"
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
	ErrNotFound  = errors.New("user not found")
	ErrInvalidID = errors.New("invalid user identifier")
)

// CreateUserInput defines the payload required to create a user.
type CreateUserInput struct {
	Name   string
	Email  string
	Phone  *string
	Status *bool
}

// UpdateUserInput defines the fields that can be modified on a user.
type UpdateUserInput struct {
	Name   *string
	Email  *string
	Phone  *string
	Status *bool
}

// Service exposes the users domain operations.
type Service interface {
	Create(ctx context.Context, audit requesttrace.AuditInfo, input CreateUserInput) (persistence.Document, error)
	Get(ctx context.Context, audit requesttrace.AuditInfo, id string) (persistence.Document, error)
	List(ctx context.Context, audit requesttrace.AuditInfo, params persistence.Params) (persistence.ListResult, error)
	Update(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateUserInput) (persistence.Document, error)
	Deactivate(ctx context.Context, audit requesttrace.AuditInfo, id string) error
}

type service struct {
	repo domainrepo.Repository
}

// New builds a users Service backed by the provided repository.
func New(repo domainrepo.Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, audit requesttrace.AuditInfo, input CreateUserInput) (persistence.Document, error) {
	issues := FieldErrors{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		issues["Name"] = append(issues["Name"], "name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		issues["Email"] = append(issues["Email"], "email is required")
	} else if !strings.Contains(email, "@") {
		issues["Email"] = append(issues["Email"], "email is not valid")
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Fields: issues}
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, &ValidationError{Fields: FieldErrors{"Email": {"email is already registered"}}}
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return nil, err
	}

	fields := persistence.Document{
		"Name":  name,
		"Email": email,
	}
	if input.Phone != nil {
		fields["Phone_Number"] = strings.TrimSpace(*input.Phone)
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

func (s *service) Update(ctx context.Context, audit requesttrace.AuditInfo, id string, input UpdateUserInput) (persistence.Document, error) {
	set := persistence.Document{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, &ValidationError{Fields: FieldErrors{"Name": {"name must not be empty"}}}
		}
		set["Name"] = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, &ValidationError{Fields: FieldErrors{"Email": {"email is not valid"}}}
		}
		set["Email"] = email
	}
	if input.Phone != nil {
		set["Phone_Number"] = strings.TrimSpace(*input.Phone)
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
