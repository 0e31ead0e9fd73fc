// Package handler wires the users service to HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/freshfleet/backoffice/domains/users/be/service"
	platformlogging "github.com/freshfleet/backoffice/platform/go/logging"
	"github.com/freshfleet/backoffice/platform/go/persistence"
	"github.com/freshfleet/backoffice/platform/go/requesttrace"
)

const (
	problemTypeValidation = "https://freshfleet.dev/problems/validation-error"
	problemTypeNotFound   = "https://freshfleet.dev/problems/not-found"
	problemTypeReference  = "https://freshfleet.dev/problems/invalid-reference"
	problemTypeInternal   = "https://freshfleet.dev/problems/internal-error"
)

// Handler serves the users endpoints.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("users service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the users endpoints on the shared API router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.deactivate)
	})
}

type userRequest struct {
	Name   *string `json:"Name"`
	Email  *string `json:"Email"`
	Phone  *string `json:"Phone_Number"`
	Status *bool   `json:"Status"`
}

type listResponse struct {
	Items      []persistence.Document     `json:"items"`
	Pagination persistence.PaginationMeta `json:"pagination"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var body userRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeProblem(w, http.StatusBadRequest, problemTypeValidation, "Invalid request body", err.Error(), nil)
		return
	}

	input := service.CreateUserInput{Phone: body.Phone, Status: body.Status}
	if body.Name != nil {
		input.Name = *body.Name
	}
	if body.Email != nil {
		input.Email = *body.Email
	}

	doc, err := h.svc.Create(r.Context(), h.audit(r.Context()), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, doc)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Get(r.Context(), h.audit(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.List(r.Context(), h.audit(r.Context()), persistence.ParamsFromURL(r.URL.Query()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse{Items: result.Items, Pagination: result.Meta})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var body userRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeProblem(w, http.StatusBadRequest, problemTypeValidation, "Invalid request body", err.Error(), nil)
		return
	}

	doc, err := h.svc.Update(r.Context(), h.audit(r.Context()), chi.URLParam(r, "id"), service.UpdateUserInput{
		Name:   body.Name,
		Email:  body.Email,
		Phone:  body.Phone,
		Status: body.Status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Deactivate(r.Context(), h.audit(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) audit(ctx context.Context) requesttrace.AuditInfo {
	return requesttrace.FromContextOrAnonymous(ctx)
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Detail string              `json:"detail,omitempty"`
	Status int                 `json:"status"`
	Fields service.FieldErrors `json:"fields,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError
	var refErr *persistence.ReferenceError

	switch {
	case errors.As(err, &validationErr):
		h.writeProblem(w, http.StatusBadRequest, problemTypeValidation, "Validation failed", "", validationErr.Fields)
	case errors.As(err, &refErr):
		h.writeProblem(w, http.StatusBadRequest, problemTypeReference, refErr.Error(), "", service.FieldErrors{
			refErr.Field: {refErr.Error()},
		})
	case errors.Is(err, service.ErrInvalidID):
		h.writeProblem(w, http.StatusBadRequest, problemTypeValidation, "Invalid identifier", "", nil)
	case errors.Is(err, service.ErrNotFound):
		h.writeProblem(w, http.StatusNotFound, problemTypeNotFound, "Not found", "", nil)
	default:
		platformlogging.FromRequest(r, h.logger).Error("users request failed", zap.Error(err))
		h.writeProblem(w, http.StatusInternalServerError, problemTypeInternal, "Internal error", "", nil)
	}
}

func (h *Handler) writeProblem(w http.ResponseWriter, status int, problemType, title, detail string, fields service.FieldErrors) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem{
		Type:   problemType,
		Title:  title,
		Detail: detail,
		Status: status,
		Fields: fields,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
