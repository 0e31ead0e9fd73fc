// Package handler wires the catalog service to HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/freshfleet/backoffice/domains/catalog/be/service"
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

// Handler serves the grocery catalog endpoints.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("catalog service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the catalog endpoints on the shared API router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
		r.Get("/{id}", h.getCategory)
		r.Patch("/{id}", h.updateCategory)
		r.Delete("/{id}", h.deactivateCategory)
	})

	r.Route("/category-types", func(r chi.Router) {
		r.Get("/", h.listCategoryTypes)
		r.Post("/", h.createCategoryType)
		r.Get("/{id}", h.getCategoryType)
		r.Patch("/{id}", h.updateCategoryType)
		r.Delete("/{id}", h.deactivateCategoryType)
	})
}

type createCategoryRequest struct {
	Name        string  `json:"Name"`
	Description *string `json:"Description"`
	Status      *bool   `json:"Status"`
}

type updateCategoryRequest struct {
	Name        *string `json:"Name"`
	Description *string `json:"Description"`
	Status      *bool   `json:"Status"`
}

type createCategoryTypeRequest struct {
	Name        string  `json:"Name"`
	Description *string `json:"Description"`
	CategoryID  *int64  `json:"Grocery_Categories_id"`
	Status      *bool   `json:"Status"`
}

type updateCategoryTypeRequest struct {
	Name        *string `json:"Name"`
	Description *string `json:"Description"`
	CategoryID  *int64  `json:"Grocery_Categories_id"`
	Status      *bool   `json:"Status"`
}

type listResponse struct {
	Items      []persistence.Document     `json:"items"`
	Pagination persistence.PaginationMeta `json:"pagination"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var body createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeProblem(w, http.StatusBadRequest, problemTypeValidation, "Invalid request body", err.Error(), nil)
		return
	}

	doc, err := h.svc.CreateCategory(r.Context(), h.audit(r.Context()), service.CreateCategoryInput{
		Name:        body.Name,
		Description: body.Description,
		Status:      body.Status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, doc)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.GetCategory(r.Context(), h.audit(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCategories(r.Context(), h.audit(r.Context()), persistence.ParamsFromURL(r.URL.Query()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse{Items: result.Items, Pagination: result.Meta})
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var body updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeProblem(w, http.StatusBadRequest, problemTypeValidation, "Invalid request body", err.Error(), nil)
		return
	}

	doc, err := h.svc.UpdateCategory(r.Context(), h.audit(r.Context()), chi.URLParam(r, "id"), service.UpdateCategoryInput{
		Name:        body.Name,
		Description: body.Description,
		Status:      body.Status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) deactivateCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeactivateCategory(r.Context(), h.audit(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createCategoryType(w http.ResponseWriter, r *http.Request) {
	var body createCategoryTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeProblem(w, http.StatusBadRequest, problemTypeValidation, "Invalid request body", err.Error(), nil)
		return
	}

	doc, err := h.svc.CreateCategoryType(r.Context(), h.audit(r.Context()), service.CreateCategoryTypeInput{
		Name:        body.Name,
		Description: body.Description,
		CategoryID:  body.CategoryID,
		Status:      body.Status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, doc)
}

func (h *Handler) getCategoryType(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.GetCategoryType(r.Context(), h.audit(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) listCategoryTypes(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCategoryTypes(r.Context(), h.audit(r.Context()), persistence.ParamsFromURL(r.URL.Query()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse{Items: result.Items, Pagination: result.Meta})
}

func (h *Handler) updateCategoryType(w http.ResponseWriter, r *http.Request) {
	var body updateCategoryTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeProblem(w, http.StatusBadRequest, problemTypeValidation, "Invalid request body", err.Error(), nil)
		return
	}

	doc, err := h.svc.UpdateCategoryType(r.Context(), h.audit(r.Context()), chi.URLParam(r, "id"), service.UpdateCategoryTypeInput{
		Name:        body.Name,
		Description: body.Description,
		CategoryID:  body.CategoryID,
		Status:      body.Status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) deactivateCategoryType(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeactivateCategoryType(r.Context(), h.audit(r.Context()), chi.URLParam(r, "id")); err != nil {
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
		platformlogging.FromRequest(r, h.logger).Error("catalog request failed", zap.Error(err))
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
