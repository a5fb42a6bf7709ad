package handler

import (
	"encoding/json"
	"net/http"

	"inkpress/internal/api/middleware"
	"inkpress/internal/app/service"
	"inkpress/internal/common"

	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(cs *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: cs}
}

func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCategories)
	r.Get("/{idOrSlug}", h.getCategory)

	// Writes require a token; whether the role suffices is decided by the
	// authorization evaluator in the service layer.
	r.Group(func(private chi.Router) {
		private.Use(middleware.Authenticator)
		private.Post("/", h.createCategory)
		private.Put("/{idOrSlug}", h.updateCategory)
		private.Delete("/{idOrSlug}", h.deleteCategory)
	})
}

func (h *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryService.Get(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	category, err := h.categoryService.Create(r.Context(), middleware.ActorFromRequest(r), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	category, err := h.categoryService.Update(r.Context(), middleware.ActorFromRequest(r), chi.URLParam(r, "idOrSlug"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categoryService.Delete(r.Context(), middleware.ActorFromRequest(r), chi.URLParam(r, "idOrSlug")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
