package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"inkpress/internal/api/middleware"
	"inkpress/internal/app/service"
	"inkpress/internal/common"
	"inkpress/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(ps *service.PostService) *PostHandler {
	return &PostHandler{postService: ps}
}

func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listPosts)         // GET /api/v1/posts
	r.Get("/{idOrSlug}", h.getPost) // GET /api/v1/posts/tech-tips

	r.Group(func(private chi.Router) {
		private.Use(middleware.Authenticator)
		private.Post("/", h.createPost)
		private.Put("/{idOrSlug}", h.updatePost)
		private.Delete("/{idOrSlug}", h.deletePost)
		private.Post("/{idOrSlug}/comments", h.addComment)
	})
}

func (h *PostHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	req := service.ListPostsRequest{
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
		Author:   r.URL.Query().Get("author"),
		Page:     page,
		PageSize: pageSize,
	}

	actor := middleware.ActorFromRequest(r)
	posts, total, err := h.postService.List(r.Context(), actor, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type PaginatedPostsResponse struct {
		Posts    []model.Post `json:"posts"`
		Total    int64        `json:"total"`
		Page     int          `json:"page"`
		PageSize int          `json:"page_size"`
	}
	common.RespondWithJSON(w, http.StatusOK, PaginatedPostsResponse{
		Posts:    posts,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *PostHandler) getPost(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")

	// RealIP middleware has already rewritten RemoteAddr; it doubles as the
	// view dedupe key.
	post, err := h.postService.Get(r.Context(), idOrSlug, r.RemoteAddr)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, post)
}

func (h *PostHandler) createPost(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	post, err := h.postService.Create(r.Context(), middleware.ActorFromRequest(r), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) updatePost(w http.ResponseWriter, r *http.Request) {
	var req service.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	idOrSlug := chi.URLParam(r, "idOrSlug")
	post, err := h.postService.Update(r.Context(), middleware.ActorFromRequest(r), idOrSlug, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, post)
}

func (h *PostHandler) deletePost(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	if err := h.postService.Delete(r.Context(), middleware.ActorFromRequest(r), idOrSlug); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

func (h *PostHandler) addComment(w http.ResponseWriter, r *http.Request) {
	var req service.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	idOrSlug := chi.URLParam(r, "idOrSlug")
	comment, err := h.postService.AddComment(r.Context(), middleware.ActorFromRequest(r), idOrSlug, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, comment)
}
