package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/gocart-dev/gocart/internal/domain"
	"github.com/gocart-dev/gocart/internal/utils"
)

type categoryRequest struct {
	Name     string     `validate:"required" json:"name"`
	ParentId *uuid.UUID `json:"parent_id"`
}

type categoryResponse struct {
	Id       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	ParentId *uuid.UUID `json:"parent_id"`
}

func toCategoryResponse(category domain.Category) categoryResponse {
	return categoryResponse{Id: category.Id, Name: category.Name, ParentId: category.ParentId}
}

type categoryNodeResponse struct {
	categoryResponse
	Subcategories []categoryNodeResponse `json:"subcategories"`
}

func toCategoryNodeResponse(node *domain.CategoryNode) categoryNodeResponse {
	response := categoryNodeResponse{
		categoryResponse: toCategoryResponse(node.Category),
		Subcategories:    []categoryNodeResponse{},
	}
	for _, child := range node.Subcategories {
		response.Subcategories = append(response.Subcategories, toCategoryNodeResponse(child))
	}
	return response
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var body categoryRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	category, err := h.categories.Create(user.Id, body.Name, body.ParentId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	categories, err := h.categories.List(user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := make([]categoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}
	writeJSON(w, response)
}

// GetCategoriesPaginated serves /categories/paginated with page/size query
// parameters and an optional parent_id filter.
func (h *Handler) GetCategoriesPaginated(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, size := 1, 0
	var err error
	if v := query.Get("page"); v != "" {
		if page, err = parseIntParam(v, "page"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if v := query.Get("size"); v != "" {
		if size, err = parseIntParam(v, "size"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var parentId *uuid.UUID
	if v := query.Get("parent_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid parent_id: must be a UUID", http.StatusBadRequest)
			return
		}
		parentId = &id
	}

	categories, err := h.categories.Page(user.Id, parentId, page, size)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := make([]categoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}
	writeJSON(w, response)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	category, err := h.categories.Get(user.Id, id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, toCategoryResponse(category))
}

// GetCategoryTree serves /categories/{id}/nested: the category with its whole
// subcategory tree.
func (h *Handler) GetCategoryTree(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tree, err := h.categories.Tree(user.Id, id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, toCategoryNodeResponse(tree))
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body categoryRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	category, err := h.categories.Update(user.Id, id, body.Name, body.ParentId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, toCategoryResponse(category))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.categories.Delete(user.Id, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
