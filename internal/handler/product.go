package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/gocart-dev/gocart/internal/domain"
	"github.com/gocart-dev/gocart/internal/utils"
)

type productRequest struct {
	Name        string    `validate:"required" json:"name"`
	Description string    `json:"description"`
	Price       float64   `validate:"required" json:"price"`
	CategoryId  uuid.UUID `validate:"required" json:"category_id"`
}

type productResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryId  uuid.UUID `json:"category_id"`
}

func toProductResponse(product domain.Product) productResponse {
	return productResponse{
		Id:          product.Id,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		CategoryId:  product.CategoryId,
	}
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var body productRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	product, err := h.products.Create(user.Id, body.Name, body.Description, body.Price, body.CategoryId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	products, err := h.products.List(user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := make([]productResponse, len(products))
	for i, product := range products {
		response[i] = toProductResponse(product)
	}
	writeJSON(w, response)
}

// GetProductsPaginated serves /products/paginated with page/size plus optional
// category_id, price_min and price_max filters.
func (h *Handler) GetProductsPaginated(w http.ResponseWriter, r *http.Request) {
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

	var filter domain.ProductFilter
	if v := query.Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid category_id: must be a UUID", http.StatusBadRequest)
			return
		}
		filter.CategoryId = &id
	}
	if v := query.Get("price_min"); v != "" {
		price, err := parseFloatParam(v, "price_min")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.PriceMin = &price
	}
	if v := query.Get("price_max"); v != "" {
		price, err := parseFloatParam(v, "price_max")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.PriceMax = &price
	}

	products, err := h.products.Page(user.Id, filter, page, size)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := make([]productResponse, len(products))
	for i, product := range products {
		response[i] = toProductResponse(product)
	}
	writeJSON(w, response)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := h.products.Get(user.Id, id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, toProductResponse(product))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body productRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	product, err := h.products.Update(user.Id, id, body.Name, body.Description, body.Price, body.CategoryId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, toProductResponse(product))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.products.Delete(user.Id, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
