package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gocart-dev/gocart/internal/config"
	"github.com/gocart-dev/gocart/internal/logger"
	"github.com/gocart-dev/gocart/internal/service"
)

// Pinger reports whether the storage behind the API is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth       service.AuthService
	categories service.CategoryService
	products   service.ProductService
	health     Pinger
	cfg        *config.Config
}

func New(auth service.AuthService, categories service.CategoryService, products service.ProductService, health Pinger, cfg *config.Config) *Handler {
	return &Handler{auth, categories, products, health, cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

type messageResponse struct {
	Message string `json:"message"`
}
