package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/oficinapro/workshop/internal/httpx"
	"github.com/oficinapro/workshop/internal/models"
	"github.com/oficinapro/workshop/internal/validation"
)

type ClientHandler struct {
	DB *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler { return &ClientHandler{DB: db} }

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	var clients []models.Client
	if err := h.DB.WithContext(r.Context()).Order("id").Find(&clients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": clients, "total": len(clients)})
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		CarModel string `json:"car_model"`
		CarPlate string `json:"car_plate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.Required("phone", input.Phone, v)
	validation.Required("car_model", input.CarModel, v)
	validation.Required("car_plate", input.CarPlate, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c := models.Client{Name: input.Name, Phone: input.Phone, Email: input.Email, CarModel: input.CarModel, CarPlate: input.CarPlate}
	if err := h.DB.WithContext(r.Context()).Create(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "client_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}
