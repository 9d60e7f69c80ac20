package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/oficinapro/workshop/internal/httpx"
	"github.com/oficinapro/workshop/internal/models"
	"github.com/oficinapro/workshop/internal/validation"
)

const defaultMinQuantity = 5

type InventoryHandler struct {
	DB *gorm.DB
}

func NewInventoryHandler(db *gorm.DB) *InventoryHandler { return &InventoryHandler{DB: db} }

// itemView decorates an item with its derived low-stock flag.
type itemView struct {
	models.InventoryItem
	LowStock bool `json:"low_stock"`
}

func viewOf(it models.InventoryItem) itemView {
	return itemView{InventoryItem: it, LowStock: it.LowStock()}
}

// List returns all items, optionally filtered by a case-insensitive
// substring match on name or category.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.WithContext(r.Context())
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR lower(category) LIKE ?", like, like)
	}
	var items []models.InventoryItem
	if err := dbq.Order("id").Find(&items).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_inventory", nil)
		return
	}
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		views = append(views, viewOf(it))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": views, "total": len(views)})
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		CostPrice   float64 `json:"cost_price"`
		SellPrice   float64 `json:"sell_price"`
		Quantity    int     `json:"quantity"`
		MinQuantity *int    `json:"min_quantity"`
		Location    string  `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.Required("category", input.Category, v)
	validation.NonNegativeFloat("cost_price", input.CostPrice, v)
	validation.NonNegativeFloat("sell_price", input.SellPrice, v)
	validation.NonNegativeInt("quantity", input.Quantity, v)
	minQty := defaultMinQuantity
	if input.MinQuantity != nil {
		minQty = *input.MinQuantity
		validation.NonNegativeInt("min_quantity", minQty, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	item := models.InventoryItem{
		Name:        input.Name,
		Category:    input.Category,
		CostPrice:   input.CostPrice,
		SellPrice:   input.SellPrice,
		Quantity:    input.Quantity,
		MinQuantity: minQty,
		Location:    input.Location,
	}
	if err := h.DB.WithContext(r.Context()).Create(&item).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "item_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, viewOf(item))
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var item models.InventoryItem
	if err := h.DB.WithContext(r.Context()).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_item", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(item))
}

// Update edits the operator-editable fields: name, category, sell
// price and quantity. Cost price and threshold stay as created.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input struct {
		Name      string  `json:"name"`
		Category  string  `json:"category"`
		SellPrice float64 `json:"sell_price"`
		Quantity  int     `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.Required("category", input.Category, v)
	validation.NonNegativeFloat("sell_price", input.SellPrice, v)
	validation.NonNegativeInt("quantity", input.Quantity, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var item models.InventoryItem
	if err := h.DB.WithContext(r.Context()).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_item", nil)
		return
	}
	item.Name = input.Name
	item.Category = input.Category
	item.SellPrice = input.SellPrice
	item.Quantity = input.Quantity
	if err := h.DB.WithContext(r.Context()).Save(&item).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(item))
}

// Delete removes the catalog row for good. Existing order lines keep
// their frozen price; only the stock reversal on later removals is
// skipped.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var item models.InventoryItem
	if err := h.DB.WithContext(r.Context()).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_item", nil)
		return
	}
	if err := h.DB.WithContext(r.Context()).Delete(&item).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
