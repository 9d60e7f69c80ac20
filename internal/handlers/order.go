package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/oficinapro/workshop/internal/httpx"
	"github.com/oficinapro/workshop/internal/models"
	"github.com/oficinapro/workshop/internal/services"
)

type OrderHandler struct {
	DB     *gorm.DB
	Ledger *services.LedgerService
}

func NewOrderHandler(db *gorm.DB, ledger *services.LedgerService) *OrderHandler {
	return &OrderHandler{DB: db, Ledger: ledger}
}

type orderListRow struct {
	Order  models.ServiceOrder `json:"order"`
	Client models.Client       `json:"client"`
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var orders []models.ServiceOrder
	if err := h.DB.WithContext(r.Context()).Preload("Client").Order("id").Find(&orders).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	rows := make([]orderListRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderListRow{Order: o, Client: o.Client})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": len(rows)})
}

// Create opens a new order for an existing client.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ClientID uint `json:"client_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var client models.Client
	if err := h.DB.WithContext(r.Context()).First(&client, input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeServiceError(w, &services.NotFoundError{Entity: "client", ID: input.ClientID})
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_client", nil)
		return
	}
	order := models.ServiceOrder{ClientID: client.ID, Status: models.StatusOpen}
	if err := h.DB.WithContext(r.Context()).Create(&order).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "order_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	view, err := h.Ledger.OrderView(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// Print returns the receipt projection: the detail view plus per-line
// subtotals and a generation timestamp.
func (h *OrderHandler) Print(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	view, err := h.Ledger.OrderView(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"order":        view.Order,
		"client":       view.Client,
		"lines":        view.Lines,
		"generated_at": time.Now(),
	})
}

func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input struct {
		ItemID   uint `json:"item_id"`
		Quantity int  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if _, err := h.Ledger.AddItem(r.Context(), id, input.ItemID, input.Quantity); err != nil {
		writeServiceError(w, err)
		return
	}
	view, err := h.Ledger.OrderView(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	lineID, ok := pathID(r, "lineID")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_line_id", nil)
		return
	}
	if err := h.Ledger.RemoveItem(r.Context(), id, lineID); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": lineID})
}

func (h *OrderHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	order, err := h.Ledger.Close(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}
