package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/oficinapro/workshop/internal/ai"
	"github.com/oficinapro/workshop/internal/httpx"
	"github.com/oficinapro/workshop/internal/models"
	"github.com/oficinapro/workshop/internal/services"
)

// ReportHandler drives the text-generation collaborator. Upstream
// failures come back as degraded 200 responses, never as a request
// abort, and the generator is only called after all store reads are
// done.
type ReportHandler struct {
	DB     *gorm.DB
	Ledger *services.LedgerService
	Gen    ai.Generator
}

func NewReportHandler(db *gorm.DB, ledger *services.LedgerService, gen ai.Generator) *ReportHandler {
	return &ReportHandler{DB: db, Ledger: ledger, Gen: gen}
}

// OrderReport drafts the WhatsApp message for an order and pairs it
// with the wa.me contact link.
func (h *ReportHandler) OrderReport(w http.ResponseWriter, r *http.Request) {
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
	if len(view.Lines) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "empty_order", map[string]string{
			"hint": "add parts or services to the order before generating a report",
		})
		return
	}
	summaries := make([]ai.LineSummary, 0, len(view.Lines))
	for _, l := range view.Lines {
		summaries = append(summaries, ai.LineSummary{Name: l.Name, Quantity: l.QuantitySold})
	}
	prompt := ai.ReportPrompt(view.Client.Name, view.Client.CarModel, summaries, view.Order.TotalValue)
	message, err := h.Gen.Generate(r.Context(), prompt)
	if err != nil {
		httpx.Degraded(w, err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":       message,
		"whatsapp_link": ai.WhatsAppLink(view.Client.Phone, message),
	})
}

// AnalyzePrice returns a short market-positioning note for an item's
// sell price.
func (h *ReportHandler) AnalyzePrice(w http.ResponseWriter, r *http.Request) {
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
	text, err := h.Gen.Generate(r.Context(), ai.PriceAnalysisPrompt(item.Name, item.SellPrice))
	if err != nil {
		httpx.Degraded(w, err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"analysis": text})
}
