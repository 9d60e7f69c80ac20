package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/oficinapro/workshop/internal/ai"
	"github.com/oficinapro/workshop/internal/handlers"
	"github.com/oficinapro/workshop/internal/httpx"
	"github.com/oficinapro/workshop/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares
// applied. The store handle and the text generator are injected so
// tests can substitute both.
func New(db *gorm.DB, gen ai.Generator) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	ledger := services.NewLedgerService(db)

	dh := handlers.NewDashboardHandler(services.NewStatsService(db))
	mux.HandleFunc("GET /{$}", dh.Show)

	ch := handlers.NewClientHandler(db)
	mux.HandleFunc("GET /clients", ch.List)
	mux.HandleFunc("POST /clients", ch.Create)

	ih := handlers.NewInventoryHandler(db)
	mux.HandleFunc("GET /inventory", ih.List)
	mux.HandleFunc("POST /inventory", ih.Create)
	mux.HandleFunc("GET /inventory/{id}", ih.Get)
	mux.HandleFunc("PUT /inventory/{id}", ih.Update)
	mux.HandleFunc("DELETE /inventory/{id}", ih.Delete)

	oh := handlers.NewOrderHandler(db, ledger)
	mux.HandleFunc("GET /os", oh.List)
	mux.HandleFunc("POST /os", oh.Create)
	mux.HandleFunc("GET /os/{id}", oh.Detail)
	mux.HandleFunc("GET /os/{id}/print", oh.Print)
	mux.HandleFunc("POST /os/{id}/items", oh.AddItem)
	mux.HandleFunc("DELETE /os/{id}/items/{lineID}", oh.RemoveItem)
	mux.HandleFunc("POST /os/{id}/close", oh.Close)

	rh := handlers.NewReportHandler(db, ledger, gen)
	mux.HandleFunc("POST /os/{id}/report", rh.OrderReport)
	mux.HandleFunc("POST /inventory/{id}/analyze", rh.AnalyzePrice)

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
