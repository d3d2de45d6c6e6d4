package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/franmoretti/pricewatch/internal/models"
	"github.com/franmoretti/pricewatch/internal/progress"
	"github.com/franmoretti/pricewatch/internal/runner"
	"github.com/franmoretti/pricewatch/internal/store"
)

type Handlers struct {
	db     *store.DB
	runner *runner.BatchRunner
	hub    *progress.Hub
	logger *slog.Logger
}

func NewHandlers(db *store.DB, batchRunner *runner.BatchRunner, hub *progress.Hub, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:     db,
		runner: batchRunner,
		hub:    hub,
		logger: logger,
	}
}

// SourceRequest is the payload for creating or updating a source. Name
// is optional on create; a readable one is derived from the URL.
type SourceRequest struct {
	URL       string `json:"url"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	ProductID string `json:"product_id"`
}

func (h *Handlers) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.db.ListSources(r.Context())
	if err != nil {
		h.logger.Error("failed to list sources", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to fetch sources")
		return
	}
	if sources == nil {
		sources = []*models.Source{}
	}
	h.respondJSON(w, http.StatusOK, sources)
}

func (h *Handlers) CreateSource(w http.ResponseWriter, r *http.Request) {
	var req SourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" || req.Type == "" {
		h.respondError(w, http.StatusBadRequest, "url and type are required")
		return
	}

	name := req.Name
	if name == "" {
		name = DeriveSourceName(req.URL)
	}

	source := &models.Source{
		URL:       req.URL,
		Type:      req.Type,
		Name:      name,
		ProductID: req.ProductID,
	}
	if err := h.db.InsertSource(r.Context(), source); err != nil {
		h.logger.Error("failed to create source", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to create source")
		return
	}

	h.respondJSON(w, http.StatusCreated, source)
}

func (h *Handlers) UpdateSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.db.GetSource(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load source", "error", err, "source_id", id)
		h.respondError(w, http.StatusInternalServerError, "failed to update source")
		return
	}
	if existing == nil {
		h.respondError(w, http.StatusNotFound, "source not found")
		return
	}

	if req.URL != "" {
		existing.URL = req.URL
	}
	if req.Type != "" {
		existing.Type = req.Type
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.ProductID != "" {
		existing.ProductID = req.ProductID
	}

	if err := h.db.UpdateSource(r.Context(), existing); err != nil {
		h.logger.Error("failed to update source", "error", err, "source_id", id)
		h.respondError(w, http.StatusInternalServerError, "failed to update source")
		return
	}

	h.respondJSON(w, http.StatusOK, existing)
}

func (h *Handlers) DeleteSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.db.DeleteSource(r.Context(), id); err != nil {
		h.logger.Error("failed to delete source", "error", err, "source_id", id)
		h.respondError(w, http.StatusNotFound, "source not found")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ProductRequest is the payload for creating or renaming a catalog
// product.
type ProductRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.db.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	if products == nil {
		products = []*models.CatalogProduct{}
	}
	h.respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		h.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	product := &models.CatalogProduct{Name: req.Name}
	if err := h.db.InsertProduct(r.Context(), product); err != nil {
		h.logger.Error("failed to create product", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.respondJSON(w, http.StatusCreated, product)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		h.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	product := &models.CatalogProduct{ID: id, Name: req.Name}
	if err := h.db.UpdateProduct(r.Context(), product); err != nil {
		h.logger.Error("failed to update product", "error", err, "product_id", id)
		h.respondError(w, http.StatusNotFound, "product not found")
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.db.DeleteProduct(r.Context(), id); err != nil {
		h.logger.Error("failed to delete product", "error", err, "product_id", id)
		h.respondError(w, http.StatusNotFound, "product not found")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// LabelRequest is the payload for creating a label.
type LabelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *Handlers) ListLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.db.ListLabels(r.Context())
	if err != nil {
		h.logger.Error("failed to list labels", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to fetch labels")
		return
	}
	if labels == nil {
		labels = []*models.Label{}
	}
	h.respondJSON(w, http.StatusOK, labels)
}

func (h *Handlers) CreateLabel(w http.ResponseWriter, r *http.Request) {
	var req LabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		h.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	label := &models.Label{Name: req.Name, Color: req.Color}
	if err := h.db.InsertLabel(r.Context(), label); err != nil {
		h.logger.Error("failed to create label", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to create label")
		return
	}

	h.respondJSON(w, http.StatusCreated, label)
}

func (h *Handlers) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.db.DeleteLabel(r.Context(), id); err != nil {
		h.logger.Error("failed to delete label", "error", err, "label_id", id)
		h.respondError(w, http.StatusNotFound, "label not found")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handlers) AttachLabel(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	labelID := chi.URLParam(r, "labelID")
	if err := h.db.AttachLabel(r.Context(), productID, labelID); err != nil {
		h.logger.Error("failed to attach label", "error", err,
			"product_id", productID, "label_id", labelID)
		h.respondError(w, http.StatusInternalServerError, "failed to attach label")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "attached"})
}

func (h *Handlers) DetachLabel(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	labelID := chi.URLParam(r, "labelID")
	if err := h.db.DetachLabel(r.Context(), productID, labelID); err != nil {
		h.logger.Error("failed to detach label", "error", err,
			"product_id", productID, "label_id", labelID)
		h.respondError(w, http.StatusInternalServerError, "failed to detach label")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "detached"})
}

// ListData returns scrape history, optionally filtered by source or
// product via query parameters.
func (h *Handlers) ListData(w http.ResponseWriter, r *http.Request) {
	limit := intQueryParam(r, "limit", 100)

	var (
		records []*models.ScrapedRecord
		err     error
	)
	switch {
	case r.URL.Query().Get("source_id") != "":
		records, err = h.db.ListRecordsBySource(r.Context(), r.URL.Query().Get("source_id"), limit)
	case r.URL.Query().Get("product_id") != "":
		records, err = h.db.ListRecordsByProduct(r.Context(), r.URL.Query().Get("product_id"), limit)
	default:
		records, err = h.db.ListRecords(r.Context(), limit)
	}
	if err != nil {
		h.logger.Error("failed to list records", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to fetch data")
		return
	}
	if records == nil {
		records = []*models.ScrapedRecord{}
	}

	h.respondJSON(w, http.StatusOK, records)
}

// DeleteData removes a single record by ID.
func (h *Handlers) DeleteData(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.db.DeleteRecord(r.Context(), id); err != nil {
		h.logger.Error("failed to delete record", "error", err, "record_id", id)
		h.respondError(w, http.StatusNotFound, "record not found")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DeleteDataByName bulk-removes every record carrying the product
// name in the "name" query parameter.
func (h *Handlers) DeleteDataByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.respondError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}

	deleted, err := h.db.DeleteRecordsByName(r.Context(), name)
	if err != nil {
		h.logger.Error("failed to delete records", "error", err, "name", name)
		h.respondError(w, http.StatusInternalServerError, "failed to delete records")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "deleted",
		"deleted": deleted,
	})
}

// Execute kicks off a batch over every stored source. The batch runs
// in the background; progress arrives on the events stream. A second
// request while one is running is rejected.
func (h *Handlers) Execute(w http.ResponseWriter, r *http.Request) {
	if h.runner.Running() {
		h.respondError(w, http.StatusConflict, "a scrape batch is already running")
		return
	}

	sources, err := h.db.ListSources(r.Context())
	if err != nil {
		h.logger.Error("failed to load sources", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to load sources")
		return
	}
	if len(sources) == 0 {
		h.respondError(w, http.StatusBadRequest, "no sources configured")
		return
	}

	batch := make([]models.Source, 0, len(sources))
	for _, s := range sources {
		batch = append(batch, *s)
	}

	go func() {
		// Detached from the request: the batch outlives the HTTP call.
		if _, err := h.runner.Run(context.WithoutCancel(r.Context()), batch); err != nil {
			h.logger.Error("batch run failed", "error", err)
		}
	}()

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"status": "started",
		"total":  len(batch),
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"running":   h.runner.Running(),
		"listeners": h.hub.ListenerCount(),
	})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

func intQueryParam(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
