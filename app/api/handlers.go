package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/listing-comb/app/cfg"
	"github.com/lysyi3m/listing-comb/app/config"
	"github.com/lysyi3m/listing-comb/app/database"
	"github.com/lysyi3m/listing-comb/app/ingest"
)

func NewHandler(repo database.ListingRepository, configs *config.Cache, orchestrator *ingest.Orchestrator) *Handler {
	return &Handler{
		repo:         repo,
		configs:      configs,
		orchestrator: orchestrator,
	}
}

// GetProperties serves filtered, paginated canonical listings.
func (h *Handler) GetProperties(c *gin.Context) {
	filter := database.ListingFilter{
		City:         c.Query("city"),
		Country:      c.Query("country"),
		PriceSegment: c.Query("priceSegment"),
		Source:       c.Query("source"),
	}

	if raw := c.Query("isAvailable"); raw != "" {
		available := raw == "true"
		filter.IsAvailable = &available
	}
	if raw := c.Query("minPrice"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &price
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &price
		}
	}

	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	limit := parsePositiveInt(c.DefaultQuery("limit", "10"), 10)
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	total, err := h.repo.CountListings(filter)
	if err != nil {
		slog.Error("Database error", "operation", "count_listings", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	listings, err := h.repo.FindListings(filter, offset, limit)
	if err != nil {
		slog.Error("Database error", "operation", "find_listings", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	data := make([]ListingResponse, 0, len(listings))
	for _, listing := range listings {
		data = append(data, toListingResponse(listing))
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	c.JSON(http.StatusOK, PaginatedListingsResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if listingCount, err := h.repo.GetListingCount(); err == nil {
		health["listings"] = listingCount
	}

	health["loaded_sources"] = h.configs.Count()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"version":           cfg.Get().Version,
		"sources":           h.configs.Count(),
		"ingestion_running": h.orchestrator.IsRunning(),
	}

	if listingCount, err := h.repo.GetListingCount(); err == nil {
		stats["listings"] = listingCount
	}
	if sourceCounts, err := h.repo.GetSourceCounts(); err == nil {
		stats["listings_by_source"] = sourceCounts
	}

	c.JSON(http.StatusOK, stats)
}

// TriggerIngestion starts a background ingestion sweep. The request returns
// as soon as the sweep is launched; completion is observable via /stats and
// logs only.
func (h *Handler) TriggerIngestion(c *gin.Context) {
	if !h.orchestrator.Start() {
		c.JSON(http.StatusConflict, gin.H{
			"started": false,
			"message": "Ingestion is already running",
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"started": true,
		"message": "Ingestion started",
	})
}

func toListingResponse(listing database.Listing) ListingResponse {
	return ListingResponse{
		ID:            listing.ID,
		Name:          listing.Name,
		City:          listing.City,
		Country:       listing.Country,
		IsAvailable:   listing.IsAvailable,
		PricePerNight: listing.PricePerNight,
		PriceSegment:  listing.PriceSegment,
		Other:         listing.Other,
		Source:        listing.Source,
		CreatedAt:     listing.CreatedAt,
		UpdatedAt:     listing.UpdatedAt,
	}
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
