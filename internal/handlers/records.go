package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
	"github.com/spinshelf/spinshelf-backend/internal/services"
)

// RecordsHandler covers the non-AI record utilities: price lookups and
// placeholder cover generation.
type RecordsHandler struct {
	log      *logger.Logger
	prices   *services.PriceService
	coverart *services.CoverArtService
}

func NewRecordsHandler(log *logger.Logger, prices *services.PriceService, coverart *services.CoverArtService) *RecordsHandler {
	return &RecordsHandler{log: log.With("handler", "records"), prices: prices, coverart: coverart}
}

func (h *RecordsHandler) Price(c *gin.Context) {
	artist := c.Query("artist")
	title := c.Query("title")
	est, cached, err := h.prices.Estimate(c.Request.Context(), artist, title)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{
		"currency": est.Currency,
		"low":      est.Low,
		"median":   est.Median,
		"high":     est.High,
		"cached":   cached,
	})
}

type placeholderRequest struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

func (h *RecordsHandler) PlaceholderCover(c *gin.Context) {
	if h.coverart == nil {
		RespondError(c, h.log, apierr.Internal("coverart_disabled",
			fmt.Errorf("placeholder cover storage is not configured")))
		return
	}
	var req placeholderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, apierr.BadRequest("invalid_body", fmt.Errorf("invalid request body")))
		return
	}
	url, err := h.coverart.Placeholder(c.Request.Context(), req.Artist, req.Title)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}
