package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
	"github.com/spinshelf/spinshelf-backend/internal/requestdata"
	"github.com/spinshelf/spinshelf-backend/internal/services"
)

// AIHandler exposes the model-backed tasks. Plan gates run before any model
// spend: a forbidden request never reaches the generation client.
type AIHandler struct {
	log    *logger.Logger
	ai     *services.AIService
	lyrics *services.LyricsService
	plan   *services.PlanService
}

func NewAIHandler(log *logger.Logger, ai *services.AIService, lyrics *services.LyricsService, plan *services.PlanService) *AIHandler {
	return &AIHandler{log: log.With("handler", "ai"), ai: ai, lyrics: lyrics, plan: plan}
}

func (h *AIHandler) requirePremium(c *gin.Context) bool {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, h.log, apierr.Unauthorized("no_request_data", fmt.Errorf("not authenticated")))
		return false
	}
	if err := h.plan.RequirePremium(c.Request.Context(), rd.UserID); err != nil {
		RespondError(c, h.log, err)
		return false
	}
	return true
}

// recordUsage runs after a successful generation; counter failures are
// logged, never surfaced.
func (h *AIHandler) recordUsage(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return
	}
	if err := h.plan.RecordUsage(c.Request.Context(), rd.UserID); err != nil {
		h.log.Warn("usage counter update failed", "err", err.Error())
	}
}

type identifyRequest struct {
	Image string `json:"image"`
}

func (h *AIHandler) Identify(c *gin.Context) {
	var req identifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, apierr.BadRequest("invalid_body", fmt.Errorf("invalid request body")))
		return
	}
	res, err := h.ai.Identify(c.Request.Context(), req.Image)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	h.recordUsage(c)
	RespondOK(c, res)
}

type albumRequest struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

func (h *AIHandler) Metadata(c *gin.Context) {
	var req albumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, apierr.BadRequest("invalid_body", fmt.Errorf("invalid request body")))
		return
	}
	res, err := h.ai.Metadata(c.Request.Context(), req.Artist, req.Title)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	h.recordUsage(c)
	RespondOK(c, res)
}

type playlistRequest struct {
	Prompt     string                  `json:"prompt"`
	Collection []domain.CollectionItem `json:"collection"`
}

func (h *AIHandler) Playlist(c *gin.Context) {
	if !h.requirePremium(c) {
		return
	}
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, apierr.BadRequest("invalid_body", fmt.Errorf("invalid request body")))
		return
	}
	res, err := h.ai.Playlist(c.Request.Context(), req.Prompt, req.Collection)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	h.recordUsage(c)
	RespondOK(c, res)
}

func (h *AIHandler) Covers(c *gin.Context) {
	var req albumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, apierr.BadRequest("invalid_body", fmt.Errorf("invalid request body")))
		return
	}
	res, err := h.ai.Covers(c.Request.Context(), req.Artist, req.Title)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	h.recordUsage(c)
	RespondOK(c, res)
}

func (h *AIHandler) Lyrics(c *gin.Context) {
	var req albumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, apierr.BadRequest("invalid_body", fmt.Errorf("invalid request body")))
		return
	}
	res, err := h.lyrics.Lookup(c.Request.Context(), req.Artist, req.Title)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, res)
}

type manualRequest struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
}

func (h *AIHandler) Manual(c *gin.Context) {
	if !h.requirePremium(c) {
		return
	}
	var req manualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, apierr.BadRequest("invalid_body", fmt.Errorf("invalid request body")))
		return
	}
	res, err := h.ai.Manual(c.Request.Context(), req.Brand, req.Model)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	h.recordUsage(c)
	RespondOK(c, res)
}

type setupGuideRequest struct {
	Gear []domain.GearItem `json:"gear"`
}

func (h *AIHandler) SetupGuide(c *gin.Context) {
	if !h.requirePremium(c) {
		return
	}
	var req setupGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, apierr.BadRequest("invalid_body", fmt.Errorf("invalid request body")))
		return
	}
	res, err := h.ai.SetupGuide(c.Request.Context(), req.Gear)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	h.recordUsage(c)
	RespondOK(c, res)
}
