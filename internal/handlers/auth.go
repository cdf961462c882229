package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
	"github.com/spinshelf/spinshelf-backend/internal/services"
)

type AuthHandler struct {
	log  *logger.Logger
	auth *services.AuthService
}

func NewAuthHandler(log *logger.Logger, auth *services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "auth"), auth: auth}
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, apierr.BadRequest("invalid_body", fmt.Errorf("invalid request body")))
		return
	}
	res, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, apierr.BadRequest("invalid_body", fmt.Errorf("invalid request body")))
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, res)
}
