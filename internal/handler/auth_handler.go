package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/middleware"
	"github.com/edunexus-app/backend/internal/service"
	"github.com/edunexus-app/backend/pkg/apperror"
	"github.com/edunexus-app/backend/pkg/response"
)

type AuthHandler struct {
	service   service.AuthService
	tokens    *service.TokenManager
	useCookie bool
}

func NewAuthHandler(authService service.AuthService, tokens *service.TokenManager, useCookie bool) *AuthHandler {
	return &AuthHandler{service: authService, tokens: tokens, useCookie: useCookie}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setAuthCookie(c, result.Token)
	response.OK(c, http.StatusCreated, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setAuthCookie(c, result.Token)
	response.OK(c, http.StatusOK, result)
}

func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if actor == nil {
		response.Error(c, fmt.Errorf("%w: authorization required", apperror.ErrUnauthorized))
		return
	}

	user, err := h.service.Me(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, service.PublicUser(user))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if h.useCookie {
		c.SetCookie("token", "", -1, "/", "", false, true)
	}
	response.Message(c, http.StatusOK, "logged out")
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	if !h.useCookie {
		return
	}
	maxAge := int(h.tokens.TTL().Seconds())
	c.SetCookie("token", token, maxAge, "/", "", false, true)
}
