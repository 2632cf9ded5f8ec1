package handler

import (
	"errors"
	"net/http"

	"github.com/docchat/docchat-be/middleware"
	"github.com/docchat/docchat-be/service"
	"github.com/docchat/docchat-be/types"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) HandleRegister(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	if err := h.authService.Register(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) HandleLogin(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, types.DataResponse{
				Status:  false,
				Message: "Invalid email or password",
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   tokens,
	})
}

func (h *AuthHandler) HandleRefreshToken(c *gin.Context) {
	var req types.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, types.DataResponse{
				Status:  false,
				Message: "Invalid refresh token",
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   tokens,
	})
}

func (h *AuthHandler) HandleMe(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   user,
	})
}

func (h *AuthHandler) HandlePasswordResetRequest(c *gin.Context) {
	var req types.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) HandlePasswordReset(c *gin.Context) {
	var req types.NewPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
