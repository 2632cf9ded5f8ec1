package handler

import (
	"net/http"
	"strconv"

	"github.com/docchat/docchat-be/middleware"
	"github.com/docchat/docchat-be/service"
	"github.com/docchat/docchat-be/types"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
	wsService   *service.WebSocketService
}

func NewChatHandler(chatService service.ChatService, wsService *service.WebSocketService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		wsService:   wsService,
	}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	resp, err := h.chatService.Converse(c.Request.Context(), userID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   resp,
	})
}

func (h *ChatHandler) HandleHistory(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	userID := c.GetString(middleware.ContextUserID)
	exchanges, err := h.chatService.History(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if exchanges == nil {
		exchanges = []*types.ChatExchange{}
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   exchanges,
	})
}

func (h *ChatHandler) HandleWebsocket(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	h.wsService.HandleChat(c.Writer, c.Request, userID)
}
