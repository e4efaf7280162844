package handler

import (
	"net/http"
	"strings"

	"workspace-service/internal/service/agentService"
	"workspace-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AgentHandler struct {
	agent *agentService.AgentService
}

func NewAgentHandler(agent *agentService.AgentService) *AgentHandler {
	return &AgentHandler{agent: agent}
}

type ChatRequest struct {
	WorkspaceID string `json:"workspace_id" binding:"required"`
	Message     string `json:"message" binding:"required"`
	Model       string `json:"model"`
	Filename    string `json:"filename"`
}

func (h *AgentHandler) Chat(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	// явный filename из запроса дописывается в сообщение, чтобы агент
	// нашёл именно этот файл
	message := req.Message
	if req.Filename != "" && !strings.Contains(message, req.Filename) {
		message += ` "` + req.Filename + `"`
	}

	resp, err := h.agent.Chat(c.Request.Context(), workspaceID, uid, message, req.Model)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AgentHandler) Status(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	st, err := h.agent.WorkspaceStatus(c.Request.Context(), workspaceID, uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, st)
}
