package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"ainews/internal/workflow"
	"ainews/pkg/notify"
)

// WorkflowRunner triggers one pipeline run.
type WorkflowRunner interface {
	Run(ctx context.Context, event workflow.Event) workflow.Response
}

// SubscriptionManager exposes the notification topic's subscription
// operations.
type SubscriptionManager interface {
	GetSubscriptionStatus(ctx context.Context) (*notify.SubscriptionStatus, error)
	ConfirmSubscription(ctx context.Context, token, topicARN string) error
}

type AgentHandler struct {
	runner        WorkflowRunner
	subscriptions SubscriptionManager
}

func NewAgentHandler(runner WorkflowRunner, subscriptions SubscriptionManager) *AgentHandler {
	return &AgentHandler{runner: runner, subscriptions: subscriptions}
}

// RunWorkflow triggers a run. The request body is an optional Event; an
// empty body runs with a generated correlation id.
func (h *AgentHandler) RunWorkflow(c *gin.Context) {
	var event workflow.Event
	if err := c.ShouldBindJSON(&event); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp := h.runner.Run(c.Request.Context(), event)
	c.Data(resp.StatusCode, "application/json", []byte(resp.Body))
}

func (h *AgentHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AgentHandler) GetSubscriptions(c *gin.Context) {
	status, err := h.subscriptions.GetSubscriptionStatus(c.Request.Context())
	if err != nil {
		slog.Error("error fetching subscription status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Notification service error"})
		return
	}

	c.JSON(http.StatusOK, status)
}

type ConfirmSubscriptionRequest struct {
	Token    string `json:"token" binding:"required"`
	TopicARN string `json:"topic_arn" binding:"required"`
}

func (h *AgentHandler) ConfirmSubscription(c *gin.Context) {
	var req ConfirmSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and topic_arn are required"})
		return
	}

	if err := h.subscriptions.ConfirmSubscription(c.Request.Context(), req.Token, req.TopicARN); err != nil {
		slog.Error("error confirming subscription", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Notification service error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription confirmed"})
}
