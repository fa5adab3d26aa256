package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
	"github.com/Ali-Dakheel/calo-ai-app/internal/repositories"
	"github.com/Ali-Dakheel/calo-ai-app/internal/services"
)

// ChatHandler handles conversational endpoints
type ChatHandler struct {
	agents        *services.AgentService
	conversations repositories.ConversationRepository
	logger        *log.Logger
}

// NewChatHandler creates a chat handler
func NewChatHandler(agents *services.AgentService, conversations repositories.ConversationRepository, logger *log.Logger) *ChatHandler {
	return &ChatHandler{
		agents:        agents,
		conversations: conversations,
		logger:        logger,
	}
}

// Chat processes one conversational turn
// @Summary Send a chat message
// @Description Routes the message to the right agent and returns its reply
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Chat request"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Printf("Failed to decode chat request: %v", err)
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		h.sendError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		h.sendError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	result, err := h.agents.ProcessMessage(r.Context(), req.UserID, req.ConversationID, req.Message)
	if err != nil {
		h.logger.Printf("Chat processing failed for user %s: %v", req.UserID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	h.sendJSON(w, http.StatusOK, models.ChatResponse{
		Message:               result.Message,
		ConversationID:        result.ConversationID,
		AgentUsed:             string(result.AgentUsed),
		Recommendations:       result.Recommendations,
		RequiresKitchenAction: result.RequiresKitchenAction,
		Confidence:            result.Confidence,
		Status:                "success",
	})
}

// ChatStream streams an agent reply over server-sent events. The full
// turn is processed first; the reply is then chunked word by word so
// clients can render progressively.
// @Summary Stream a chat reply
// @Description Processes the message and streams the reply as SSE chunks
// @Tags chat
// @Accept json
// @Produce text/event-stream
// @Param request body models.ChatRequest true "Chat request"
// @Success 200 {string} string "SSE stream"
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/chat/stream [post]
func (h *ChatHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" || strings.TrimSpace(req.UserID) == "" {
		h.sendError(w, http.StatusBadRequest, "Message and user ID are required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.sendError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	result, err := h.agents.ProcessMessage(r.Context(), req.UserID, req.ConversationID, req.Message)
	if err != nil {
		h.logger.Printf("Stream processing failed for user %s: %v", req.UserID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for _, word := range strings.Fields(result.Message) {
		chunk, _ := json.Marshal(map[string]string{"content": word + " "})
		fmt.Fprintf(w, "data: %s\n\n", chunk)
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		default:
		}
	}

	final, _ := json.Marshal(map[string]interface{}{
		"done":            true,
		"conversation_id": result.ConversationID,
		"agent_used":      string(result.AgentUsed),
		"confidence":      result.Confidence,
	})
	fmt.Fprintf(w, "data: %s\n\n", final)
	flusher.Flush()
}

// History returns a conversation's messages
// @Summary Get conversation history
// @Description Returns all messages of a conversation in order
// @Tags chat
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} models.ConversationHistoryResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/chat/history/{conversation_id} [get]
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversation_id"]

	exists, err := h.conversations.Exists(r.Context(), conversationID)
	if err != nil {
		h.logger.Printf("Failed to check conversation %s: %v", conversationID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load conversation")
		return
	}
	if !exists {
		h.sendError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	messages, err := h.conversations.History(r.Context(), conversationID)
	if err != nil {
		h.logger.Printf("Failed to load history %s: %v", conversationID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load conversation")
		return
	}

	h.sendJSON(w, http.StatusOK, models.ConversationHistoryResponse{
		ConversationID: conversationID,
		MessageCount:   len(messages),
		Messages:       messages,
	})
}

// DeleteConversation removes a conversation and its messages
// @Summary Delete a conversation
// @Description Removes a conversation's stored history
// @Tags chat
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} BasicResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/chat/history/{conversation_id} [delete]
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversation_id"]

	if err := h.conversations.Delete(r.Context(), conversationID); err != nil {
		var repoErr *repositories.ConversationRepositoryError
		if errors.As(err, &repoErr) && repoErr.Operation == "lookup" {
			h.sendError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		h.logger.Printf("Failed to delete conversation %s: %v", conversationID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}

	h.sendJSON(w, http.StatusOK, BasicResponse{
		Message: "Conversation deleted",
		Status:  "success",
	})
}

func (h *ChatHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *ChatHandler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, models.ErrorResponse{
		Error:  message,
		Status: "error",
	})
}
