package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"allo/internal/models"
	"allo/internal/services"
	"allo/internal/utils"
)

type CompletionHandler struct {
	llmService  services.LLMService
	chatService services.ChatService
}

func NewCompletionHandler(llmService services.LLMService, chatService services.ChatService) *CompletionHandler {
	return &CompletionHandler{llmService: llmService, chatService: chatService}
}

type completionRequest struct {
	Message             string            `json:"message"`
	ChatID              string            `json:"chatId"`
	ConversationHistory []models.ChatTurn `json:"conversationHistory"`
}

// Chat generates an assistant reply. Authenticated callers must name a
// chat they own and have the exchange persisted; guests just get the
// reply back.
func (h *CompletionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for Chat")
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "message is required and must be a non-empty string")
		return
	}

	reply, err := h.llmService.Complete(r.Context(), req.ConversationHistory, message)
	if err != nil {
		log.Error().Err(err).Msg("Chat completion failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to process chat message")
		return
	}

	if userID, ok := requestUserID(r); ok {
		if req.ChatID == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "chat ID is required when logged in")
			return
		}
		chatID, err := primitive.ObjectIDFromHex(req.ChatID)
		if err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "chat not found")
			return
		}
		if err := h.chatService.AppendExchange(r.Context(), userID, chatID, message, reply); err != nil {
			utils.RespondWithError(w, statusForError(err), err.Error())
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"role":    models.RoleAssistant,
		"content": reply,
	})
}
