package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"allo/internal/services"
	"allo/internal/utils"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatTitleRequest struct {
	Title string `json:"title"`
}

func chatIDFromRequest(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["chatId"])
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req chatTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for CreateChat")
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	chat, err := h.chatService.CreateChat(r.Context(), userID, req.Title)
	if err != nil {
		utils.RespondWithError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "chat": chat})
}

func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	chats, err := h.chatService.ListChats(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "chats": chats})
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	chatID, ok := chatIDFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "chat not found")
		return
	}

	chat, messages, err := h.chatService.GetChat(r.Context(), userID, chatID)
	if err != nil {
		utils.RespondWithError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"chat":     chat,
		"messages": messages,
	})
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	chatID, ok := chatIDFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "chat not found")
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), userID, chatID); err != nil {
		utils.RespondWithError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Chat deleted successfully",
	})
}

func (h *ChatHandler) UpdateChatTitle(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	chatID, ok := chatIDFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "chat not found")
		return
	}

	var req chatTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for UpdateChatTitle")
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	chat, err := h.chatService.RenameChat(r.Context(), userID, chatID, req.Title)
	if err != nil {
		utils.RespondWithError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "chat": chat})
}
