package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"allo/internal/models"
	"allo/internal/services"
	"allo/internal/utils"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for Register")
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		utils.RespondWithError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, models.AuthResponse{Success: true, Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for Login")
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondWithError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.AuthResponse{Success: true, Token: token, User: user})
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for SendOTP")
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.SendOTP(r.Context(), req.Email); err != nil {
		utils.RespondWithError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for VerifyOTP")
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		utils.RespondWithError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.AuthResponse{Success: true, Token: token, User: user})
}

func (h *AuthHandler) ExchangeSession(w http.ResponseWriter, r *http.Request) {
	var req models.SessionExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for ExchangeSession")
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.ExchangeSession(r.Context(), req.AccessToken)
	if err != nil {
		utils.RespondWithError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.AuthResponse{Success: true, Token: token, User: user})
}

// Logout acknowledges the request. Session tokens are stateless, so
// there is nothing to revoke server-side; the client discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
}
