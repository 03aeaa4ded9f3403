package ws

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"orbit-gateway/domain"
	"orbit-gateway/errors"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type notifyRequest struct {
	UserID  string      `json:"user_id"`
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Refs    domain.Refs `json:"refs"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	token, err := s.auth.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case stderrors.Is(err, errors.ErrUserAlreadyExists):
			http.Error(w, "email already registered", http.StatusConflict)
		case stderrors.Is(err, errors.ErrInvalidPassword):
			http.Error(w, "invalid email or weak password", http.StatusBadRequest)
		default:
			s.log.Error("Registration failed", "error", err)
			http.Error(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: string(token)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: string(token)})
}

// handleNotify is the inbound edge for business events (comments, likes,
// follows, reports). The notification is persisted before the push, so a
// target user with zero live connections still finds it later.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	notification, err := s.notifications.Notify(req.UserID, domain.NotificationType(req.Type),
		req.Content, req.Refs)
	if err != nil {
		switch {
		case stderrors.Is(err, errors.ErrInvalidEvent):
			http.Error(w, "invalid notification", http.StatusBadRequest)
		default:
			s.log.Error("Notification intake failed", "error", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		}
		return
	}
	writeJSON(w, http.StatusAccepted, toNotificationDTO(notification))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
