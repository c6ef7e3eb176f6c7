package session

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"bookshelf/internal/httpx"
)

type HTTPHandler struct {
	gate *Gate
}

func NewHTTPHandler(gate *Gate) *HTTPHandler {
	return &HTTPHandler{gate: gate}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /session", h.Current)
	mux.HandleFunc("POST /session/login", h.Login)
	mux.HandleFunc("POST /session/signup", h.Signup)
	mux.HandleFunc("POST /session/guest", h.Guest)
	mux.HandleFunc("POST /session/logout", h.Logout)
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupReq struct {
	Username string `json:"username" validate:"max=100"`
	Email    string `json:"email" validate:"max=320"`
	Phone    string `json:"phone" validate:"max=50"`
	Password string `json:"password" validate:"max=1024"`
}

func stateBody(state State, notice string) map[string]any {
	body := map[string]any{"session": state}
	if notice != "" {
		body["notice"] = notice
	}
	return body
}

func (h *HTTPHandler) transitionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrInvalidTransition) {
		httpx.JSONError(w, r, http.StatusConflict, "INVALID_TRANSITION", "Action not allowed in the current session", nil)
		return
	}
	log.Printf("session transition failed request_id=%s error=%v", httpx.RequestIDFrom(r), err)
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

// Current handles GET /session
func (h *HTTPHandler) Current(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, stateBody(h.gate.Current(), ""), nil)
}

// Login handles POST /session/login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	state, notice, err := h.gate.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", notice, nil)
			return
		}
		h.transitionError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, stateBody(state, notice), nil)
}

// Signup handles POST /session/signup
func (h *HTTPHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	state, notice, err := h.gate.Signup(r.Context(), Signup(req))
	if err != nil {
		h.transitionError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, stateBody(state, notice), nil)
}

// Guest handles POST /session/guest
func (h *HTTPHandler) Guest(w http.ResponseWriter, r *http.Request) {
	state, err := h.gate.ChooseGuest(r.Context())
	if err != nil {
		h.transitionError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, stateBody(state, ""), nil)
}

// Logout handles POST /session/logout
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	state, err := h.gate.Logout(r.Context())
	if err != nil {
		h.transitionError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, stateBody(state, ""), nil)
}
