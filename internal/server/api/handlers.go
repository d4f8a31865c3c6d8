package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/snapline/internal/common"
	"github.com/dmitrijs2005/snapline/internal/models"
)

// maxSnapBytes caps the in-memory part of a multipart snap upload.
const maxSnapBytes = 10 << 20

// UserService is the account surface the handlers need.
type UserService interface {
	TokenValidator
	Register(ctx context.Context, username, email, name, password string) (string, models.User, error)
	Login(ctx context.Context, login, password string) (string, models.User, error)
	Logout(ctx context.Context, tokenID string) error
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	Friends(ctx context.Context, userID string) ([]models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// SnapService is the photo-upload surface the handlers need.
type SnapService interface {
	Upload(ctx context.Context, ownerID, caption string, image []byte, contentType string) (models.Snap, error)
}

type Handler struct {
	users UserService
	snaps SnapService
}

func NewHandler(users UserService, snaps SnapService) *Handler {
	return &Handler{users: users, snaps: snaps}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

type otpRequest struct {
	Email string `json:"email"`
}

type otpResetRequest struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondFail(w, http.StatusBadRequest, "username, email, and password are required")
		return
	}

	token, user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Name, req.Password)
	if err != nil {
		serviceError(w, err)
		return
	}
	respondOK(w, authResponse{Token: token, User: user})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, user, err := h.users.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		serviceError(w, err)
		return
	}
	respondOK(w, authResponse{Token: token, User: user})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context(), tokenIDFrom(r.Context())); err != nil {
		serviceError(w, err)
		return
	}
	respondOK(w, nil)
}

func (h *Handler) emailExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.users.EmailExists(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		serviceError(w, err)
		return
	}
	respondOK(w, existsResponse{Exists: exists})
}

func (h *Handler) usernameExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.users.UsernameExists(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		serviceError(w, err)
		return
	}
	respondOK(w, existsResponse{Exists: exists})
}

func (h *Handler) otpRequest(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.users.RequestPasswordReset(r.Context(), req.Email); err != nil {
		serviceError(w, err)
		return
	}
	respondOK(w, nil)
}

func (h *Handler) otpReset(w http.ResponseWriter, r *http.Request) {
	var req otpResetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.users.ResetPassword(r.Context(), req.Email, req.OTP, req.Password); err != nil {
		serviceError(w, err)
		return
	}
	respondOK(w, nil)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	respondOK(w, map[string]any{"user": user})
}

func (h *Handler) friends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.users.Friends(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}
	if friends == nil {
		friends = []models.User{}
	}
	respondOK(w, map[string]any{"friends": friends})
}

func (h *Handler) uploadSnap(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSnapBytes); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondFail(w, http.StatusBadRequest, "image part is required")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		respondFail(w, http.StatusBadRequest, "unreadable image part")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	snap, err := h.snaps.Upload(r.Context(), userIDFrom(r.Context()),
		r.FormValue("caption"), image, contentType)
	if err != nil {
		serviceError(w, err)
		return
	}
	respondOK(w, map[string]any{"snap": snap})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// serviceError maps domain errors onto logical envelope codes. The HTTP
// status stays 200: only the auth middleware speaks transport-level errors.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		respondFail(w, http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		respondFail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrorInvalidCredentials):
		respondFail(w, http.StatusUnauthorized, "invalid credentials")
	default:
		respondFail(w, http.StatusInternalServerError, "internal error")
	}
}
