package handler

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fitstack/gymgate/domains/accounts/be/service"
	"github.com/fitstack/gymgate/platform/go/logging"
	"github.com/fitstack/gymgate/platform/go/validation"
	"github.com/fitstack/gymgate/platform/go/web"
)

//go:embed schemas/*.json
var schemaFS embed.FS

func newValidator() *validation.Validator {
	return validation.NewValidator(map[string]string{
		"register": mustSchema("schemas/register.json"),
		"login":    mustSchema("schemas/login.json"),
		"refresh":  mustSchema("schemas/refresh.json"),
	})
}

func mustSchema(path string) string {
	data, err := schemaFS.ReadFile(path)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Handler exposes registration and token endpoints. Token verification for
// resource routes lives in platform auth middleware; this handler only mints.
type Handler struct {
	svc       *service.Service
	validator *validation.Validator
	logger    *zap.Logger
}

// New constructs a Handler instance.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("accounts service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, validator: newValidator(), logger: logger}
}

// PublicRoutes returns the unauthenticated auth endpoints.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)
	return r
}

// StaffRoutes returns the staff-only account listing endpoints.
func (h *Handler) StaffRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{userID}", h.get)
	return r
}

type userResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResponse(u service.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Phone:       u.Phone,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	body, ok := h.validBody(w, r, "register")
	if !ok {
		return
	}

	var req struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusCreated, toResponse(user))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	body, ok := h.validBody(w, r, "login")
	if !ok {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	pair, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]any{
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
		"user":    toResponse(user),
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	body, ok := h.validBody(w, r, "refresh")
	if !ok {
		return
	}

	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	pair, err := h.svc.Refresh(r.Context(), req.Refresh)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, pair)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toResponse(u))
	}
	web.WriteJSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid user id", "user id must be a UUID")
		return
	}

	user, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, toResponse(user))
}

func (h *Handler) validBody(w http.ResponseWriter, r *http.Request, schema string) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return nil, false
	}
	if err := h.validator.Validate(schema, body); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return nil, false
	}
	return body, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		web.WriteProblem(w, http.StatusNotFound, web.ProblemTypeNotFound, "User not found", "")
	case errors.Is(err, service.ErrEmailTaken):
		web.WriteProblem(w, http.StatusConflict, web.ProblemTypeConflict, "Email already registered", "")
	case errors.Is(err, service.ErrInvalidCredentials):
		web.WriteProblem(w, http.StatusUnauthorized, web.ProblemTypeUnauthorized, "Invalid credentials", "")
	default:
		logging.FromRequest(r, h.logger).Error("accounts handler error", zap.Error(err))
		web.WriteProblem(w, http.StatusInternalServerError, web.ProblemTypeInternal, "Internal error", "")
	}
}
