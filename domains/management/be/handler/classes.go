package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fitstack/gymgate/domains/management/be/service"
	"github.com/fitstack/gymgate/platform/go/web"
)

func (h *Handler) classRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listClasses)
	r.Post("/", h.createClass)
	r.Get("/{classID}", h.getClass)
	r.Put("/{classID}", h.updateClass)
	r.Delete("/{classID}", h.deleteClass)
	return r
}

type classResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TrainerID uuid.UUID `json:"trainer_id"`
	MemberID  uuid.UUID `json:"member_id"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toClassResponse(c service.GymClass) classResponse {
	return classResponse{
		ID:        c.ID,
		Name:      c.Name,
		TrainerID: c.TrainerID,
		MemberID:  c.MemberID,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (h *Handler) listClasses(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}

	classes, err := h.svc.Classes.List(r.Context(), th)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items := make([]classResponse, 0, len(classes))
	for _, c := range classes {
		items = append(items, toClassResponse(c))
	}
	web.WriteJSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) createClass(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	body, ok := h.validBody(w, r, "class_create")
	if !ok {
		return
	}

	var req struct {
		Name      string    `json:"name"`
		TrainerID uuid.UUID `json:"trainer_id"`
		MemberID  uuid.UUID `json:"member_id"`
		StartTime string    `json:"start_time"`
		EndTime   string    `json:"end_time"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	class, err := h.svc.Classes.Create(r.Context(), th, service.CreateClassInput{
		Name:      req.Name,
		TrainerID: req.TrainerID,
		MemberID:  req.MemberID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusCreated, toClassResponse(class))
}

func (h *Handler) getClass(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "classID")
	if !ok {
		return
	}

	class, err := h.svc.Classes.Get(r.Context(), th, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, toClassResponse(class))
}

func (h *Handler) updateClass(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "classID")
	if !ok {
		return
	}
	body, ok := h.validBody(w, r, "class_update")
	if !ok {
		return
	}

	var req struct {
		Name      *string    `json:"name"`
		TrainerID *uuid.UUID `json:"trainer_id"`
		MemberID  *uuid.UUID `json:"member_id"`
		StartTime *string    `json:"start_time"`
		EndTime   *string    `json:"end_time"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	class, err := h.svc.Classes.Update(r.Context(), th, id, service.UpdateClassInput{
		Name:      req.Name,
		TrainerID: req.TrainerID,
		MemberID:  req.MemberID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, toClassResponse(class))
}

func (h *Handler) deleteClass(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "classID")
	if !ok {
		return
	}

	if err := h.svc.Classes.Delete(r.Context(), th, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
