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

func (h *Handler) trainerRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listTrainers)
	r.Post("/", h.createTrainer)
	r.Get("/{trainerID}", h.getTrainer)
	r.Put("/{trainerID}", h.updateTrainer)
	r.Delete("/{trainerID}", h.deleteTrainer)
	return r
}

type trainerResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Specialty   string    `json:"specialty"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTrainerResponse(t service.Trainer) trainerResponse {
	return trainerResponse{
		ID:          t.ID,
		Name:        t.Name,
		Specialty:   t.Specialty,
		Email:       t.Email,
		PhoneNumber: t.PhoneNumber,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *Handler) listTrainers(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}

	trainers, err := h.svc.Trainers.List(r.Context(), th)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items := make([]trainerResponse, 0, len(trainers))
	for _, t := range trainers {
		items = append(items, toTrainerResponse(t))
	}
	web.WriteJSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) createTrainer(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	body, ok := h.validBody(w, r, "trainer_create")
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Specialty   string `json:"specialty"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	trainer, err := h.svc.Trainers.Create(r.Context(), th, service.CreateTrainerInput{
		Name:        req.Name,
		Specialty:   req.Specialty,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusCreated, toTrainerResponse(trainer))
}

func (h *Handler) getTrainer(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "trainerID")
	if !ok {
		return
	}

	trainer, err := h.svc.Trainers.Get(r.Context(), th, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, toTrainerResponse(trainer))
}

func (h *Handler) updateTrainer(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "trainerID")
	if !ok {
		return
	}
	body, ok := h.validBody(w, r, "trainer_update")
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Specialty   *string `json:"specialty"`
		Email       *string `json:"email"`
		PhoneNumber *string `json:"phone_number"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	trainer, err := h.svc.Trainers.Update(r.Context(), th, id, service.UpdateTrainerInput{
		Name:        req.Name,
		Specialty:   req.Specialty,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, toTrainerResponse(trainer))
}

func (h *Handler) deleteTrainer(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "trainerID")
	if !ok {
		return
	}

	if err := h.svc.Trainers.Delete(r.Context(), th, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
