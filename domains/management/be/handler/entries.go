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

func (h *Handler) entryRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listEntries)
	r.Post("/", h.createEntry)
	r.Get("/{entryID}", h.getEntry)
	r.Put("/{entryID}", h.updateEntry)
	r.Delete("/{entryID}", h.deleteEntry)
	return r
}

type entryResponse struct {
	ID        uuid.UUID  `json:"id"`
	MemberID  uuid.UUID  `json:"member_id"`
	EntryTime time.Time  `json:"entry_time"`
	ExitTime  *time.Time `json:"exit_time"`
}

func toEntryResponse(e service.MemberEntry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		MemberID:  e.MemberID,
		EntryTime: e.EntryTime,
		ExitTime:  e.ExitTime,
	}
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.Entries.List(r.Context(), th)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toEntryResponse(e))
	}
	web.WriteJSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	body, ok := h.validBody(w, r, "entry_create")
	if !ok {
		return
	}

	var req struct {
		MemberID  uuid.UUID `json:"member_id"`
		EntryTime *string   `json:"entry_time"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	input := service.CreateEntryInput{MemberID: req.MemberID}
	if req.EntryTime != nil {
		t, ok := parseTimestamp(w, "entry_time", *req.EntryTime)
		if !ok {
			return
		}
		input.EntryTime = &t
	}

	entry, err := h.svc.Entries.Create(r.Context(), th, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "entryID")
	if !ok {
		return
	}

	entry, err := h.svc.Entries.Get(r.Context(), th, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "entryID")
	if !ok {
		return
	}
	body, ok := h.validBody(w, r, "entry_update")
	if !ok {
		return
	}

	var req struct {
		ExitTime string `json:"exit_time"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	exit, ok := parseTimestamp(w, "exit_time", req.ExitTime)
	if !ok {
		return
	}

	entry, err := h.svc.Entries.Update(r.Context(), th, id, service.UpdateEntryInput{ExitTime: &exit})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "entryID")
	if !ok {
		return
	}

	if err := h.svc.Entries.Delete(r.Context(), th, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
