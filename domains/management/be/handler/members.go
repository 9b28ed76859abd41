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

func (h *Handler) memberRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listMembers)
	r.Post("/", h.createMember)
	r.Get("/{memberID}", h.getMember)
	r.Put("/{memberID}", h.updateMember)
	r.Delete("/{memberID}", h.deleteMember)
	return r
}

type memberResponse struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phone_number"`
	MembershipStart string    `json:"membership_start"`
	MembershipEnd   string    `json:"membership_end"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toMemberResponse(m service.Member) memberResponse {
	return memberResponse{
		ID:              m.ID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           m.Email,
		PhoneNumber:     m.PhoneNumber,
		MembershipStart: m.MembershipStart.Format(dateLayout),
		MembershipEnd:   m.MembershipEnd.Format(dateLayout),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}

	members, err := h.svc.Members.List(r.Context(), th)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items := make([]memberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, toMemberResponse(m))
	}
	web.WriteJSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) createMember(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	body, ok := h.validBody(w, r, "member_create")
	if !ok {
		return
	}

	var req struct {
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		Email           string `json:"email"`
		PhoneNumber     string `json:"phone_number"`
		MembershipStart string `json:"membership_start"`
		MembershipEnd   string `json:"membership_end"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	start, ok := parseDate(w, "membership_start", req.MembershipStart)
	if !ok {
		return
	}
	end, ok := parseDate(w, "membership_end", req.MembershipEnd)
	if !ok {
		return
	}

	member, err := h.svc.Members.Create(r.Context(), th, service.CreateMemberInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		MembershipStart: start,
		MembershipEnd:   end,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusCreated, toMemberResponse(member))
}

func (h *Handler) getMember(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "memberID")
	if !ok {
		return
	}

	member, err := h.svc.Members.Get(r.Context(), th, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, toMemberResponse(member))
}

func (h *Handler) updateMember(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "memberID")
	if !ok {
		return
	}
	body, ok := h.validBody(w, r, "member_update")
	if !ok {
		return
	}

	var req struct {
		FirstName       *string `json:"first_name"`
		LastName        *string `json:"last_name"`
		Email           *string `json:"email"`
		PhoneNumber     *string `json:"phone_number"`
		MembershipStart *string `json:"membership_start"`
		MembershipEnd   *string `json:"membership_end"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	input := service.UpdateMemberInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
	if req.MembershipStart != nil {
		start, ok := parseDate(w, "membership_start", *req.MembershipStart)
		if !ok {
			return
		}
		input.MembershipStart = &start
	}
	if req.MembershipEnd != nil {
		end, ok := parseDate(w, "membership_end", *req.MembershipEnd)
		if !ok {
			return
		}
		input.MembershipEnd = &end
	}

	member, err := h.svc.Members.Update(r.Context(), th, id, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, toMemberResponse(member))
}

func (h *Handler) deleteMember(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "memberID")
	if !ok {
		return
	}

	if err := h.svc.Members.Delete(r.Context(), th, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
