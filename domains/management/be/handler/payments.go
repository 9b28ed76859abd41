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

func (h *Handler) paymentRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listPayments)
	r.Post("/", h.createPayment)
	r.Get("/{paymentID}", h.getPayment)
	r.Put("/{paymentID}", h.updatePayment)
	r.Delete("/{paymentID}", h.deletePayment)
	return r
}

type paymentResponse struct {
	ID            uuid.UUID `json:"id"`
	MemberID      uuid.UUID `json:"member_id"`
	Amount        string    `json:"amount"`
	PaymentDate   string    `json:"payment_date"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toPaymentResponse(p service.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		MemberID:      p.MemberID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate.Format(dateLayout),
		PaymentMethod: p.PaymentMethod,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}

	payments, err := h.svc.Payments.List(r.Context(), th)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, toPaymentResponse(p))
	}
	web.WriteJSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	body, ok := h.validBody(w, r, "payment_create")
	if !ok {
		return
	}

	var req struct {
		MemberID      uuid.UUID `json:"member_id"`
		Amount        string    `json:"amount"`
		PaymentDate   string    `json:"payment_date"`
		PaymentMethod string    `json:"payment_method"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	date, ok := parseDate(w, "payment_date", req.PaymentDate)
	if !ok {
		return
	}

	payment, err := h.svc.Payments.Create(r.Context(), th, service.CreatePaymentInput{
		MemberID:      req.MemberID,
		Amount:        req.Amount,
		PaymentDate:   date,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "paymentID")
	if !ok {
		return
	}

	payment, err := h.svc.Payments.Get(r.Context(), th, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "paymentID")
	if !ok {
		return
	}
	body, ok := h.validBody(w, r, "payment_update")
	if !ok {
		return
	}

	var req struct {
		MemberID      *uuid.UUID `json:"member_id"`
		Amount        *string    `json:"amount"`
		PaymentDate   *string    `json:"payment_date"`
		PaymentMethod *string    `json:"payment_method"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
		return
	}

	input := service.UpdatePaymentInput{
		MemberID:      req.MemberID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	}
	if req.PaymentDate != nil {
		date, ok := parseDate(w, "payment_date", *req.PaymentDate)
		if !ok {
			return
		}
		input.PaymentDate = &date
	}

	payment, err := h.svc.Payments.Update(r.Context(), th, id, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	th, ok := h.tenantHandle(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "paymentID")
	if !ok {
		return
	}

	if err := h.svc.Payments.Delete(r.Context(), th, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
