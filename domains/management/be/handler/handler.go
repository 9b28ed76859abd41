package handler

import (
	"embed"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fitstack/gymgate/domains/management/be/service"
	"github.com/fitstack/gymgate/platform/go/logging"
	"github.com/fitstack/gymgate/platform/go/tenant"
	"github.com/fitstack/gymgate/platform/go/validation"
	"github.com/fitstack/gymgate/platform/go/web"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const dateLayout = "2006-01-02"

func newValidator() *validation.Validator {
	return validation.NewValidator(map[string]string{
		"member_create":  mustSchema("schemas/member_create.json"),
		"member_update":  mustSchema("schemas/member_update.json"),
		"trainer_create": mustSchema("schemas/trainer_create.json"),
		"trainer_update": mustSchema("schemas/trainer_update.json"),
		"class_create":   mustSchema("schemas/class_create.json"),
		"class_update":   mustSchema("schemas/class_update.json"),
		"payment_create": mustSchema("schemas/payment_create.json"),
		"payment_update": mustSchema("schemas/payment_update.json"),
		"entry_create":   mustSchema("schemas/entry_create.json"),
		"entry_update":   mustSchema("schemas/entry_update.json"),
	})
}

func mustSchema(path string) string {
	data, err := schemaFS.ReadFile(path)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Handler serves the gym-scoped management endpoints. Every route expects the
// gym middleware to have placed a tenant.Handle on the request context.
type Handler struct {
	svc       *service.Service
	validator *validation.Validator
	logger    *zap.Logger
}

// New constructs a Handler instance.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("management service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, validator: newValidator(), logger: logger}
}

// Routes wires the five entity sub-routers.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Mount("/members", h.memberRoutes())
	r.Mount("/trainers", h.trainerRoutes())
	r.Mount("/classes", h.classRoutes())
	r.Mount("/payments", h.paymentRoutes())
	r.Mount("/entries", h.entryRoutes())
	return r
}

func (h *Handler) tenantHandle(w http.ResponseWriter, r *http.Request) (tenant.Handle, bool) {
	th, ok := tenant.FromContext(r.Context())
	if !ok {
		// only reachable when a route was mounted without the gym middleware
		logging.FromRequest(r, h.logger).Error("request reached tenant route without gym handle")
		web.WriteProblem(w, http.StatusInternalServerError, web.ProblemTypeInternal, "Internal error", "")
		return tenant.Handle{}, false
	}
	return th, true
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

func urlID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid id", param+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(w http.ResponseWriter, field, value string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", field+" must be a YYYY-MM-DD date")
		return time.Time{}, false
	}
	return t, true
}

func parseTimestamp(w http.ResponseWriter, field, value string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", field+" must be an RFC 3339 timestamp")
		return time.Time{}, false
	}
	return t, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		web.WriteProblem(w, http.StatusNotFound, web.ProblemTypeNotFound, "Record not found", "")
	case errors.Is(err, service.ErrDuplicateEmail):
		web.WriteProblem(w, http.StatusConflict, web.ProblemTypeConflict, "Email already exists in this gym", "")
	case errors.Is(err, service.ErrInvalidReference):
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid reference", "referenced record does not exist in this gym")
	case errors.Is(err, service.ErrInvalidInput):
		web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation, "Invalid request body", err.Error())
	default:
		logging.FromRequest(r, h.logger).Error("management handler error", zap.Error(err))
		web.WriteProblem(w, http.StatusInternalServerError, web.ProblemTypeInternal, "Internal error", "")
	}
}
