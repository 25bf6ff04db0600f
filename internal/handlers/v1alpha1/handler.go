package v1alpha1

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	api "github.com/blue-collar-job-portal/moderation/api/v1alpha1"
	"github.com/blue-collar-job-portal/moderation/internal/auth"
	"github.com/blue-collar-job-portal/moderation/internal/handlers/validator"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/ratelimit"
	"github.com/blue-collar-job-portal/moderation/internal/service"
	"github.com/blue-collar-job-portal/moderation/pkg/log"
	"github.com/blue-collar-job-portal/moderation/pkg/requestid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/thoas/go-funk"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type ServiceHandler struct {
	jobService     *service.JobModerationService
	appealService  *service.AppealService
	companyService *service.CompanyService
	reportService  *service.ReportService
	auditService   *service.AuditService
	reportLimiter  ratelimit.Limiter
	validator      *validator.Validator
	logger         *log.Builder
}

func NewServiceHandler(
	jobService *service.JobModerationService,
	appealService *service.AppealService,
	companyService *service.CompanyService,
	reportService *service.ReportService,
	auditService *service.AuditService,
	reportLimiter ratelimit.Limiter,
) *ServiceHandler {
	if reportLimiter == nil {
		reportLimiter = ratelimit.NoopLimiter{}
	}

	v := validator.NewValidator()
	v.Register(validator.NewValidationRules()...)

	return &ServiceHandler{
		jobService:     jobService,
		appealService:  appealService,
		companyService: companyService,
		reportService:  reportService,
		auditService:   auditService,
		reportLimiter:  reportLimiter,
		validator:      v,
		logger:         log.NewDebugLogger("moderation_handler"),
	}
}

// Routes mounts the moderation api on r. The operator must already be in the request context.
func (h *ServiceHandler) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireRole(moderation.RoleAdmin))

			r.Get("/jobs/{id}", h.GetJob)
			r.Get("/jobs/{id}/audit", h.ListJobAudit)
			r.Post("/jobs/{id}/approve", h.ApproveJob)
			r.Post("/jobs/{id}/reject", h.RejectJob)
			r.Post("/jobs/{id}/suspend", h.SuspendJob)
			r.Post("/jobs/{id}/delete", h.DeleteJob)

			r.Get("/appeals", h.ListAppeals)
			r.Get("/appeals/{id}", h.GetAppeal)
			r.Post("/appeals/{id}/start-review", h.StartAppealReview)
			r.Post("/appeals/{id}/review", h.ReviewAppeal)

			r.Get("/companies/{id}", h.GetCompany)
			r.Post("/companies/{id}/disable", h.DisableCompany)
			r.Post("/companies/{id}/enable", h.EnableCompany)
			r.Post("/companies/{id}/verify", h.VerifyCompany)

			r.Get("/reports", h.ListReports)
			r.Get("/reports/{id}", h.GetReport)
			r.Post("/reports/{id}/dismiss", h.DismissReport)

			r.Get("/audit", h.ListAudit)
		})

		r.Post("/jobs/{id}/appeals", h.CreateAppeal)
		r.Get("/jobs/{id}/appeals", h.ListJobAppeals)

		r.Post("/reports", h.CreateReport)

		r.Post("/internal/jobs/{id}/screening-rejection", h.ApplyScreeningRejection)
	})
}

func requireRole(role moderation.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op, found := auth.OperatorFromContext(r.Context())
			if !found || op.Require(role) != nil {
				renderError(w, r, service.NewErrForbidden(op, "use the "+string(role)+" api"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch err.(type) {
	case *service.ErrResourceNotFound:
		status = http.StatusNotFound
	case *service.ErrInvalidTransition, *service.ErrConcurrentTransition, *service.ErrAlreadyReviewed, *service.ErrAppealAlreadyOpen:
		status = http.StatusConflict
	case *service.ErrForbidden:
		status = http.StatusForbidden
	case *service.ErrInvalidArgument, *service.ErrReportTargetMismatch, *validator.ErrInvalidRequest:
		status = http.StatusBadRequest
	case *errTooManyRequests:
		status = http.StatusTooManyRequests
	}

	render.Status(r, status)
	render.JSON(w, r, api.Error{Message: err.Error(), RequestId: requestid.FromContextPtr(r.Context())})
}

func renderOK(w http.ResponseWriter, r *http.Request, status int, body any) {
	render.Status(r, status)
	render.JSON(w, r, body)
}

type errTooManyRequests struct {
	error
}

// decode reads the json body into dst and validates it. An empty body decodes to dst's zero value.
func (h *ServiceHandler) decode(r *http.Request, dst any) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil && !errors.Is(err, io.EOF) {
		return validator.NewErrInvalidRequest("failed to decode request body: %s", err)
	}
	return h.validator.Struct(dst)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, validator.NewErrInvalidRequest("invalid id %q", raw)
	}
	return id, nil
}

func queryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, validator.NewErrInvalidRequest("invalid %s %q", key, raw)
	}
	return &id, nil
}

// queryList reads a comma separated or repeated query parameter, checking every value against allowed.
func queryList(r *http.Request, key string, allowed []string) ([]string, error) {
	var values []string
	for _, v := range r.URL.Query()[key] {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(strings.ToUpper(item)); item != "" {
				values = append(values, item)
			}
		}
	}
	values = funk.UniqString(values)

	if invalid := funk.SubtractString(values, allowed); len(invalid) > 0 {
		return nil, validator.NewErrInvalidRequest("invalid %s: %s", key, strings.Join(invalid, ", "))
	}
	return values, nil
}

func queryPage(r *http.Request) (limit, offset int, err error) {
	limit, offset = defaultPageSize, 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 || limit > maxPageSize {
			return 0, 0, validator.NewErrInvalidRequest("limit must be between 1 and %d", maxPageSize)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil || offset < 0 {
			return 0, 0, validator.NewErrInvalidRequest("offset must be a positive number")
		}
	}
	return limit, offset, nil
}
