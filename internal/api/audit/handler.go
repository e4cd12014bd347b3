package audit

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/ragdesk/answer-backend/internal/entity"
	"github.com/ragdesk/answer-backend/internal/pkg/formatter"
	"github.com/ragdesk/answer-backend/internal/pkg/logger"
	"github.com/ragdesk/answer-backend/internal/pkg/response"
	"github.com/ragdesk/answer-backend/internal/pkg/validator"
)

type Handler struct {
	usecase    AuditUsecase
	validator  *validator.Validator
	formatters *formatter.Factory
}

func NewHandler(usecase AuditUsecase, validator *validator.Validator, formatters *formatter.Factory) *Handler {
	return &Handler{
		usecase:    usecase,
		validator:  validator,
		formatters: formatters,
	}
}

// ListRecords handles GET /v1/answers/audit
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListAuditRecords")

	filter, err := filterFromQuery(r)
	if err != nil {
		ctxzap.Warn(ctx, "invalid audit filter", zap.Error(err))
		response.DomainError(w, err, err.Error())
		return
	}

	if err := h.validator.ValidateAuditFilter(&filter); err != nil {
		ctxzap.Warn(ctx, "audit filter validation failed", zap.Error(err))
		response.DomainError(w, err, err.Error())
		return
	}

	records, err := h.usecase.List(ctx, filter)
	if err != nil {
		ctxzap.Error(ctx, "failed to list audit records", zap.Error(err))
		response.DomainError(w, err, "failed to list audit records")
		return
	}

	ctxzap.Info(ctx, "audit records listed", zap.Int("count", len(records)))
	response.Success(w, &listResponse{Records: records})
}

// DownloadReport handles GET /v1/answers/audit/report
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DownloadAuditReport")

	format := entity.ReportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}
	if err := h.validator.ValidateReportFormat(format); err != nil {
		ctxzap.Warn(ctx, "invalid report format", zap.Error(err))
		response.DomainError(w, err, err.Error())
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		ctxzap.Warn(ctx, "invalid audit filter", zap.Error(err))
		response.DomainError(w, err, err.Error())
		return
	}
	if err := h.validator.ValidateAuditFilter(&filter); err != nil {
		ctxzap.Warn(ctx, "audit filter validation failed", zap.Error(err))
		response.DomainError(w, err, err.Error())
		return
	}

	report, err := h.usecase.Report(ctx, filter)
	if err != nil {
		ctxzap.Error(ctx, "failed to build audit report", zap.Error(err))
		response.DomainError(w, err, "failed to build audit report")
		return
	}

	f, err := h.formatters.Create(format)
	if err != nil {
		ctxzap.Error(ctx, "failed to create formatter", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := f.Format(report)
	if err != nil {
		ctxzap.Error(ctx, "failed to format report", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to format report")
		return
	}

	filename := fmt.Sprintf("audit-report-%s.%s", time.Now().Format("2006-01-02"), f.FileExtension())

	ctxzap.Info(ctx, "audit report downloaded",
		zap.String("format", string(format)),
		zap.Int("record_count", len(report.Records)),
		zap.Int("size_bytes", len(data)),
	)

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type listResponse struct {
	Records []entity.AuditRecord `json:"records"`
}

func filterFromQuery(r *http.Request) (entity.AuditFilter, error) {
	q := r.URL.Query()

	filter := entity.AuditFilter{
		SessionID:  q.Get("session_id"),
		Kind:       entity.QueryKind(q.Get("kind")),
		Complexity: entity.Complexity(q.Get("complexity")),
		OnlyErrors: q.Get("only_errors") == "true",
	}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		return filter, fmt.Errorf("%w: limit", entity.ErrInvalidParameter)
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		return filter, fmt.Errorf("%w: offset", entity.ErrInvalidParameter)
	}
	if filter.Since, err = timeParam(q.Get("since")); err != nil {
		return filter, fmt.Errorf("%w: since must be RFC 3339", entity.ErrInvalidParameter)
	}
	if filter.Until, err = timeParam(q.Get("until")); err != nil {
		return filter, fmt.Errorf("%w: until must be RFC 3339", entity.ErrInvalidParameter)
	}

	return filter, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func timeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
