package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gradepulse/internal/errors"
	"gradepulse/internal/services"
	"gradepulse/pkg/contracts/domain"
)

// RefreshNotifier is told when a refresh produced a new snapshot, so
// connected dashboard clients can re-fetch.
type RefreshNotifier interface {
	NotifyRefreshed(status services.Status)
}

// AnalyticsHandler serves the dashboard API: summary statistics, filtered
// student lists, charts, downloads and refresh.
type AnalyticsHandler struct {
	service        *services.AnalyticsService
	transformedCSV string
	notifier       RefreshNotifier
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates the handler. notifier may be nil.
func NewAnalyticsHandler(service *services.AnalyticsService, transformedCSV string, notifier RefreshNotifier, logger *slog.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsHandler{
		service:        service,
		transformedCSV: transformedCSV,
		notifier:       notifier,
		logger:         logger.With(slog.String("component", "analytics_handler")),
		errorHandler:   apierrors.NewErrorHandler(logger),
	}
}

// Routes returns the analytics API routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/students", h.GetStudents)
	r.Get("/top-performers", h.GetTopPerformers)
	r.Get("/charts", h.GetCharts)
	r.Get("/charts/{chart}", h.GetChart)
	r.Get("/download/transformed", h.DownloadTransformed)
	r.Post("/refresh", h.Refresh)

	return r
}

// GetSummary returns the aggregate statistics of the current snapshot.
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// studentsResponse wraps a student list with its count and the filter that
// produced it.
type studentsResponse struct {
	Count    int                    `json:"count"`
	Filter   map[string]string      `json:"filter,omitempty"`
	Students []domain.StudentRecord `json:"students"`
}

// GetStudents returns transformed records, filtered by the optional
// grade_level, letter_grade and performance query parameters. Set filters
// combine with AND.
func (h *AnalyticsHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	filter := services.StudentFilter{
		GradeLevel:  r.URL.Query().Get("grade_level"),
		LetterGrade: r.URL.Query().Get("letter_grade"),
		Performance: r.URL.Query().Get("performance"),
	}

	students, err := h.service.Students(filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := studentsResponse{Count: len(students), Students: students}
	applied := map[string]string{}
	if filter.GradeLevel != "" {
		applied["grade_level"] = filter.GradeLevel
	}
	if filter.LetterGrade != "" {
		applied["letter_grade"] = filter.LetterGrade
	}
	if filter.Performance != "" {
		applied["performance"] = filter.Performance
	}
	if len(applied) > 0 {
		resp.Filter = applied
	}

	render.JSON(w, r, resp)
}

// GetTopPerformers returns the n best students by overall average. The
// limit query parameter defaults to 10.
func (h *AnalyticsHandler) GetTopPerformers(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	students, err := h.service.TopPerformers(limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, studentsResponse{Count: len(students), Students: students})
}

// GetCharts returns every chart of the current snapshot.
func (h *AnalyticsHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	charts, err := h.service.Charts()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, charts)
}

// GetChart returns one chart by name.
func (h *AnalyticsHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "chart")
	c, err := h.service.Chart(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, c)
}

// DownloadTransformed streams the transformed dataset CSV.
func (h *AnalyticsHandler) DownloadTransformed(w http.ResponseWriter, r *http.Request) {
	// The file exists only after a successful run.
	if _, err := h.service.Summary(); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transformed_grades.csv"`)
	http.ServeFile(w, r, h.transformedCSV)
}

// refreshResponse reports the outcome of a refresh run.
type refreshResponse struct {
	RunID    string   `json:"run_id"`
	Students int      `json:"students"`
	Warnings []string `json:"warnings,omitempty"`
}

// Refresh re-runs the analysis pipeline and swaps in the new snapshot.
func (h *AnalyticsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Refresh(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if h.notifier != nil {
		h.notifier.NotifyRefreshed(h.service.Status())
	}

	render.JSON(w, r, refreshResponse{
		RunID:    result.RunID,
		Students: result.Summary.TotalStudents,
		Warnings: result.Warnings,
	})
}
