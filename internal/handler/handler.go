package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendtrack/internal/attendance"
	"attendtrack/internal/auth"
	"attendtrack/internal/metrics"
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type Handler struct {
	auth         Authenticator
	svc          *attendance.Service
	metrics      *metrics.Metrics
	hideInternal bool
}

// New builds the handler. When hideInternal is set, 500 responses carry a
// generic message instead of the underlying error text.
func New(a Authenticator, svc *attendance.Service, m *metrics.Metrics, hideInternal bool) *Handler {
	if m == nil {
		m = metrics.New()
	}
	return &Handler{auth: a, svc: svc, metrics: m, hideInternal: hideInternal}
}

// ---------- Login ----------

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		h.metrics.LoginAttempts.WithLabelValues("success").Inc()
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.metrics.LoginAttempts.WithLabelValues("invalid").Inc()
	default:
		h.metrics.LoginAttempts.WithLabelValues("error").Inc()
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ---------- Entities ----------

func (h *Handler) ListDepartments(c *gin.Context) { list(h, c, h.svc.ListDepartments) }
func (h *Handler) CreateDepartment(c *gin.Context) {
	create(h, c, "department", h.svc.CreateDepartment)
}

func (h *Handler) ListStudents(c *gin.Context) { list(h, c, h.svc.ListStudents) }
func (h *Handler) CreateStudent(c *gin.Context) {
	create(h, c, "student", h.svc.CreateStudent)
}

func (h *Handler) ListCourses(c *gin.Context) { list(h, c, h.svc.ListCourses) }
func (h *Handler) CreateCourse(c *gin.Context) {
	create(h, c, "course", h.svc.CreateCourse)
}

func (h *Handler) ListAttendance(c *gin.Context) { list(h, c, h.svc.ListAttendanceLogs) }
func (h *Handler) RecordAttendance(c *gin.Context) {
	create(h, c, "attendance_log", h.svc.RecordAttendance)
}

func list[T any](h *Handler, c *gin.Context, fetch func(context.Context) ([]T, error)) {
	rows, err := fetch(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	c.JSON(http.StatusOK, rows)
}

// create decodes the payload into In and stamps the caller from the token.
func create[In any](h *Handler, c *gin.Context, entity string, insert func(context.Context, In, string) (int64, error)) {
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	id, err := insert(c.Request.Context(), in, auth.Identity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.metrics.RecordsCreated.WithLabelValues(entity).Inc()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}
