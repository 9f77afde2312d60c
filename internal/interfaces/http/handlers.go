package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/entity"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/workflow"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/export"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/export/report"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/project"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/review"
)

// maxUploadBytes caps a single uploaded photo at 15 MiB
const maxUploadBytes = 15 << 20

// Handlers contains all HTTP request handlers
type Handlers struct {
	reviewService  *review.Service
	projectService *project.Service
	exportService  *export.Service
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	reviewService *review.Service,
	projectService *project.Service,
	exportService *export.Service,
	logger Logger,
) *Handlers {
	return &Handlers{
		reviewService:  reviewService,
		projectService: projectService,
		exportService:  exportService,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateProjectRequest is the payload for POST /api/projects
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
}

// ExpensePayload is one expense line in a payment request submission
type ExpensePayload struct {
	Type        string          `json:"type" binding:"required"`
	CustomLabel string          `json:"custom_label"`
	Cost        decimal.Decimal `json:"cost"`
	Remarks     string          `json:"remarks"`
	ImageIDs    []int64         `json:"image_ids"`
}

// SubmitRequestPayload is the payload for POST /api/requests
type SubmitRequestPayload struct {
	ProjectID int64            `json:"project_id" binding:"required"`
	Expenses  []ExpensePayload `json:"expenses"`
	Total     decimal.Decimal  `json:"total"`
}

// ReviewPayload carries the optional comment on review actions
type ReviewPayload struct {
	Comment string `json:"comment"`
}

// actor reads the caller's identity from request headers. Identity is
// carried explicitly on every request; nothing is read from ambient state.
func actor(c *gin.Context) (review.Actor, bool) {
	id := strings.TrimSpace(c.GetHeader("X-User-ID"))
	role := strings.ToUpper(strings.TrimSpace(c.GetHeader("X-User-Role")))
	if id == "" || role == "" {
		return review.Actor{}, false
	}
	return review.Actor{ID: id, Role: role}, true
}

func (h *Handlers) requireActor(c *gin.Context) (review.Actor, bool) {
	a, ok := actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{
			Success: false,
			Error:   "X-User-ID and X-User-Role headers are required",
		})
	}
	return a, ok
}

// writeError maps service errors onto HTTP status codes
func (h *Handlers) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.Is(err, review.ErrNotFound),
		errors.Is(err, project.ErrNotFound),
		errors.Is(err, export.ErrProjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, export.ErrEmptyExport):
		status = http.StatusNotFound
	case errors.Is(err, review.ErrRoleNotAllowed):
		status = http.StatusForbidden
	case errors.Is(err, workflow.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, review.ErrEmptyComment):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, review.ErrNoExpenses),
		errors.Is(err, entity.ErrNegativeCost),
		errors.Is(err, entity.ErrOtherLabelRequired),
		errors.Is(err, project.ErrInvalidPercentage):
		status = http.StatusBadRequest
	case errors.Is(err, report.ErrExportGeneration):
		status = http.StatusInternalServerError
		msg = "export generation failed"
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err)
		if msg == err.Error() {
			msg = "internal server error"
		}
	}

	c.JSON(status, Response{Success: false, Error: msg})
}

func (h *Handlers) writeBadRequest(c *gin.Context, err error) {
	h.logger.Error("Invalid request payload", "error", err)
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request payload"})
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// CreateProject handles POST /api/projects
func (h *Handlers) CreateProject(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBadRequest(c, err)
		return
	}

	var start time.Time
	if req.StartDate != "" {
		var err error
		start, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			h.writeBadRequest(c, err)
			return
		}
	}

	p, err := h.projectService.Create(c.Request.Context(), req.Name, a.ID, req.Description, start)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: p})
}

// ListProjects handles GET /api/projects
func (h *Handlers) ListProjects(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: projects})
}

// GetProject handles GET /api/projects/:id
func (h *Handlers) GetProject(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}
	p, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: p})
}

// AddProgress handles POST /api/projects/:id/progress (multipart form)
func (h *Handlers) AddProgress(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}

	description := c.PostForm("description")
	percentage, err := strconv.ParseFloat(c.PostForm("percentage"), 64)
	if err != nil {
		h.writeBadRequest(c, fmt.Errorf("parse percentage: %w", err))
		return
	}

	photos, err := readPhotos(form.File["photos"])
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}

	update, err := h.projectService.AddProgress(c.Request.Context(), id, a.ID, description, percentage, photos)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: update})
}

// ListProgress handles GET /api/projects/:id/progress
func (h *Handlers) ListProgress(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}
	updates, err := h.projectService.Progress(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: updates})
}

// AddFinalImages handles POST /api/projects/:id/final-images (multipart form)
func (h *Handlers) AddFinalImages(c *gin.Context) {
	if _, ok := h.requireActor(c); !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}

	photos, err := readPhotos(form.File["photos"])
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}
	if len(photos) == 0 {
		h.writeBadRequest(c, errors.New("no photos uploaded"))
		return
	}

	ids, err := h.projectService.AddFinalImages(c.Request.Context(), id, photos)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: gin.H{"image_ids": ids}})
}

// SubmitRequest handles POST /api/requests
func (h *Handlers) SubmitRequest(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req SubmitRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBadRequest(c, err)
		return
	}

	expenses := make([]*entity.Expense, 0, len(req.Expenses))
	for _, e := range req.Expenses {
		expenses = append(expenses, &entity.Expense{
			Type:        strings.ToUpper(e.Type),
			CustomLabel: e.CustomLabel,
			Cost:        e.Cost,
			Remarks:     e.Remarks,
			ImageIDs:    e.ImageIDs,
		})
	}

	request, err := h.reviewService.Submit(c.Request.Context(), req.ProjectID, a, expenses, req.Total)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: request})
}

// ListRequests handles GET /api/requests. The result set is filtered by
// the caller's role.
func (h *Handlers) ListRequests(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	requests, err := h.reviewService.ListForViewer(c.Request.Context(), a)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: requests})
}

// GetRequest handles GET /api/requests/:id
func (h *Handlers) GetRequest(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}
	request, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

// GetHistory handles GET /api/requests/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}
	history, err := h.reviewService.History(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// ApproveRequest handles POST /api/requests/:id/approve
func (h *Handlers) ApproveRequest(c *gin.Context) {
	h.reviewAction(c, func(id int64, a review.Actor, comment string) (*entity.PaymentRequest, error) {
		return h.reviewService.Approve(c.Request.Context(), id, a, comment)
	})
}

// RejectRequest handles POST /api/requests/:id/reject
func (h *Handlers) RejectRequest(c *gin.Context) {
	h.reviewAction(c, func(id int64, a review.Actor, comment string) (*entity.PaymentRequest, error) {
		return h.reviewService.Reject(c.Request.Context(), id, a, comment)
	})
}

// ScheduleRequest handles POST /api/requests/:id/schedule
func (h *Handlers) ScheduleRequest(c *gin.Context) {
	h.reviewAction(c, func(id int64, a review.Actor, _ string) (*entity.PaymentRequest, error) {
		return h.reviewService.Schedule(c.Request.Context(), id, a)
	})
}

// PayRequest handles POST /api/requests/:id/pay
func (h *Handlers) PayRequest(c *gin.Context) {
	h.reviewAction(c, func(id int64, a review.Actor, _ string) (*entity.PaymentRequest, error) {
		return h.reviewService.MarkPaid(c.Request.Context(), id, a)
	})
}

func (h *Handlers) reviewAction(c *gin.Context, fn func(int64, review.Actor, string) (*entity.PaymentRequest, error)) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}

	var payload ReviewPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			h.writeBadRequest(c, err)
			return
		}
	}

	request, err := fn(id, a, payload.Comment)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

// ExportProjectsList handles GET /api/exports/projects
func (h *Handlers) ExportProjectsList(c *gin.Context) {
	format, err := reportFormat(c.Query("format"))
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}
	artifact, err := h.exportService.ProjectsList(c.Request.Context(), format)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeArtifact(c, artifact)
}

// ExportProjectReport handles GET /api/exports/projects/:id/report
func (h *Handlers) ExportProjectReport(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}
	format, err := reportFormat(c.Query("format"))
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}
	artifact, err := h.exportService.ProjectReport(c.Request.Context(), id, format)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeArtifact(c, artifact)
}

// ExportImageBundle handles GET /api/exports/projects/:id/images
func (h *Handlers) ExportImageBundle(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}

	source, err := imageSource(c.Query("source"))
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}
	policy, err := fitPolicy(c.Query("policy"))
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}
	ratio, err := aspectRatio(c.Query("ratio"))
	if err != nil {
		h.writeBadRequest(c, err)
		return
	}

	artifact, err := h.exportService.ImageBundle(c.Request.Context(), id, source, policy, ratio)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeArtifact(c, artifact)
}

func writeArtifact(c *gin.Context, artifact *export.Artifact) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Name))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

func reportFormat(v string) (report.Format, error) {
	switch strings.ToLower(v) {
	case "", "pdf":
		return report.FormatPDF, nil
	case "xlsx":
		return report.FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q", v)
	}
}

func imageSource(v string) (string, error) {
	switch strings.ToUpper(v) {
	case "", entity.ImageSourceProgress:
		return entity.ImageSourceProgress, nil
	case entity.ImageSourceFinal:
		return entity.ImageSourceFinal, nil
	default:
		return "", fmt.Errorf("unsupported image source %q", v)
	}
}

func fitPolicy(v string) (export.FitPolicy, error) {
	switch strings.ToLower(v) {
	case "", string(export.FitLetterbox):
		return export.FitLetterbox, nil
	case string(export.FitStretch):
		return export.FitStretch, nil
	default:
		return "", fmt.Errorf("unsupported fit policy %q", v)
	}
}

func aspectRatio(v string) (*export.AspectRatio, error) {
	if v == "" {
		return nil, nil
	}
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("ratio must be of the form W:H, got %q", v)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("parse ratio width: %w", err)
	}
	ht, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("parse ratio height: %w", err)
	}
	if w <= 0 || ht <= 0 {
		return nil, fmt.Errorf("ratio terms must be positive, got %q", v)
	}
	return &export.AspectRatio{Width: w, Height: ht}, nil
}

func readPhotos(files []*multipart.FileHeader) ([]project.UploadedImage, error) {
	photos := make([]project.UploadedImage, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxUploadBytes {
			return nil, fmt.Errorf("photo %s exceeds the upload size limit", fh.Filename)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		photos = append(photos, project.UploadedImage{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return photos, nil
}
