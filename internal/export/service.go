// Package export produces downloadable artifacts: tabular reports over
// projects and payment requests, and zip bundles of normalized site photos.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/entity"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/export/report"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/storage"
)

// ErrProjectNotFound is returned when the export target project does not exist
var ErrProjectNotFound = errors.New("project not found")

// ProjectSource provides project records for export
type ProjectSource interface {
	GetByID(id int64) (*entity.Project, error)
	List() ([]*entity.Project, error)
}

// RequestSource provides payment request records for export
type RequestSource interface {
	ListAll() ([]*entity.PaymentRequest, error)
	ListByProject(projectID int64) ([]*entity.PaymentRequest, error)
}

// ExpenseSource provides expense line items for totals
type ExpenseSource interface {
	GetByRequestID(requestID int64) ([]*entity.Expense, error)
}

// ImageSource provides image asset metadata for bundles
type ImageSource interface {
	GetByProjectAndSource(projectID int64, source string) ([]*entity.ImageAsset, error)
}

// BlobReader materializes stored image bytes
type BlobReader interface {
	Read(path string) ([]byte, error)
}

// Artifact is a completed downloadable blob handed to the HTTP boundary
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Service orchestrates the exporters over the stored domain records
type Service struct {
	projects   ProjectSource
	requests   RequestSource
	expenses   ExpenseSource
	images     ImageSource
	blobs      BlobReader
	normalizer *Normalizer
	builder    *report.Builder
	company    string
	logger     *zap.Logger
}

// NewService creates an export service
func NewService(
	projects ProjectSource,
	requests RequestSource,
	expenses ExpenseSource,
	images ImageSource,
	blobs BlobReader,
	normalizer *Normalizer,
	builder *report.Builder,
	company string,
	logger *zap.Logger,
) *Service {
	return &Service{
		projects:   projects,
		requests:   requests,
		expenses:   expenses,
		images:     images,
		blobs:      blobs,
		normalizer: normalizer,
		builder:    builder,
		company:    company,
		logger:     logger,
	}
}

// ProjectsList renders the all-projects report with the amount paid per
// project and a grand total
func (s *Service) ProjectsList(ctx context.Context, format report.Format) (*Artifact, error) {
	projects, err := s.projects.List()
	if err != nil {
		return nil, err
	}

	paidByProject, err := s.paidTotals()
	if err != nil {
		return nil, err
	}

	records := make([]report.Record, 0, len(projects))
	for _, p := range projects {
		records = append(records, report.Record{
			"name":       p.Name,
			"leader":     p.LeaderID,
			"status":     p.Status,
			"start_date": p.StartDate,
			"paid":       paidByProject[p.ID],
		})
	}

	doc := report.Document{
		Title:       s.company + " - Projects",
		GeneratedAt: time.Now(),
		Columns: []report.Column{
			{Key: "name", Header: "Project", Width: 55},
			{Key: "leader", Header: "Leader", Width: 35},
			{Key: "status", Header: "Status", Width: 25},
			{Key: "start_date", Header: "Start Date", Width: 30},
			{Key: "paid", Header: "Amount Paid", Width: 35, Numeric: true},
		},
		Records: records,
	}

	data, err := s.builder.Build(doc, format)
	if err != nil {
		return nil, err
	}
	return s.reportArtifact(s.company, "projects-list", format, data), nil
}

// ProjectReport renders the payment request report of a single project,
// watermarked when the builder carries a watermark
func (s *Service) ProjectReport(ctx context.Context, projectID int64, format report.Format) (*Artifact, error) {
	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	requests, err := s.requests.ListByProject(projectID)
	if err != nil {
		return nil, err
	}

	records := make([]report.Record, 0, len(requests))
	for _, req := range requests {
		req.Expenses, err = s.expenses.GetByRequestID(req.ID)
		if err != nil {
			return nil, err
		}
		records = append(records, report.Record{
			"reference": req.Reference,
			"submitted": req.SubmittedAt,
			"status":    req.Status,
			"comment":   req.Comment,
			"amount":    req.Total(),
		})
	}

	doc := report.Document{
		Title:       project.Name,
		Description: project.Description,
		GeneratedAt: time.Now(),
		Columns: []report.Column{
			{Key: "reference", Header: "Reference", Width: 60},
			{Key: "submitted", Header: "Submitted", Width: 25},
			{Key: "status", Header: "Status", Width: 25},
			{Key: "comment", Header: "Comment", Width: 40},
			{Key: "amount", Header: "Amount", Width: 30, Numeric: true},
		},
		Records: records,
	}

	data, err := s.builder.Build(doc, format)
	if err != nil {
		return nil, err
	}
	return s.reportArtifact(project.Name, "project-report", format, data), nil
}

// ImageBundle normalizes a project's images from one source and packages
// them as a zip. A single undecodable image is skipped, never fatal; the
// bundle fails only when no image survives.
func (s *Service) ImageBundle(ctx context.Context, projectID int64, source string, policy FitPolicy, ratio *AspectRatio) (*Artifact, error) {
	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	assets, err := s.images.GetByProjectAndSource(projectID, source)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, asset := range assets {
		raw, err := s.blobs.Read(asset.FilePath)
		if err != nil {
			s.logger.Warn("Skipping unreadable image",
				zap.Int64("asset_id", asset.ID),
				zap.String("path", asset.FilePath),
				zap.Error(err))
			continue
		}
		normalized, err := s.normalizer.Normalize(raw, policy, ratio)
		if err != nil {
			if errors.Is(err, ErrImageDecode) {
				s.logger.Warn("Skipping undecodable image",
					zap.Int64("asset_id", asset.ID),
					zap.Error(err))
				continue
			}
			return nil, err
		}
		entries = append(entries, Entry{
			Ext:      "jpg",
			OrderKey: asset.CreatedAt,
			Data:     normalized,
		})
	}

	data, err := BuildArchive(entries)
	if err != nil {
		return nil, err
	}

	kind := strings.ToLower(source) + "-images"
	s.logger.Info("Image bundle built",
		zap.Int64("project_id", projectID),
		zap.String("source", source),
		zap.Int("total_assets", len(assets)),
		zap.Int("packaged", len(entries)))

	return &Artifact{
		Name:        ArchiveFilename(project.Name, kind, time.Now()),
		ContentType: "application/zip",
		Data:        data,
	}, nil
}

// paidTotals aggregates the amount of PAID requests per project
func (s *Service) paidTotals() (map[int64]decimal.Decimal, error) {
	requests, err := s.requests.ListAll()
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]decimal.Decimal)
	for _, req := range requests {
		if req.Status != entity.StatusPaid {
			continue
		}
		req.Expenses, err = s.expenses.GetByRequestID(req.ID)
		if err != nil {
			return nil, err
		}
		totals[req.ProjectID] = totals[req.ProjectID].Add(req.Total())
	}
	return totals, nil
}

func (s *Service) reportArtifact(subject, kind string, format report.Format, data []byte) *Artifact {
	ext := "pdf"
	contentType := "application/pdf"
	if format == report.FormatXLSX {
		ext = "xlsx"
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	name := fmt.Sprintf("%s_%s_%s.%s",
		storage.SanitizeName(subject), kind, time.Now().Format("2006-01-02"), ext)
	return &Artifact{Name: name, ContentType: contentType, Data: data}
}
