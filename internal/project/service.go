// Package project manages projects, progress logs and their site photos.
package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/entity"
)

var (
	// ErrNotFound is returned when the project does not exist
	ErrNotFound = errors.New("project not found")

	// ErrInvalidPercentage is returned when a progress update's
	// completion percentage is outside [0,100]
	ErrInvalidPercentage = errors.New("percentage must be within [0,100]")
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ProjectRepository defines persistence operations for Project
type ProjectRepository interface {
	Create(project *entity.Project) error
	GetByID(id int64) (*entity.Project, error)
	List() ([]*entity.Project, error)
}

// ProgressRepository defines persistence operations for ProgressUpdate
type ProgressRepository interface {
	Create(tx *sql.Tx, update *entity.ProgressUpdate) error
	GetByProjectID(projectID int64) ([]*entity.ProgressUpdate, error)
}

// ImageRepository defines persistence operations for ImageAsset
type ImageRepository interface {
	Create(tx *sql.Tx, asset *entity.ImageAsset) error
	GetByOwner(source string, ownerID int64) ([]*entity.ImageAsset, error)
}

// ImageStore persists raw image bytes
type ImageStore interface {
	Save(projectID int64, name string, content []byte) (string, error)
}

// TransactionManager runs a function inside a database transaction
type TransactionManager interface {
	WithTransaction(fn func(*sql.Tx) error) error
}

// UploadedImage is one photo received from the client
type UploadedImage struct {
	Name     string
	MimeType string
	Data     []byte
}

// Service manages projects and their progress logs
type Service struct {
	projects ProjectRepository
	progress ProgressRepository
	images   ImageRepository
	store    ImageStore
	tx       TransactionManager
	logger   Logger
}

// NewService creates a new project service
func NewService(
	projects ProjectRepository,
	progress ProgressRepository,
	images ImageRepository,
	store ImageStore,
	tx TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		projects: projects,
		progress: progress,
		images:   images,
		store:    store,
		tx:       tx,
		logger:   logger,
	}
}

// Create registers a new project
func (s *Service) Create(ctx context.Context, name, leaderID, description string, startDate time.Time) (*entity.Project, error) {
	if startDate.IsZero() {
		startDate = time.Now()
	}
	project := &entity.Project{
		Name:        name,
		LeaderID:    leaderID,
		Description: description,
		Status:      "ACTIVE",
		StartDate:   startDate,
	}
	if err := s.projects.Create(project); err != nil {
		s.logger.Error("Failed to create project", "error", err, "name", name)
		return nil, err
	}
	s.logger.Info("Project created", "id", project.ID, "name", name)
	return project, nil
}

// Get retrieves a project by ID
func (s *Service) Get(ctx context.Context, id int64) (*entity.Project, error) {
	project, err := s.projects.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

// List retrieves all projects
func (s *Service) List(ctx context.Context) ([]*entity.Project, error) {
	return s.projects.List()
}

// AddProgress records a progress update and stores its photos. The photo
// files are written first; the database rows for the update and every
// asset then commit atomically.
func (s *Service) AddProgress(ctx context.Context, projectID int64, leaderID, description string, percentage float64, photos []UploadedImage) (*entity.ProgressUpdate, error) {
	if percentage < 0 || percentage > 100 {
		return nil, ErrInvalidPercentage
	}
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	update := &entity.ProgressUpdate{
		ProjectID:   projectID,
		LeaderID:    leaderID,
		Description: description,
		Percentage:  percentage,
	}

	paths, err := s.storePhotos(projectID, photos)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(func(tx *sql.Tx) error {
		if err := s.progress.Create(tx, update); err != nil {
			return fmt.Errorf("create progress update: %w", err)
		}
		for i, photo := range photos {
			asset := &entity.ImageAsset{
				ProjectID: projectID,
				Source:    entity.ImageSourceProgress,
				OwnerID:   update.ID,
				FilePath:  paths[i],
				MimeType:  photo.MimeType,
				SizeBytes: int64(len(photo.Data)),
			}
			if err := s.images.Create(tx, asset); err != nil {
				return fmt.Errorf("create image asset: %w", err)
			}
			update.ImageIDs = append(update.ImageIDs, asset.ID)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to add progress update", "error", err, "project_id", projectID)
		return nil, err
	}

	s.logger.Info("Progress update recorded",
		"id", update.ID, "project_id", projectID, "photos", len(photos))
	return update, nil
}

// AddFinalImages stores a project's final submission photos
func (s *Service) AddFinalImages(ctx context.Context, projectID int64, photos []UploadedImage) ([]int64, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	paths, err := s.storePhotos(projectID, photos)
	if err != nil {
		return nil, err
	}

	var ids []int64
	err = s.tx.WithTransaction(func(tx *sql.Tx) error {
		for i, photo := range photos {
			asset := &entity.ImageAsset{
				ProjectID: projectID,
				Source:    entity.ImageSourceFinal,
				OwnerID:   projectID,
				FilePath:  paths[i],
				MimeType:  photo.MimeType,
				SizeBytes: int64(len(photo.Data)),
			}
			if err := s.images.Create(tx, asset); err != nil {
				return fmt.Errorf("create image asset: %w", err)
			}
			ids = append(ids, asset.ID)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to add final images", "error", err, "project_id", projectID)
		return nil, err
	}
	return ids, nil
}

// Progress retrieves the progress updates of a project with their image IDs
func (s *Service) Progress(ctx context.Context, projectID int64) ([]*entity.ProgressUpdate, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	updates, err := s.progress.GetByProjectID(projectID)
	if err != nil {
		return nil, err
	}
	for _, u := range updates {
		assets, err := s.images.GetByOwner(entity.ImageSourceProgress, u.ID)
		if err != nil {
			return nil, err
		}
		for _, a := range assets {
			u.ImageIDs = append(u.ImageIDs, a.ID)
		}
	}
	return updates, nil
}

func (s *Service) storePhotos(projectID int64, photos []UploadedImage) ([]string, error) {
	paths := make([]string, len(photos))
	for i, photo := range photos {
		name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), photo.Name)
		path, err := s.store.Save(projectID, name, photo.Data)
		if err != nil {
			return nil, fmt.Errorf("store photo: %w", err)
		}
		paths[i] = path
	}
	return paths, nil
}
