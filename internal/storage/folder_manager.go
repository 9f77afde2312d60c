package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// FolderManager manages per-project folders under a base directory
type FolderManager struct {
	baseDir string
	logger  *zap.Logger
}

// NewFolderManager creates a new FolderManager
func NewFolderManager(baseDir string, logger *zap.Logger) *FolderManager {
	return &FolderManager{baseDir: baseDir, logger: logger}
}

// CreateProjectFolder creates the folder for a project's images.
// Returns the full path to the created folder.
func (m *FolderManager) CreateProjectFolder(projectID int64) (string, error) {
	if projectID <= 0 {
		return "", fmt.Errorf("cannot create folder: invalid project id %d", projectID)
	}

	folderPath := m.ProjectFolderPath(projectID)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		m.logger.Error("Failed to create project folder",
			zap.Int64("project_id", projectID),
			zap.String("folder_path", folderPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	return folderPath, nil
}

// ProjectFolderPath returns the path for a project folder without creating it
func (m *FolderManager) ProjectFolderPath(projectID int64) string {
	return filepath.Join(m.baseDir, fmt.Sprintf("project_%d", projectID))
}

// FolderExists checks if the project folder already exists
func (m *FolderManager) FolderExists(projectID int64) bool {
	info, err := os.Stat(m.ProjectFolderPath(projectID))
	return err == nil && info.IsDir()
}

// DeleteProjectFolder removes a project folder and all contents. Idempotent.
func (m *FolderManager) DeleteProjectFolder(projectID int64) error {
	folderPath := m.ProjectFolderPath(projectID)
	if _, err := os.Stat(folderPath); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(folderPath); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	m.logger.Debug("Deleted project folder", zap.String("folder_path", folderPath))
	return nil
}

// SanitizeName strips every character that is not a letter or digit.
// Shared with export filenames, which carry the project name.
func SanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "")
}
