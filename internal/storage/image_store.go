package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ImageStore persists uploaded image bytes on the local filesystem,
// organized into per-project folders. Database rows hold only the path.
type ImageStore struct {
	baseDir string
	folders *FolderManager
	logger  *zap.Logger
}

// NewImageStore creates a new ImageStore rooted at baseDir
func NewImageStore(baseDir string, logger *zap.Logger) *ImageStore {
	return &ImageStore{
		baseDir: baseDir,
		folders: NewFolderManager(baseDir, logger),
		logger:  logger,
	}
}

// Save writes content into the project's folder and returns the stored path
func (s *ImageStore) Save(projectID int64, name string, content []byte) (string, error) {
	folder, err := s.folders.CreateProjectFolder(projectID)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(folder, filepath.Base(name))
	if err := s.ValidatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to save image",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	s.logger.Debug("Saved image",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))
	return fullPath, nil
}

// Read returns the stored bytes for a previously saved path
func (s *ImageStore) Read(path string) ([]byte, error) {
	if err := s.ValidatePath(path); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return content, nil
}

// WithImage opens the stored image and passes the reader to fn. The file
// handle is released on every exit path, so callers cannot leak it.
func (s *ImageStore) WithImage(path string, fn func(r io.Reader) error) error {
	if err := s.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return fn(f)
}

// Delete removes a stored image. Missing files are not an error.
func (s *ImageStore) Delete(path string) error {
	if err := s.ValidatePath(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// ValidatePath rejects paths that escape the store's base directory
func (s *ImageStore) ValidatePath(path string) error {
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base dir: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(os.PathSeparator)) && absPath != absBase {
		return fmt.Errorf("path %s escapes storage directory", path)
	}
	return nil
}
