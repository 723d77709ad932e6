// Package storage persists case files (uploads and generated artifacts) on
// the local filesystem, one directory per case.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileStore is the file persistence surface the engine and the API layer use.
type FileStore interface {
	// SaveFile writes content under the case's directory and returns the
	// full path. Parent directories are created as needed.
	SaveFile(caseID, filename string, content []byte) (string, error)

	// PublicURL returns the URL clients can fetch the file from.
	PublicURL(caseID, filename string) string

	// RemoveCaseFiles deletes the case's entire upload directory.
	RemoveCaseFiles(caseID string) error
}

// LocalFileStore implements FileStore on a base directory.
type LocalFileStore struct {
	baseDir       string
	publicBaseURL string
	logger        *zap.Logger
}

// NewLocalFileStore creates a file store rooted at baseDir. publicBaseURL is
// optional; when empty, URLs are server-relative.
func NewLocalFileStore(baseDir, publicBaseURL string, logger *zap.Logger) *LocalFileStore {
	return &LocalFileStore{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// SaveFile writes content to <baseDir>/<caseID>/<filename>.
func (s *LocalFileStore) SaveFile(caseID, filename string, content []byte) (string, error) {
	filename = filepath.Base(filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", filename)
	}

	fullPath := filepath.Join(s.baseDir, caseID, filename)
	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create case directory",
			zap.String("case_id", caseID),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return fullPath, nil
}

// PublicURL returns /uploads/<caseID>/<filename>, prefixed with the external
// base URL when one is configured.
func (s *LocalFileStore) PublicURL(caseID, filename string) string {
	relative := fmt.Sprintf("/uploads/%s/%s", caseID, filepath.Base(filename))
	if s.publicBaseURL == "" {
		return relative
	}
	return s.publicBaseURL + relative
}

// RemoveCaseFiles deletes the case's upload directory and everything in it.
func (s *LocalFileStore) RemoveCaseFiles(caseID string) error {
	dir := filepath.Join(s.baseDir, caseID)
	if err := s.validatePath(dir); err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Error("Failed to remove case files",
			zap.String("case_id", caseID),
			zap.Error(err))
		return fmt.Errorf("failed to remove case files: %w", err)
	}
	return nil
}

// BaseDir returns the root directory files are served from.
func (s *LocalFileStore) BaseDir() string {
	return s.baseDir
}

// validatePath checks that the path stays within baseDir.
func (s *LocalFileStore) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}

var _ FileStore = (*LocalFileStore)(nil)
