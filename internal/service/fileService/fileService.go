package fileService

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"workspace-service/internal/converter"
	"workspace-service/internal/model/apperr"
	"workspace-service/internal/model/document"
	"workspace-service/internal/model/workspace"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedTypes = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
	".md":   true,
}

// DocumentStore — строки файлов и журнал версий в Postgres.
type DocumentStore interface {
	CreateFile(ctx context.Context, f *document.File) error
	GetFile(ctx context.Context, workspaceID uuid.UUID, filename string) (*document.File, error)
	ListWorkspaceFiles(ctx context.Context, workspaceID uuid.UUID) ([]*document.File, error)
	ListVersions(ctx context.Context, fileID uuid.UUID) ([]*document.FileVersion, error)
	GetVersion(ctx context.Context, fileID uuid.UUID, versionNumber int) (*document.FileVersion, error)
	DeleteFile(ctx context.Context, fileID uuid.UUID) error
}

// WorkspaceAccess — проверка ролей и workspace по умолчанию для загрузок.
type WorkspaceAccess interface {
	RequireRole(ctx context.Context, workspaceID, userID uuid.UUID, required workspace.Role) (workspace.Role, error)
	GetOrCreateDefault(ctx context.Context, userID uuid.UUID) (*workspace.Workspace, error)
}

// BlobStore — исходные байты загрузок в объектном хранилище.
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.Reader, error)
	Delete(ctx context.Context, key string) error
}

type FileService struct {
	docRepo     DocumentStore
	workspaces  WorkspaceAccess
	store       BlobStore
	maxFileSize int64
	log         *zap.Logger
}

func New(docRepo DocumentStore, workspaces WorkspaceAccess, store BlobStore, maxFileSize int64, log *zap.Logger) *FileService {
	return &FileService{
		docRepo:     docRepo,
		workspaces:  workspaces,
		store:       store,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// ValidateUpload проверяет размер и расширение до каких-либо записей.
func ValidateUpload(filename string, size, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("file too large: %d bytes, limit %d: %w", size, maxSize, apperr.ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedTypes[ext] {
		return fmt.Errorf("file type %q not supported: %w", ext, apperr.ErrInvalidInput)
	}
	return nil
}

// Upload: валидация → конвертация в markdown → исходные байты в объектное
// хранилище → строка файла в Postgres. Живым содержимым становится markdown,
// current_version начинается с нуля.
func (s *FileService) Upload(ctx context.Context, userID, workspaceID uuid.UUID, filename, contentType string, data []byte) (*document.File, error) {
	if err := ValidateUpload(filename, int64(len(data)), s.maxFileSize); err != nil {
		return nil, err
	}

	if workspaceID == uuid.Nil {
		ws, err := s.workspaces.GetOrCreateDefault(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve default workspace: %w", err)
		}
		workspaceID = ws.ID
	} else {
		if _, err := s.workspaces.RequireRole(ctx, workspaceID, userID, workspace.RoleEditor); err != nil {
			return nil, err
		}
	}

	markdown, err := converter.ToMarkdown(filename, data)
	if err != nil {
		return nil, fmt.Errorf("conversion failed: %v: %w", err, apperr.ErrInvalidInput)
	}

	fileID := uuid.New()
	ext := strings.ToLower(filepath.Ext(filename))
	storageKey := objectKey(fileID, ext)
	if err := s.store.Upload(ctx, storageKey, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("failed to store original upload: %w", err)
	}

	f := &document.File{
		ID:             fileID,
		WorkspaceID:    workspaceID,
		Filename:       converter.MarkdownFilename(filename),
		FileType:       ext,
		Content:        markdown,
		CurrentVersion: 0,
		CreatedBy:      userID,
	}
	if err := s.docRepo.CreateFile(ctx, f); err != nil {
		if delErr := s.store.Delete(ctx, storageKey); delErr != nil {
			s.log.Warn("failed to clean up orphaned upload",
				zap.String("key", storageKey), zap.Error(delErr))
		}
		return nil, err
	}

	return f, nil
}

func (s *FileService) ListWorkspaceFiles(ctx context.Context, workspaceID, userID uuid.UUID) ([]*document.File, error) {
	if _, err := s.workspaces.RequireRole(ctx, workspaceID, userID, workspace.RoleViewer); err != nil {
		return nil, err
	}
	return s.docRepo.ListWorkspaceFiles(ctx, workspaceID)
}

func (s *FileService) GetFile(ctx context.Context, workspaceID, userID uuid.UUID, filename string) (*document.File, error) {
	if _, err := s.workspaces.RequireRole(ctx, workspaceID, userID, workspace.RoleViewer); err != nil {
		return nil, err
	}
	f, err := s.docRepo.GetFile(ctx, workspaceID, filename)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("file %q: %w", filename, apperr.ErrNotFound)
	}
	return f, nil
}

func (s *FileService) ListVersions(ctx context.Context, workspaceID, userID uuid.UUID, filename string) ([]*document.FileVersion, error) {
	f, err := s.GetFile(ctx, workspaceID, userID, filename)
	if err != nil {
		return nil, err
	}
	return s.docRepo.ListVersions(ctx, f.ID)
}

// DownloadOriginal отдаёт исходные байты загрузки как они пришли,
// до конвертации в markdown.
func (s *FileService) DownloadOriginal(ctx context.Context, workspaceID, userID uuid.UUID, filename string) (io.Reader, *document.File, error) {
	f, err := s.GetFile(ctx, workspaceID, userID, filename)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.store.Download(ctx, objectKey(f.ID, f.FileType))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download original of %q: %w", filename, err)
	}
	return r, f, nil
}

// Delete убирает строку файла вместе с журналом версий; исходный объект
// в хранилище удаляется best-effort.
func (s *FileService) Delete(ctx context.Context, workspaceID, userID uuid.UUID, filename string) error {
	if _, err := s.workspaces.RequireRole(ctx, workspaceID, userID, workspace.RoleEditor); err != nil {
		return err
	}
	f, err := s.docRepo.GetFile(ctx, workspaceID, filename)
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("file %q: %w", filename, apperr.ErrNotFound)
	}
	if err := s.docRepo.DeleteFile(ctx, f.ID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, objectKey(f.ID, f.FileType)); err != nil {
		s.log.Warn("failed to delete original object",
			zap.String("file_id", f.ID.String()), zap.Error(err))
	}
	return nil
}

func objectKey(fileID uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/original%s", fileID, ext)
}

func (s *FileService) GetVersion(ctx context.Context, workspaceID, userID uuid.UUID, filename string, versionNumber int) (*document.FileVersion, error) {
	f, err := s.GetFile(ctx, workspaceID, userID, filename)
	if err != nil {
		return nil, err
	}
	v, err := s.docRepo.GetVersion(ctx, f.ID, versionNumber)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("version %d of %q: %w", versionNumber, filename, apperr.ErrNotFound)
	}
	return v, nil
}
