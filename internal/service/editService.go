package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workspace-service/internal/model/apperr"
	"workspace-service/internal/model/document"
	"workspace-service/internal/model/workspace"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleResolver отвечает, какая роль у пользователя в workspace.
// Пустая роль без ошибки означает "не коллаборатор".
type RoleResolver interface {
	ResolveRole(ctx context.Context, workspaceID, userID uuid.UUID) (workspace.Role, error)
}

// ContentStore — живое содержимое файлов и журнал версий.
type ContentStore interface {
	GetFile(ctx context.Context, workspaceID uuid.UUID, filename string) (*document.File, error)
	// CommitEdit атомарно записывает старое содержимое как версию
	// expectedVersion+1 и обновляет живую строку; при гонке возвращает
	// apperr.ErrConflict, не меняя ничего.
	CommitEdit(ctx context.Context, fileID uuid.UUID, oldContent, newContent string, expectedVersion int, editorID uuid.UUID, changeSummary string) (int, error)
}

// EditGenerator — внешняя генерация текста, чёрный ящик.
type EditGenerator interface {
	GenerateEdit(ctx context.Context, currentContent, instruction string) (string, error)
}

// ChangePublisher — best-effort уведомление подписчиков об изменении.
type ChangePublisher interface {
	Publish(ctx context.Context, workspaceID, fileID uuid.UUID, version int) error
}

type EditResult struct {
	FileID      uuid.UUID `json:"file_id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Filename    string    `json:"filename"`
	NewVersion  int       `json:"new_version"`
	Content     string    `json:"content"`
}

type EditService struct {
	roles RoleResolver
	store ContentStore
	gen   EditGenerator
	pub   ChangePublisher
	log   *zap.Logger

	publishTimeout time.Duration
}

func NewEditService(roles RoleResolver, store ContentStore, gen EditGenerator, pub ChangePublisher, log *zap.Logger) *EditService {
	return &EditService{
		roles:          roles,
		store:          store,
		gen:            gen,
		pub:            pub,
		log:            log,
		publishTimeout: 2 * time.Second,
	}
}

// Edit выполняет транзакцию правки документа:
// авторизация → чтение → генерация → фиксация. Любой сбой до фиксации
// оставляет файл и журнал версий нетронутыми. Генерация идёт без блокировки,
// сериализация на одном файле обеспечивается условной записью по версии;
// при ErrConflict весь конвейер повторяется один раз поверх победившего
// содержимого.
func (s *EditService) Edit(ctx context.Context, workspaceID uuid.UUID, filename string, editorID uuid.UUID, instruction string) (*EditResult, error) {
	role, err := s.roles.ResolveRole(ctx, workspaceID, editorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve role: %w", err)
	}
	if role == "" {
		return nil, fmt.Errorf("user %s is not a collaborator of workspace %s: %w",
			editorID, workspaceID, apperr.ErrForbidden)
	}
	if !role.CanEdit() {
		return nil, fmt.Errorf("role %q cannot edit: %w", role, apperr.ErrForbidden)
	}

	const attempts = 2
	for attempt := 1; ; attempt++ {
		result, err := s.editOnce(ctx, workspaceID, filename, editorID, instruction)
		if errors.Is(err, apperr.ErrConflict) && attempt < attempts {
			s.log.Warn("edit conflict, retrying",
				zap.String("workspace_id", workspaceID.String()),
				zap.String("filename", filename))
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}

func (s *EditService) editOnce(ctx context.Context, workspaceID uuid.UUID, filename string, editorID uuid.UUID, instruction string) (*EditResult, error) {
	f, err := s.store.GetFile(ctx, workspaceID, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if f == nil {
		return nil, fmt.Errorf("file %q: %w", filename, apperr.ErrNotFound)
	}

	newContent, err := s.gen.GenerateEdit(ctx, f.Content, instruction)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(newContent) == "" {
		return nil, fmt.Errorf("generation returned empty content: %w", apperr.ErrInvalidEditResult)
	}

	newVersion, err := s.store.CommitEdit(ctx, f.ID, f.Content, newContent, f.CurrentVersion, editorID, instruction)
	if err != nil {
		return nil, err
	}

	s.notify(f.WorkspaceID, f.ID, newVersion)

	return &EditResult{
		FileID:      f.ID,
		WorkspaceID: f.WorkspaceID,
		Filename:    f.Filename,
		NewVersion:  newVersion,
		Content:     newContent,
	}, nil
}

// notify не должен ни блокировать, ни отменять уже зафиксированную правку:
// отдельная горутина, отвязанный контекст, ошибка только в лог.
func (s *EditService) notify(workspaceID, fileID uuid.UUID, version int) {
	if s.pub == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
		defer cancel()
		if err := s.pub.Publish(ctx, workspaceID, fileID, version); err != nil {
			s.log.Warn("change notification failed",
				zap.String("file_id", fileID.String()),
				zap.Int("version", version),
				zap.Error(err))
		}
	}()
}
