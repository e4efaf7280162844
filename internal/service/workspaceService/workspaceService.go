package workspaceService

import (
	"context"
	"fmt"

	"workspace-service/internal/model/apperr"
	"workspace-service/internal/model/workspace"
	"workspace-service/internal/repository/workspaceRepo"

	"github.com/google/uuid"
)

type WorkspaceService struct {
	repo *workspaceRepo.WorkspaceRepo
}

func New(repo *workspaceRepo.WorkspaceRepo) *WorkspaceService {
	return &WorkspaceService{repo: repo}
}

func (s *WorkspaceService) Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*workspace.Workspace, error) {
	if name == "" {
		return nil, fmt.Errorf("workspace name is required: %w", apperr.ErrInvalidInput)
	}
	return s.repo.Create(ctx, ownerID, name, description)
}

func (s *WorkspaceService) List(ctx context.Context, userID uuid.UUID) ([]*workspace.Workspace, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ResolveRole реализует service.RoleResolver.
func (s *WorkspaceService) ResolveRole(ctx context.Context, workspaceID, userID uuid.UUID) (workspace.Role, error) {
	return s.repo.ResolveRole(ctx, workspaceID, userID)
}

// RequireRole возвращает роль пользователя, если её уровень не ниже требуемого.
// Не-коллаборатор получает ErrForbidden независимо от того, существует ли
// workspace — не раскрываем чужие workspace по ошибке.
func (s *WorkspaceService) RequireRole(ctx context.Context, workspaceID, userID uuid.UUID, required workspace.Role) (workspace.Role, error) {
	role, err := s.repo.ResolveRole(ctx, workspaceID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}
	if role == "" {
		return "", fmt.Errorf("workspace not found or access denied: %w", apperr.ErrForbidden)
	}
	if !role.AtLeast(required) {
		return "", fmt.Errorf("insufficient permissions, required %q, user has %q: %w",
			required, role, apperr.ErrForbidden)
	}
	return role, nil
}

func (s *WorkspaceService) AddCollaborator(ctx context.Context, workspaceID, actorID, userID uuid.UUID, role workspace.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q: %w", role, apperr.ErrInvalidInput)
	}
	if role == workspace.RoleOwner {
		return fmt.Errorf("ownership is not transferable via collaborators: %w", apperr.ErrInvalidInput)
	}
	if _, err := s.RequireRole(ctx, workspaceID, actorID, workspace.RoleOwner); err != nil {
		return err
	}

	ws, err := s.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if ws == nil {
		return fmt.Errorf("workspace %s: %w", workspaceID, apperr.ErrNotFound)
	}
	if ws.OwnerID == userID {
		return fmt.Errorf("cannot change the owner role: %w", apperr.ErrInvalidInput)
	}

	return s.repo.UpsertCollaborator(ctx, workspaceID, userID, role)
}

func (s *WorkspaceService) RemoveCollaborator(ctx context.Context, workspaceID, actorID, userID uuid.UUID) error {
	if _, err := s.RequireRole(ctx, workspaceID, actorID, workspace.RoleOwner); err != nil {
		return err
	}

	ws, err := s.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if ws == nil {
		return fmt.Errorf("workspace %s: %w", workspaceID, apperr.ErrNotFound)
	}
	if ws.OwnerID == userID {
		return fmt.Errorf("cannot remove the workspace owner: %w", apperr.ErrInvalidInput)
	}

	return s.repo.RemoveCollaborator(ctx, workspaceID, userID)
}

func (s *WorkspaceService) ListCollaborators(ctx context.Context, workspaceID, actorID uuid.UUID) ([]*workspace.Collaborator, error) {
	if _, err := s.RequireRole(ctx, workspaceID, actorID, workspace.RoleViewer); err != nil {
		return nil, err
	}
	return s.repo.ListCollaborators(ctx, workspaceID)
}

// GetOrCreateDefault — workspace по умолчанию для загрузок без workspace_id.
func (s *WorkspaceService) GetOrCreateDefault(ctx context.Context, userID uuid.UUID) (*workspace.Workspace, error) {
	ws, err := s.repo.GetFirstOwnedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ws != nil {
		return ws, nil
	}
	return s.repo.Create(ctx, userID, "Default Workspace", "Auto-created workspace for file uploads")
}
