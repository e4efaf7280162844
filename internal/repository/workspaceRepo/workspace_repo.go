package workspaceRepo

import (
	"context"
	"errors"
	"fmt"

	"workspace-service/internal/model/workspace"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorkspaceRepo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *WorkspaceRepo {
	return &WorkspaceRepo{pool: pool}
}

// Create вставляет workspace и строку коллаборатора-владельца одной транзакцией:
// владелец всегда присутствует в collaborators с ролью owner.
func (r *WorkspaceRepo) Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*workspace.Workspace, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ws := &workspace.Workspace{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO workspaces (id, owner_id, name, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		ws.ID, ws.OwnerID, ws.Name, ws.Description).Scan(&ws.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert workspace: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO collaborators (workspace_id, user_id, role)
		 VALUES ($1, $2, $3)`,
		ws.ID, ownerID, workspace.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to insert owner collaborator: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *WorkspaceRepo) GetByID(ctx context.Context, workspaceID uuid.UUID) (*workspace.Workspace, error) {
	var ws workspace.Workspace
	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM workspaces WHERE id = $1`, workspaceID).
		Scan(&ws.ID, &ws.OwnerID, &ws.Name, &ws.Description, &ws.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *WorkspaceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*workspace.Workspace, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT w.id, w.owner_id, w.name, w.description, w.created_at
		 FROM workspaces w
		 JOIN collaborators c ON c.workspace_id = w.id
		 WHERE c.user_id = $1
		 ORDER BY w.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*workspace.Workspace
	for rows.Next() {
		var ws workspace.Workspace
		if err := rows.Scan(&ws.ID, &ws.OwnerID, &ws.Name, &ws.Description, &ws.CreatedAt); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, &ws)
	}
	return workspaces, nil
}

func (r *WorkspaceRepo) GetFirstOwnedByUser(ctx context.Context, userID uuid.UUID) (*workspace.Workspace, error) {
	var ws workspace.Workspace
	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM workspaces WHERE owner_id = $1
		 ORDER BY created_at LIMIT 1`, userID).
		Scan(&ws.ID, &ws.OwnerID, &ws.Name, &ws.Description, &ws.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// ResolveRole возвращает роль пользователя в workspace.
// Если строки коллаборатора нет, проверяем owner_id напрямую — владелец мог
// быть создан до появления таблицы collaborators.
func (r *WorkspaceRepo) ResolveRole(ctx context.Context, workspaceID, userID uuid.UUID) (workspace.Role, error) {
	var role workspace.Role
	err := r.pool.QueryRow(ctx,
		`SELECT role FROM collaborators
		 WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID).Scan(&role)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	var exists bool
	err = r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM workspaces WHERE id = $1 AND owner_id = $2)`,
		workspaceID, userID).Scan(&exists)
	if err != nil {
		return "", err
	}
	if exists {
		return workspace.RoleOwner, nil
	}
	return "", nil
}

func (r *WorkspaceRepo) UpsertCollaborator(ctx context.Context, workspaceID, userID uuid.UUID, role workspace.Role) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO collaborators (workspace_id, user_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = EXCLUDED.role`,
		workspaceID, userID, role)
	return err
}

func (r *WorkspaceRepo) RemoveCollaborator(ctx context.Context, workspaceID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM collaborators WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID)
	return err
}

func (r *WorkspaceRepo) ListCollaborators(ctx context.Context, workspaceID uuid.UUID) ([]*workspace.Collaborator, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT workspace_id, user_id, role, created_at
		 FROM collaborators WHERE workspace_id = $1
		 ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collaborators []*workspace.Collaborator
	for rows.Next() {
		var c workspace.Collaborator
		if err := rows.Scan(&c.WorkspaceID, &c.UserID, &c.Role, &c.CreatedAt); err != nil {
			return nil, err
		}
		collaborators = append(collaborators, &c)
	}
	return collaborators, nil
}
