package documentRepo

import (
	"context"
	"errors"
	"fmt"

	"workspace-service/internal/model/apperr"
	"workspace-service/internal/model/document"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

func (r *DocumentRepo) CreateFile(ctx context.Context, f *document.File) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO files (id, workspace_id, filename, file_type, content, current_version, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		f.ID, f.WorkspaceID, f.Filename, f.FileType, f.Content, f.CurrentVersion, f.CreatedBy).
		Scan(&f.CreatedAt, &f.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("file %q already exists in workspace: %w", f.Filename, apperr.ErrConflict)
	}
	return err
}

func (r *DocumentRepo) GetFile(ctx context.Context, workspaceID uuid.UUID, filename string) (*document.File, error) {
	var f document.File
	err := r.pool.QueryRow(ctx,
		`SELECT id, workspace_id, filename, file_type, content, current_version, created_by, created_at, updated_at
		 FROM files WHERE workspace_id = $1 AND filename = $2`,
		workspaceID, filename).
		Scan(&f.ID, &f.WorkspaceID, &f.Filename, &f.FileType, &f.Content,
			&f.CurrentVersion, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *DocumentRepo) ListWorkspaceFiles(ctx context.Context, workspaceID uuid.UUID) ([]*document.File, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, workspace_id, filename, file_type, content, current_version, created_by, created_at, updated_at
		 FROM files WHERE workspace_id = $1
		 ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*document.File
	for rows.Next() {
		var f document.File
		if err := rows.Scan(&f.ID, &f.WorkspaceID, &f.Filename, &f.FileType, &f.Content,
			&f.CurrentVersion, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		files = append(files, &f)
	}
	return files, nil
}

// CommitEdit фиксирует правку одной транзакцией: условный UPDATE живой строки
// по ожидаемой версии плюс INSERT версии со СТАРЫМ содержимым. Либо обе записи
// видимы, либо ни одна. Если current_version уже ушёл вперёд — apperr.ErrConflict,
// ничего не записано.
func (r *DocumentRepo) CommitEdit(ctx context.Context, fileID uuid.UUID, oldContent, newContent string, expectedVersion int, editorID uuid.UUID, changeSummary string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	newVersion := expectedVersion + 1

	tag, err := tx.Exec(ctx,
		`UPDATE files SET content = $1, current_version = $2, updated_at = now()
		 WHERE id = $3 AND current_version = $4`,
		newContent, newVersion, fileID, expectedVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to update live content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("version %d already committed for file %s: %w",
			newVersion, fileID, apperr.ErrConflict)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO file_versions (file_id, version_number, content, change_summary, created_by)
		 VALUES ($1, $2, $3, $4, $5)`,
		fileID, newVersion, oldContent, changeSummary, editorID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, fmt.Errorf("duplicate version %d for file %s: %w", newVersion, fileID, apperr.ErrConflict)
		}
		return 0, fmt.Errorf("failed to insert file version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newVersion, nil
}

func (r *DocumentRepo) ListVersions(ctx context.Context, fileID uuid.UUID) ([]*document.FileVersion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, file_id, version_number, content, change_summary, created_by, created_at
		 FROM file_versions WHERE file_id = $1
		 ORDER BY version_number DESC`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*document.FileVersion
	for rows.Next() {
		var v document.FileVersion
		if err := rows.Scan(&v.ID, &v.FileID, &v.VersionNumber, &v.Content,
			&v.ChangeSummary, &v.CreatedBy, &v.CreatedAt); err != nil {
			return nil, err
		}
		versions = append(versions, &v)
	}
	return versions, nil
}

func (r *DocumentRepo) GetVersion(ctx context.Context, fileID uuid.UUID, versionNumber int) (*document.FileVersion, error) {
	var v document.FileVersion
	err := r.pool.QueryRow(ctx,
		`SELECT id, file_id, version_number, content, change_summary, created_by, created_at
		 FROM file_versions WHERE file_id = $1 AND version_number = $2`,
		fileID, versionNumber).
		Scan(&v.ID, &v.FileID, &v.VersionNumber, &v.Content,
			&v.ChangeSummary, &v.CreatedBy, &v.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *DocumentRepo) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM file_versions WHERE file_id = $1`, fileID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM files WHERE id = $1`, fileID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
