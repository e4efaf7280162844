package fileService_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"workspace-service/internal/model/apperr"
	"workspace-service/internal/model/document"
	"workspace-service/internal/model/workspace"
	"workspace-service/internal/service/fileService"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	wsID     = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	editorID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	viewerID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

// Заглушки вместо Postgres, проверки ролей и MinIO.

type memDocs struct {
	files     map[string]*document.File
	versions  map[uuid.UUID][]*document.FileVersion
	createErr error
}

func newMemDocs() *memDocs {
	return &memDocs{
		files:    make(map[string]*document.File),
		versions: make(map[uuid.UUID][]*document.FileVersion),
	}
}

func docKey(workspaceID uuid.UUID, filename string) string {
	return workspaceID.String() + "/" + filename
}

func (m *memDocs) CreateFile(_ context.Context, f *document.File) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.files[docKey(f.WorkspaceID, f.Filename)]; exists {
		return fmt.Errorf("file %q already exists in workspace: %w", f.Filename, apperr.ErrConflict)
	}
	m.files[docKey(f.WorkspaceID, f.Filename)] = f
	return nil
}

func (m *memDocs) GetFile(_ context.Context, workspaceID uuid.UUID, filename string) (*document.File, error) {
	return m.files[docKey(workspaceID, filename)], nil
}

func (m *memDocs) ListWorkspaceFiles(_ context.Context, workspaceID uuid.UUID) ([]*document.File, error) {
	var out []*document.File
	for _, f := range m.files {
		if f.WorkspaceID == workspaceID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memDocs) ListVersions(_ context.Context, fileID uuid.UUID) ([]*document.FileVersion, error) {
	return m.versions[fileID], nil
}

func (m *memDocs) GetVersion(_ context.Context, fileID uuid.UUID, versionNumber int) (*document.FileVersion, error) {
	for _, v := range m.versions[fileID] {
		if v.VersionNumber == versionNumber {
			return v, nil
		}
	}
	return nil, nil
}

func (m *memDocs) DeleteFile(_ context.Context, fileID uuid.UUID) error {
	for k, f := range m.files {
		if f.ID == fileID {
			delete(m.files, k)
			return nil
		}
	}
	return nil
}

type stubAccess struct {
	roles     map[uuid.UUID]workspace.Role
	defaultWS *workspace.Workspace
}

func (s *stubAccess) RequireRole(_ context.Context, _, userID uuid.UUID, required workspace.Role) (workspace.Role, error) {
	role := s.roles[userID]
	if role == "" || !role.AtLeast(required) {
		return "", fmt.Errorf("workspace not found or access denied: %w", apperr.ErrForbidden)
	}
	return role, nil
}

func (s *stubAccess) GetOrCreateDefault(_ context.Context, _ uuid.UUID) (*workspace.Workspace, error) {
	return s.defaultWS, nil
}

type memBlobs struct {
	objects   map[string][]byte
	uploadErr error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: make(map[string][]byte)}
}

func (m *memBlobs) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memBlobs) Download(_ context.Context, key string) (io.Reader, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return bytes.NewReader(data), nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func newService(docs *memDocs, blobs *memBlobs) *fileService.FileService {
	access := &stubAccess{
		roles: map[uuid.UUID]workspace.Role{
			editorID: workspace.RoleEditor,
			viewerID: workspace.RoleViewer,
		},
		defaultWS: &workspace.Workspace{ID: wsID, OwnerID: editorID, Name: "Default Workspace"},
	}
	return fileService.New(docs, access, blobs, 10<<20, zap.NewNop())
}

func TestValidateUpload(t *testing.T) {
	const limit = 10 << 20

	assert.NoError(t, fileService.ValidateUpload("resume.pdf", 1024, limit))
	assert.NoError(t, fileService.ValidateUpload("notes.TXT", 1024, limit))
	assert.NoError(t, fileService.ValidateUpload("report.docx", limit, limit))

	err := fileService.ValidateUpload("big.pdf", limit+1, limit)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.True(t, strings.Contains(err.Error(), "too large"))

	assert.ErrorIs(t, fileService.ValidateUpload("image.png", 1024, limit), apperr.ErrInvalidInput)
	assert.ErrorIs(t, fileService.ValidateUpload("archive", 1024, limit), apperr.ErrInvalidInput)
}

func TestUpload_Success(t *testing.T) {
	docs := newMemDocs()
	blobs := newMemBlobs()
	svc := newService(docs, blobs)

	f, err := svc.Upload(context.Background(), editorID, wsID, "notes.txt", "text/plain", []byte("plain text"))
	require.NoError(t, err)

	assert.Equal(t, "notes.md", f.Filename)
	assert.Equal(t, ".txt", f.FileType)
	assert.Equal(t, "plain text", f.Content)
	assert.Equal(t, 0, f.CurrentVersion)
	assert.Equal(t, wsID, f.WorkspaceID)
	assert.Equal(t, editorID, f.CreatedBy)

	// исходные байты лежат в хранилище под ключом файла
	assert.Equal(t, []byte("plain text"), blobs.objects[f.ID.String()+"/original.txt"])
}

func TestUpload_DefaultWorkspace(t *testing.T) {
	docs := newMemDocs()
	svc := newService(docs, newMemBlobs())

	f, err := svc.Upload(context.Background(), editorID, uuid.Nil, "plan.md", "text/markdown", []byte("# Plan"))
	require.NoError(t, err)
	assert.Equal(t, wsID, f.WorkspaceID)
}

func TestUpload_ViewerForbidden(t *testing.T) {
	docs := newMemDocs()
	blobs := newMemBlobs()
	svc := newService(docs, blobs)

	_, err := svc.Upload(context.Background(), viewerID, wsID, "notes.txt", "text/plain", []byte("x"))
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Empty(t, docs.files)
	assert.Empty(t, blobs.objects)
}

func TestUpload_InvalidType(t *testing.T) {
	docs := newMemDocs()
	blobs := newMemBlobs()
	svc := newService(docs, blobs)

	_, err := svc.Upload(context.Background(), editorID, wsID, "image.png", "image/png", []byte("x"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Empty(t, docs.files)
	assert.Empty(t, blobs.objects)
}

func TestUpload_RowInsertFailureCleansUpBlob(t *testing.T) {
	docs := newMemDocs()
	docs.createErr = fmt.Errorf("file already exists in workspace: %w", apperr.ErrConflict)
	blobs := newMemBlobs()
	svc := newService(docs, blobs)

	_, err := svc.Upload(context.Background(), editorID, wsID, "notes.txt", "text/plain", []byte("x"))
	assert.ErrorIs(t, err, apperr.ErrConflict)
	// загруженный объект не должен остаться сиротой
	assert.Empty(t, blobs.objects)
}

func TestDownloadOriginal_RoundTrip(t *testing.T) {
	docs := newMemDocs()
	blobs := newMemBlobs()
	svc := newService(docs, blobs)

	original := []byte{0x01, 0x02}
	original = append(original, []byte("Meaningful sentence inside binary")...)
	_, err := svc.Upload(context.Background(), editorID, wsID, "doc.pdf", "application/pdf", original)
	require.NoError(t, err)

	r, f, err := svc.DownloadOriginal(context.Background(), wsID, viewerID, "doc.md")
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, original, got)
	assert.Equal(t, ".pdf", f.FileType)
}

func TestDownloadOriginal_NotFound(t *testing.T) {
	svc := newService(newMemDocs(), newMemBlobs())

	_, _, err := svc.DownloadOriginal(context.Background(), wsID, viewerID, "missing.md")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete_RemovesRowAndBlob(t *testing.T) {
	docs := newMemDocs()
	blobs := newMemBlobs()
	svc := newService(docs, blobs)

	_, err := svc.Upload(context.Background(), editorID, wsID, "notes.txt", "text/plain", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), wsID, editorID, "notes.md"))
	assert.Empty(t, docs.files)
	assert.Empty(t, blobs.objects)
}

func TestDelete_ViewerForbidden(t *testing.T) {
	docs := newMemDocs()
	svc := newService(docs, newMemBlobs())

	_, err := svc.Upload(context.Background(), editorID, wsID, "notes.txt", "text/plain", []byte("x"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), wsID, viewerID, "notes.md"), apperr.ErrForbidden)
	assert.Len(t, docs.files, 1)
}

func TestGetVersion_NotFound(t *testing.T) {
	docs := newMemDocs()
	svc := newService(docs, newMemBlobs())

	_, err := svc.Upload(context.Background(), editorID, wsID, "notes.txt", "text/plain", []byte("x"))
	require.NoError(t, err)

	_, err = svc.GetVersion(context.Background(), wsID, viewerID, "notes.md", 7)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
