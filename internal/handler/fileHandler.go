package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"workspace-service/internal/service/fileService"
	"workspace-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FileHandler struct {
	files *fileService.FileService
}

func NewFileHandler(files *fileService.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// Upload принимает multipart-форму: file обязателен, workspace_id опционален
// (без него файл уходит в workspace по умолчанию).
func (h *FileHandler) Upload(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	uploadedFile, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	workspaceID := uuid.Nil
	if raw := c.PostForm("workspace_id"); raw != "" {
		workspaceID, err = uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
			return
		}
	}

	src, err := uploadedFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	f, err := h.files.Upload(c.Request.Context(), uid, workspaceID,
		uploadedFile.Filename, uploadedFile.Header.Get("Content-Type"), data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}

func (h *FileHandler) ListFiles(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	files, err := h.files.ListWorkspaceFiles(c.Request.Context(), workspaceID, uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *FileHandler) GetFile(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	f, err := h.files.GetFile(c.Request.Context(), workspaceID, uid, c.Param("filename"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}

// DownloadOriginal отдаёт исходные байты загрузки (до конвертации в markdown).
func (h *FileHandler) DownloadOriginal(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	r, f, err := h.files.DownloadOriginal(c.Request.Context(), workspaceID, uid, c.Param("filename"))
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := io.ReadAll(r)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read original file"})
		return
	}

	originalName := strings.TrimSuffix(f.Filename, ".md") + f.FileType
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", originalName))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (h *FileHandler) DeleteFile(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	if err := h.files.Delete(c.Request.Context(), workspaceID, uid, c.Param("filename")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}

// ListVersions отдаёт журнал версий; ?version=N вернёт одну версию.
func (h *FileHandler) ListVersions(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}
	filename := c.Param("filename")

	if raw := c.Query("version"); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version number"})
			return
		}
		v, err := h.files.GetVersion(c.Request.Context(), workspaceID, uid, filename, number)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
		return
	}

	versions, err := h.files.ListVersions(c.Request.Context(), workspaceID, uid, filename)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"versions": versions})
}
