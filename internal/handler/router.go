package handler

import (
	"net/http"

	"workspace-service/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter собирает HTTP-поверхность сервиса.
func NewRouter(auth *AuthHandler, workspaces *WorkspaceHandler, files *FileHandler, agent *AgentHandler, verifier middleware.TokenVerifier) *gin.Engine {
	r := gin.Default()

	// Enable CORS
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/register", auth.Register)
		api.POST("/login", auth.Login)

		authorized := api.Group("/")
		authorized.Use(middleware.Auth(verifier))
		{
			authorized.POST("/logout", auth.Logout)
			authorized.POST("/refresh", auth.Refresh)

			authorized.POST("/workspaces", workspaces.Create)
			authorized.GET("/workspaces", workspaces.List)
			authorized.POST("/workspaces/:workspace_id/collaborators", workspaces.AddCollaborator)
			authorized.GET("/workspaces/:workspace_id/collaborators", workspaces.ListCollaborators)
			authorized.DELETE("/workspaces/:workspace_id/collaborators/:user_id", workspaces.RemoveCollaborator)

			authorized.POST("/upload", files.Upload)
			authorized.GET("/workspace/files/:workspace_id", files.ListFiles)
			authorized.GET("/workspace/file/:workspace_id/:filename", files.GetFile)
			authorized.GET("/workspace/file/:workspace_id/:filename/versions", files.ListVersions)
			authorized.GET("/workspace/file/:workspace_id/:filename/original", files.DownloadOriginal)
			authorized.DELETE("/workspace/file/:workspace_id/:filename", files.DeleteFile)

			authorized.POST("/workspace/chat", agent.Chat)
			authorized.GET("/workspace/status/:workspace_id", agent.Status)
		}
	}

	return r
}
