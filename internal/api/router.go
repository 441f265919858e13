// internal/api/router.go
package api

import (
	"fmt"
	"net/http"

	"github.com/Corphon/TubeScribe/internal/di"
	"github.com/Corphon/TubeScribe/internal/services"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置HTTP路由
func SetupRouter() (*gin.Engine, error) {
	// 获取依赖注入容器
	container := di.GetContainer()

	// 只从容器获取服务，不再创建新实例
	transcriptService, ok := container.Get("transcript").(*services.TranscriptService)
	if !ok {
		return nil, fmt.Errorf("字幕服务未正确初始化")
	}

	ragService, ok := container.Get("rag").(*services.RAGService)
	if !ok {
		return nil, fmt.Errorf("RAG服务未正确初始化")
	}

	taskService, ok := container.Get("task").(*services.TaskService)
	if !ok {
		return nil, fmt.Errorf("任务服务未正确初始化")
	}

	handler := NewHandler(transcriptService, ragService, taskService)

	// 创建路由
	r := gin.Default()

	// 启用CORS
	r.Use(corsMiddleware())

	// ===============================
	// 状态路由
	// ===============================
	r.GET("/", handler.Root)
	r.GET("/health", handler.Health)

	// ===============================
	// 处理路由
	// ===============================
	r.POST("/extract-transcript", DefaultRateLimit(), handler.ExtractTranscript)
	r.POST("/generate-summary", RAGRateLimit(), handler.GenerateSummary)
	r.POST("/generate-blog", RAGRateLimit(), handler.GenerateBlog)
	r.POST("/process-complete", RAGRateLimit(), handler.ProcessComplete)
	r.POST("/process-async", RAGRateLimit(), handler.ProcessAsync)

	// ===============================
	// 任务路由
	// ===============================
	r.GET("/tasks/:task_id", handler.GetTaskStatus)
	r.GET("/ws/progress/:task_id", handler.ProgressWebSocket)

	return r, nil
}

// corsMiddleware 实现跨域资源共享
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
