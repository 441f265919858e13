// internal/api/handlers.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/Corphon/TubeScribe/internal/errors"
	"github.com/Corphon/TubeScribe/internal/models"
	"github.com/Corphon/TubeScribe/internal/services"
	"github.com/Corphon/TubeScribe/internal/youtube"
	"github.com/gin-gonic/gin"
)

// 各阶段的超时时间
const (
	transcriptTimeout = 30 * time.Second
	ragTimeout        = 2 * time.Minute
	pipelineTimeout   = 10 * time.Minute
)

// Handler 处理API请求
type Handler struct {
	TranscriptService *services.TranscriptService // 字幕服务
	RAGService        *services.RAGService        // 检索增强生成服务
	TaskService       *services.TaskService       // 异步任务服务
}

// NewHandler 创建API处理器
func NewHandler(
	transcriptService *services.TranscriptService,
	ragService *services.RAGService,
	taskService *services.TaskService,
) *Handler {
	return &Handler{
		TranscriptService: transcriptService,
		RAGService:        ragService,
		TaskService:       taskService,
	}
}

// Root 服务标识
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "YouTube RAG Blog Generator API",
		"status":  "running",
	})
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Server is running",
	})
}

// ExtractTranscript 提取字幕：URL解析 + 字幕抓取
func (h *Handler) ExtractTranscript(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), transcriptTimeout)
	defer cancel()

	transcript, videoID, err := h.TranscriptService.ExtractTranscript(ctx, req.VideoURL)
	if err != nil {
		if apperrors.IsValidationError(err) {
			h.invalidURL(c)
			return
		}
		// 上游失败保持200状态，由success字段区分
		c.JSON(http.StatusOK, models.TranscriptResponse{
			Success: false,
			Message: fmt.Sprintf("Error extracting transcript: %s", errorMessage(err)),
		})
		return
	}

	c.JSON(http.StatusOK, models.TranscriptResponse{
		Transcript: transcript,
		VideoID:    videoID,
		Success:    true,
		Message:    "Transcript extracted successfully",
	})
}

// GenerateSummary 完整流水线 + 摘要指令
func (h *Handler) GenerateSummary(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ragTimeout)
	defer cancel()

	transcript, _, err := h.TranscriptService.ExtractTranscript(ctx, req.VideoURL)
	if err != nil {
		if apperrors.IsValidationError(err) {
			h.invalidURL(c)
			return
		}
		c.JSON(http.StatusOK, models.SummaryResponse{
			Success: false,
			Message: fmt.Sprintf("Error generating summary: %s", errorMessage(err)),
		})
		return
	}

	summary, err := h.RAGService.GenerateSummary(ctx, req.APIKey, transcript)
	if err != nil {
		c.JSON(http.StatusOK, models.SummaryResponse{
			Success: false,
			Message: fmt.Sprintf("Error generating summary: %s", errorMessage(err)),
		})
		return
	}

	c.JSON(http.StatusOK, models.SummaryResponse{
		Summary: summary,
		Success: true,
		Message: "Summary generated successfully",
	})
}

// GenerateBlog 完整流水线 + 博客指令
func (h *Handler) GenerateBlog(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ragTimeout)
	defer cancel()

	transcript, _, err := h.TranscriptService.ExtractTranscript(ctx, req.VideoURL)
	if err != nil {
		if apperrors.IsValidationError(err) {
			h.invalidURL(c)
			return
		}
		c.JSON(http.StatusOK, models.BlogResponse{
			Success: false,
			Message: fmt.Sprintf("Error generating blog: %s", errorMessage(err)),
		})
		return
	}

	blog, err := h.RAGService.GenerateBlog(ctx, req.APIKey, transcript)
	if err != nil {
		c.JSON(http.StatusOK, models.BlogResponse{
			Success: false,
			Message: fmt.Sprintf("Error generating blog: %s", errorMessage(err)),
		})
		return
	}

	c.JSON(http.StatusOK, models.BlogResponse{
		BlogContent: blog,
		Success:     true,
		Message:     "Blog post generated successfully",
	})
}

// ProcessComplete 完整流程：抓取一次字幕，建立一次索引，
// 依次发出摘要与博客两条指令
func (h *Handler) ProcessComplete(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ragTimeout)
	defer cancel()

	transcript, videoID, err := h.TranscriptService.ExtractTranscript(ctx, req.VideoURL)
	if err != nil {
		if apperrors.IsValidationError(err) {
			h.invalidURL(c)
			return
		}
		c.JSON(http.StatusOK, models.ProcessResponse{
			Success: false,
			Message: fmt.Sprintf("Error in complete processing: %s", errorMessage(err)),
		})
		return
	}

	summary, blog, err := h.RAGService.ProcessComplete(ctx, req.APIKey, transcript)
	if err != nil {
		c.JSON(http.StatusOK, models.ProcessResponse{
			Success: false,
			Message: fmt.Sprintf("Error in complete processing: %s", errorMessage(err)),
		})
		return
	}

	c.JSON(http.StatusOK, models.ProcessResponse{
		Transcript:  transcript,
		Summary:     summary,
		BlogContent: blog,
		VideoID:     videoID,
		Success:     true,
		Message:     "Complete processing successful",
	})
}

// ProcessAsync 在后台运行完整流程，立即返回任务ID。
// 进度可通过 GET /tasks/:task_id 轮询或 /ws/progress/:task_id 订阅。
func (h *Handler) ProcessAsync(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	// URL先行校验，避免启动一个注定失败的任务
	if youtube.ExtractVideoID(req.VideoURL) == "" {
		h.invalidURL(c)
		return
	}

	tracker := h.TaskService.CreateTracker()
	go h.runPipeline(tracker, req)

	c.JSON(http.StatusAccepted, models.TaskResponse{
		TaskID:  tracker.TaskID,
		Success: true,
		Message: "Processing started",
	})
}

// runPipeline 后台执行完整流程并更新进度
func (h *Handler) runPipeline(tracker *services.TaskTracker, req models.YouTubeRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
	defer cancel()

	tracker.UpdateProgress(10, "Extracting transcript")
	transcript, videoID, err := h.TranscriptService.ExtractTranscript(ctx, req.VideoURL)
	if err != nil {
		tracker.Fail(fmt.Sprintf("Error in complete processing: %s", errorMessage(err)))
		return
	}

	tracker.UpdateProgress(40, "Building retrieval index and generating content")
	summary, blog, err := h.RAGService.ProcessComplete(ctx, req.APIKey, transcript)
	if err != nil {
		tracker.Fail(fmt.Sprintf("Error in complete processing: %s", errorMessage(err)))
		return
	}

	tracker.Complete(&models.ProcessResponse{
		Transcript:  transcript,
		Summary:     summary,
		BlogContent: blog,
		VideoID:     videoID,
		Success:     true,
		Message:     "Complete processing successful",
	})
}

// GetTaskStatus 查询异步任务状态
func (h *Handler) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("task_id")

	tracker, exists := h.TaskService.GetTracker(taskID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, tracker.Snapshot())
}

// bindRequest 解析统一请求体，失败时返回400
func (h *Handler) bindRequest(c *gin.Context) (models.YouTubeRequest, bool) {
	var req models.YouTubeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return req, false
	}
	return req, true
}

// invalidURL 无法识别的链接按客户端错误处理
func (h *Handler) invalidURL(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid YouTube URL"})
}

// errorMessage 取出面向调用方的错误描述。
// AppError只暴露Message，避免把内部错误链重复拼进响应。
func errorMessage(err error) string {
	var appError *apperrors.AppError
	if errors.As(err, &appError) {
		return appError.Message
	}
	return err.Error()
}
