// internal/api/error_codes.go
package api

// API错误代码常量
const (
	// 通用错误
	ErrorBadRequest    = "BAD_REQUEST"
	ErrorNotFound      = "NOT_FOUND"
	ErrorInternalError = "INTERNAL_ERROR"

	// 输入相关错误
	ErrorInvalidURL  = "INVALID_URL"
	ErrorInvalidBody = "INVALID_BODY"

	// 上游服务相关错误
	ErrorTranscriptFailed = "TRANSCRIPT_FAILED"
	ErrorRAGFailed        = "RAG_FAILED"

	// 任务相关错误
	ErrorTaskNotFound = "TASK_NOT_FOUND"

	// 限流
	ErrorRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)
