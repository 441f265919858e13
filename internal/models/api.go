// internal/models/api.go
package models

// YouTubeRequest 所有处理端点的统一请求体
type YouTubeRequest struct {
	VideoURL string `json:"video_url"` // 任意形式的视频链接
	APIKey   string `json:"api_key"`   // 调用方提供的模型服务凭证
}

// TranscriptResponse 字幕提取响应
type TranscriptResponse struct {
	Transcript string `json:"transcript"`
	VideoID    string `json:"video_id"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
}

// SummaryResponse 摘要生成响应
type SummaryResponse struct {
	Summary string `json:"summary"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BlogResponse 博客生成响应
type BlogResponse struct {
	BlogContent string `json:"blog_content"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
}

// ProcessResponse 完整流程响应：字幕 + 摘要 + 博客
type ProcessResponse struct {
	Transcript  string `json:"transcript"`
	Summary     string `json:"summary"`
	BlogContent string `json:"blog_content"`
	VideoID     string `json:"video_id"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
}

// TaskResponse 异步任务创建响应
type TaskResponse struct {
	TaskID  string `json:"task_id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TaskStatusResponse 异步任务查询响应
type TaskStatusResponse struct {
	TaskID   string           `json:"task_id"`
	Status   string           `json:"status"`   // running / completed / failed
	Progress int              `json:"progress"` // 0-100
	Message  string           `json:"message"`
	Result   *ProcessResponse `json:"result,omitempty"` // 完成后携带
}
