// internal/app/app.go
package app

import (
	"fmt"
	"time"

	"github.com/Corphon/TubeScribe/internal/config"
	"github.com/Corphon/TubeScribe/internal/di"
	"github.com/Corphon/TubeScribe/internal/services"
	"github.com/Corphon/TubeScribe/internal/youtube"

	// 注册所有LLM提供者
	_ "github.com/Corphon/TubeScribe/internal/llm/providers/openai"
	_ "github.com/Corphon/TubeScribe/internal/llm/providers/openrouter"
)

// InitServices 按依赖顺序初始化所有服务并注册到容器。
// 路由层只从容器取服务，不自行创建实例。
func InitServices() error {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("配置尚未加载")
	}

	container := di.GetContainer()

	// 1. 字幕客户端 + 字幕服务（无内部依赖）
	ytClient := youtube.NewClient()
	transcriptService := services.NewTranscriptService(ytClient)
	container.Register("transcript", transcriptService)

	// 2. RAG服务（依赖配置）
	ragService := services.NewRAGService(cfg)
	container.Register("rag", ragService)

	// 3. 异步任务服务
	retention := time.Duration(cfg.TaskRetentionMinutes) * time.Minute
	taskService := services.NewTaskService(retention)
	container.Register("task", taskService)

	return nil
}
