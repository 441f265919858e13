// internal/services/rag_service.go
package services

import (
	"context"

	"github.com/Corphon/TubeScribe/internal/config"
	apperrors "github.com/Corphon/TubeScribe/internal/errors"
	"github.com/Corphon/TubeScribe/internal/llm"
	"github.com/Corphon/TubeScribe/internal/rag"
	"github.com/Corphon/TubeScribe/internal/utils"
)

// SummaryPrompt 摘要指令
const SummaryPrompt = "Provide a comprehensive summary of this content in 3-4 paragraphs, " +
	"highlighting the main topics, key insights, and important takeaways."

// BlogPrompt 博客指令，要求HTML格式的标题与段落
const BlogPrompt = `Write a comprehensive, engaging blog post based on this content.
Structure it with:
1. An engaging title and introduction
2. Main sections with clear headings
3. Key insights and explanations
4. Practical examples or applications
5. A compelling conclusion

Make it informative, well-structured, and engaging for readers.
Use HTML formatting for headings (<h3>) and paragraphs (<p>).`

// RAGService 负责单个请求内的完整检索增强流程：
// 暂存文档 → 切分嵌入 → 建立索引 → 发出指令。
// 索引与凭证都只在请求作用域内存在，请求之间不共享任何状态。
type RAGService struct {
	tempDir        string
	providerName   string
	fallbackAPIKey string
	defaultModel   string
	embeddingModel string
	chunkSize      int
	chunkOverlap   int
	logger         *utils.Logger
}

// NewRAGService 按当前配置创建RAG服务
func NewRAGService(cfg *config.AppConfig) *RAGService {
	return &RAGService{
		tempDir:        cfg.TempDir,
		providerName:   cfg.LLMProvider,
		fallbackAPIKey: cfg.OpenAIAPIKey,
		defaultModel:   cfg.DefaultModel,
		embeddingModel: cfg.EmbeddingModel,
		chunkSize:      cfg.ChunkSize,
		chunkOverlap:   cfg.ChunkOverlap,
		logger:         utils.GetLogger(),
	}
}

// GenerateSummary 对字幕文本生成摘要
func (s *RAGService) GenerateSummary(ctx context.Context, apiKey, transcript string) (string, error) {
	results, err := s.Query(ctx, apiKey, transcript, SummaryPrompt)
	if err != nil {
		return "", err
	}
	return results[0], nil
}

// GenerateBlog 对字幕文本生成博客
func (s *RAGService) GenerateBlog(ctx context.Context, apiKey, transcript string) (string, error) {
	results, err := s.Query(ctx, apiKey, transcript, BlogPrompt)
	if err != nil {
		return "", err
	}
	return results[0], nil
}

// ProcessComplete 建立一次索引，依次发出摘要与博客两条指令
func (s *RAGService) ProcessComplete(ctx context.Context, apiKey, transcript string) (summary, blog string, err error) {
	results, err := s.Query(ctx, apiKey, transcript, SummaryPrompt, BlogPrompt)
	if err != nil {
		return "", "", err
	}
	return results[0], results[1], nil
}

// Query 公共流程：每个请求独立创建提供者实例（凭证隔离），
// 暂存文件在索引建立后立即删除，无论成功与否。
func (s *RAGService) Query(ctx context.Context, apiKey, transcript string, prompts ...string) ([]string, error) {
	provider, err := s.newProvider(apiKey)
	if err != nil {
		return nil, err
	}

	engine, err := s.buildEngine(ctx, provider, transcript)
	if err != nil {
		return nil, err
	}

	results := make([]string, 0, len(prompts))
	for _, prompt := range prompts {
		answer, err := engine.Query(ctx, prompt)
		if err != nil {
			return nil, apperrors.NewUpstreamError(err.Error(), err)
		}
		results = append(results, answer)
	}

	return results, nil
}

// newProvider 用调用方凭证创建提供者，没有则退回服务端配置的密钥
func (s *RAGService) newProvider(apiKey string) (llm.Provider, error) {
	if apiKey == "" {
		apiKey = s.fallbackAPIKey
	}

	provider, err := llm.GetProvider(s.providerName, map[string]string{
		"api_key":         apiKey,
		"default_model":   s.defaultModel,
		"embedding_model": s.embeddingModel,
	})
	if err != nil {
		return nil, apperrors.NewUpstreamError(err.Error(), err)
	}
	return provider, nil
}

// buildEngine 暂存字幕并建立查询引擎。
// defer保证暂存文件在本函数的所有退出路径上被删除，
// 索引建立后文件内容已进入内存，不需要保留。
func (s *RAGService) buildEngine(ctx context.Context, provider llm.Provider, transcript string) (*rag.QueryEngine, error) {
	path, release, err := rag.StageTranscript(s.tempDir, transcript)
	if err != nil {
		// Message会进入响应的message字段，对外保持英文
		return nil, apperrors.NewProcessingError("Failed to stage transcript file", err)
	}
	defer func() {
		if removeErr := release(); removeErr != nil {
			s.logger.Warn("删除暂存文件失败", map[string]interface{}{
				"path":  path,
				"error": removeErr.Error(),
			})
		}
	}()

	index, err := rag.BuildIndex(ctx, provider, path, rag.IndexOptions{
		ChunkSize:      s.chunkSize,
		ChunkOverlap:   s.chunkOverlap,
		EmbeddingModel: s.embeddingModel,
	})
	if err != nil {
		return nil, apperrors.NewUpstreamError(err.Error(), err)
	}

	s.logger.Info("索引建立完成", map[string]interface{}{
		"chunks":   index.Size(),
		"provider": provider.GetName(),
	})

	return rag.NewQueryEngine(index, provider, rag.EngineOptions{
		Model:          s.defaultModel,
		EmbeddingModel: s.embeddingModel,
	}), nil
}
