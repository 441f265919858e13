// internal/rag/engine.go
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Corphon/TubeScribe/internal/llm"
)

// DefaultTopK 每次查询检索的片段数
const DefaultTopK = 2

// QueryEngine 绑定在单个索引上的查询接口。
// 检索相关片段后把上下文塞进生成请求，响应原样返回。
type QueryEngine struct {
	index          *VectorIndex
	provider       llm.Provider
	model          string
	embeddingModel string
	topK           int
}

// EngineOptions 查询引擎配置
type EngineOptions struct {
	Model          string
	EmbeddingModel string
	TopK           int
}

// NewQueryEngine 创建查询引擎
func NewQueryEngine(index *VectorIndex, provider llm.Provider, opts EngineOptions) *QueryEngine {
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &QueryEngine{
		index:          index,
		provider:       provider,
		model:          opts.Model,
		embeddingModel: opts.EmbeddingModel,
		topK:           topK,
	}
}

// Query 针对索引回答一条自然语言指令。
// 不重试，也不校验响应的形态或长度。
func (e *QueryEngine) Query(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", errors.New("查询指令不能为空")
	}

	queryEmbedding, err := e.provider.EmbedTexts(ctx, llm.EmbeddingRequest{
		Inputs: []string{question},
		Model:  e.embeddingModel,
	})
	if err != nil {
		return "", fmt.Errorf("嵌入查询失败: %w", err)
	}
	if len(queryEmbedding.Vectors) != 1 {
		return "", fmt.Errorf("查询嵌入结果数量异常: %d", len(queryEmbedding.Vectors))
	}

	results := e.index.Search(queryEmbedding.Vectors[0], e.topK)
	if len(results) == 0 {
		return "", errors.New("索引中没有可检索的片段")
	}

	contextParts := make([]string, 0, len(results))
	for _, result := range results {
		contextParts = append(contextParts, result.Chunk.Text)
	}

	prompt := buildContextPrompt(strings.Join(contextParts, "\n\n"), question)

	response, err := e.provider.CompleteText(ctx, llm.CompletionRequest{
		Prompt: prompt,
		Model:  e.model,
	})
	if err != nil {
		return "", err
	}

	return response.Text, nil
}

// buildContextPrompt 组装带上下文的生成提示
func buildContextPrompt(contextStr, query string) string {
	var builder strings.Builder
	builder.WriteString("Context information is below.\n")
	builder.WriteString("---------------------\n")
	builder.WriteString(contextStr)
	builder.WriteString("\n---------------------\n")
	builder.WriteString("Given the context information and not prior knowledge, answer the query.\n")
	builder.WriteString("Query: ")
	builder.WriteString(query)
	builder.WriteString("\nAnswer: ")
	return builder.String()
}
