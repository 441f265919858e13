// internal/rag/engine_test.go
package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Corphon/TubeScribe/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider 返回预设向量与固定回答的测试提供者。
// vectors 按文本前缀匹配；未匹配的输入得到默认向量。
type stubProvider struct {
	vectors      map[string][]float32
	defaultVec   []float32
	completion   string
	completeErr  error
	embedErr     error
	lastPrompt   string
	embedBatches [][]string
}

func (p *stubProvider) Initialize(config map[string]string) error { return nil }
func (p *stubProvider) GetName() string                           { return "stub" }
func (p *stubProvider) GetSupportedModels() []string              { return []string{"stub-model"} }

func (p *stubProvider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.completeErr != nil {
		return nil, p.completeErr
	}
	p.lastPrompt = req.Prompt
	return &llm.CompletionResponse{Text: p.completion, ProviderName: "stub"}, nil
}

func (p *stubProvider) EmbedTexts(ctx context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	if p.embedErr != nil {
		return nil, p.embedErr
	}
	p.embedBatches = append(p.embedBatches, req.Inputs)

	vectors := make([][]float32, len(req.Inputs))
	for i, input := range req.Inputs {
		vectors[i] = p.defaultVec
		for prefix, vec := range p.vectors {
			if strings.HasPrefix(input, prefix) {
				vectors[i] = vec
				break
			}
		}
	}
	return &llm.EmbeddingResponse{Vectors: vectors, ProviderName: "stub"}, nil
}

// writeDoc 写入测试文档并返回路径
func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuildIndex(t *testing.T) {
	provider := &stubProvider{defaultVec: []float32{1, 0, 0}}
	path := writeDoc(t, "alpha beta gamma delta")

	index, err := BuildIndex(context.Background(), provider, path, IndexOptions{
		ChunkSize:    2,
		ChunkOverlap: 1,
	})
	require.NoError(t, err)
	assert.Greater(t, index.Size(), 1)

	// 所有片段在一次批量调用中完成嵌入
	require.Len(t, provider.embedBatches, 1)
	assert.Len(t, provider.embedBatches[0], index.Size())
}

func TestBuildIndexZeroOverlap(t *testing.T) {
	provider := &stubProvider{defaultVec: []float32{1, 0, 0}}
	path := writeDoc(t, "w0 w1 w2 w3 w4 w5 w6 w7 w8 w9")

	// 显式的零重叠按原值生效，不会被替换成默认值
	index, err := BuildIndex(context.Background(), provider, path, IndexOptions{
		ChunkSize:    4,
		ChunkOverlap: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, index.Size())
}

func TestBuildIndexDefaultOptions(t *testing.T) {
	provider := &stubProvider{defaultVec: []float32{1, 0, 0}}
	path := writeDoc(t, "a small document")

	// 零值选项退回默认片段长度
	index, err := BuildIndex(context.Background(), provider, path, IndexOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, index.Size())
}

func TestBuildIndexEmptyDocument(t *testing.T) {
	provider := &stubProvider{defaultVec: []float32{1, 0, 0}}
	path := writeDoc(t, "   ")

	_, err := BuildIndex(context.Background(), provider, path, IndexOptions{})
	assert.Error(t, err)
}

func TestBuildIndexEmbedFailure(t *testing.T) {
	provider := &stubProvider{embedErr: errors.New("quota exceeded")}
	path := writeDoc(t, "some transcript content")

	_, err := BuildIndex(context.Background(), provider, path, IndexOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSearchRanking(t *testing.T) {
	// 三个片段：apple与查询向量同向，banana正交，cherry反向
	provider := &stubProvider{
		vectors: map[string][]float32{
			"apple":  {1, 0, 0},
			"banana": {0, 1, 0},
			"cherry": {-1, 0, 0},
		},
		defaultVec: []float32{0, 0, 1},
	}
	path := writeDoc(t, "apple banana cherry")

	index, err := BuildIndex(context.Background(), provider, path, IndexOptions{
		ChunkSize:    1,
		ChunkOverlap: 0,
	})
	require.NoError(t, err)
	require.Equal(t, 3, index.Size())

	results := index.Search([]float32{1, 0, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "apple", results[0].Chunk.Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Greater(t, results[0].Score, results[1].Score)

	// topK超过片段数时返回全部
	assert.Len(t, index.Search([]float32{1, 0, 0}, 10), 3)
	assert.Nil(t, index.Search([]float32{1, 0, 0}, 0))
}

func TestQueryEngine(t *testing.T) {
	provider := &stubProvider{
		vectors: map[string][]float32{
			"relevant": {1, 0, 0},
			"other":    {0, 1, 0},
			"What":     {1, 0, 0}, // 查询指令的向量
		},
		defaultVec: []float32{0, 0, 1},
		completion: "generated answer",
	}
	path := writeDoc(t, "relevant other")

	index, err := BuildIndex(context.Background(), provider, path, IndexOptions{
		ChunkSize:    1,
		ChunkOverlap: 0,
	})
	require.NoError(t, err)

	engine := NewQueryEngine(index, provider, EngineOptions{Model: "stub-model", TopK: 1})

	answer, err := engine.Query(context.Background(), "What is this about?")
	require.NoError(t, err)

	// 响应原样返回，不做任何后处理
	assert.Equal(t, "generated answer", answer)

	// 提示包含检索到的上下文与查询本身
	assert.Contains(t, provider.lastPrompt, "Context information is below.")
	assert.Contains(t, provider.lastPrompt, "relevant")
	assert.NotContains(t, provider.lastPrompt, "other")
	assert.Contains(t, provider.lastPrompt, "Query: What is this about?")
	assert.Contains(t, provider.lastPrompt, "Answer: ")
}

func TestQueryEngineEmptyQuestion(t *testing.T) {
	provider := &stubProvider{defaultVec: []float32{1}}
	path := writeDoc(t, "content")

	index, err := BuildIndex(context.Background(), provider, path, IndexOptions{})
	require.NoError(t, err)

	engine := NewQueryEngine(index, provider, EngineOptions{})
	_, err = engine.Query(context.Background(), "   ")
	assert.Error(t, err)
}

func TestQueryEngineCompletionFailure(t *testing.T) {
	provider := &stubProvider{
		defaultVec:  []float32{1, 0},
		completeErr: errors.New("model overloaded"),
	}
	path := writeDoc(t, "some content here")

	index, err := BuildIndex(context.Background(), provider, path, IndexOptions{})
	require.NoError(t, err)

	engine := NewQueryEngine(index, provider, EngineOptions{})
	_, err = engine.Query(context.Background(), "summarize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}
