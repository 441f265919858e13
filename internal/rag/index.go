// internal/rag/index.go
package rag

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Corphon/TubeScribe/internal/llm"
)

// IndexOptions 控制索引构建的分块与模型选择。
// ChunkSize为0时使用DefaultChunkSize；ChunkOverlap为0表示不重叠。
type IndexOptions struct {
	ChunkSize      int
	ChunkOverlap   int
	EmbeddingModel string
}

// VectorIndex 单个文档上的内存语义索引。
// 生命周期与请求绑定，请求结束后随作用域销毁，不在请求间共享。
type VectorIndex struct {
	chunks []Chunk
}

// BuildIndex 加载文档、切分、批量嵌入并建立索引
func BuildIndex(ctx context.Context, provider llm.Provider, path string, opts IndexOptions) (*VectorIndex, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, fmt.Errorf("加载文档失败: %w", err)
	}

	chunkSize := opts.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	// ChunkOverlap按调用方给定的值使用，0表示片段不重叠；
	// 非法组合由NewSplitter拦截
	splitter, err := NewSplitter(chunkSize, opts.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	texts := splitter.Split(doc.Content)
	if len(texts) == 0 {
		return nil, errors.New("文档内容为空，无法建立索引")
	}

	embeddings, err := provider.EmbedTexts(ctx, llm.EmbeddingRequest{
		Inputs: texts,
		Model:  opts.EmbeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("嵌入片段失败: %w", err)
	}
	if len(embeddings.Vectors) != len(texts) {
		return nil, fmt.Errorf("嵌入结果数量不匹配: 期望%d, 实际%d", len(texts), len(embeddings.Vectors))
	}

	chunks := make([]Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = Chunk{
			Text:      text,
			Index:     i,
			Embedding: embeddings.Vectors[i],
		}
	}

	return &VectorIndex{chunks: chunks}, nil
}

// Size 返回索引中的片段数
func (idx *VectorIndex) Size() int {
	return len(idx.chunks)
}

// Search 按余弦相似度返回与查询向量最接近的topK个片段
func (idx *VectorIndex) Search(query []float32, topK int) []SearchResult {
	if topK <= 0 || len(idx.chunks) == 0 {
		return nil
	}

	results := make([]SearchResult, 0, len(idx.chunks))
	for _, chunk := range idx.chunks {
		results = append(results, SearchResult{
			Chunk: chunk,
			Score: cosineSimilarity(query, chunk.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

// cosineSimilarity 计算两个向量的余弦相似度，维度不一致时返回0
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
