// internal/rag/splitter.go
package rag

import (
	"fmt"
	"strings"
)

const (
	// DefaultChunkSize 单个片段的目标长度（词单位），
	// 与嵌入模型的输入限制对应
	DefaultChunkSize = 1024
	// DefaultChunkOverlap 相邻片段的重叠长度，保持跨片段的语义连续
	DefaultChunkOverlap = 200
)

// Splitter 将长文档切分为带重叠的片段
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewSplitter 创建切分器；overlap必须小于size
func NewSplitter(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size必须为正数: %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap必须在[0, %d)之间: %d", chunkSize, chunkOverlap)
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Split 切分文本。片段按词累积到chunkSize，优先在句子边界断开，
// 下一个片段从重叠位置继续，保证原文的词序完整出现。
func (s *Splitter) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= s.chunkSize {
		return []string{strings.Join(words, " ")}
	}

	step := s.chunkSize - s.chunkOverlap
	chunks := make([]string, 0, (len(words)+step-1)/step)

	for start := 0; start < len(words); start += step {
		end := start + s.chunkSize
		if end >= len(words) {
			chunks = append(chunks, strings.Join(words[start:], " "))
			break
		}

		// 在片段后半段回退到最近的句子结尾
		cut := end
		for i := end - 1; i > start+s.chunkSize/2; i-- {
			if endsSentence(words[i-1]) {
				cut = i
				break
			}
		}

		chunks = append(chunks, strings.Join(words[start:cut], " "))
		step = cut - start - s.chunkOverlap
		if step < 1 {
			step = 1
		}
	}

	return chunks
}

// endsSentence 判断词是否以句末标点结束（允许尾随引号或括号）
func endsSentence(word string) bool {
	trimmed := strings.TrimRight(word, `"')]`)
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return strings.HasSuffix(trimmed, "。") || strings.HasSuffix(trimmed, "！") || strings.HasSuffix(trimmed, "？")
}
