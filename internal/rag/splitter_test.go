// internal/rag/splitter_test.go
package rag

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSplitterValidation(t *testing.T) {
	_, err := NewSplitter(0, 0)
	assert.Error(t, err)

	_, err = NewSplitter(100, 100)
	assert.Error(t, err)

	_, err = NewSplitter(100, -1)
	assert.Error(t, err)

	s, err := NewSplitter(100, 20)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestSplitShortText(t *testing.T) {
	s, err := NewSplitter(100, 20)
	require.NoError(t, err)

	// 不超过片段长度的文本原样返回
	chunks := s.Split("a short transcript")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short transcript", chunks[0])

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplitLongText(t *testing.T) {
	s, err := NewSplitter(50, 10)
	require.NoError(t, err)

	// 生成200个可定位的词
	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("w%03d", i)
	}
	text := strings.Join(words, " ")

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		chunkWords := strings.Fields(chunk)
		assert.LessOrEqual(t, len(chunkWords), 50, "chunk %d 超过片段长度", i)

		// 相邻片段必须有重叠：下一片段以本片段的尾部词开始
		if i+1 < len(chunks) {
			nextWords := strings.Fields(chunks[i+1])
			assert.Contains(t, chunkWords, nextWords[0], "chunk %d 与 chunk %d 没有重叠", i, i+1)
		}
	}

	// 最后一个片段必须以原文最后一个词结束
	lastChunk := strings.Fields(chunks[len(chunks)-1])
	assert.Equal(t, "w199", lastChunk[len(lastChunk)-1])

	// 原文词序在拼接中完整出现：每个片段的起始词索引单调递增
	prevStart := -1
	for _, chunk := range chunks {
		first := strings.Fields(chunk)[0]
		var idx int
		_, err := fmt.Sscanf(first, "w%d", &idx)
		require.NoError(t, err)
		assert.Greater(t, idx, prevStart)
		prevStart = idx
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	s, err := NewSplitter(20, 5)
	require.NoError(t, err)

	// 第15个词以句号结束，切分应该回退到它之后
	words := make([]string, 60)
	for i := range words {
		words[i] = fmt.Sprintf("w%02d", i)
	}
	words[14] = "w14."
	text := strings.Join(words, " ")

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	assert.True(t, strings.HasSuffix(chunks[0], "w14."), "第一个片段应在句子边界结束: %q", chunks[0])
}

func TestEndsSentence(t *testing.T) {
	assert.True(t, endsSentence("end."))
	assert.True(t, endsSentence("what?"))
	assert.True(t, endsSentence("stop!"))
	assert.True(t, endsSentence(`said."`))
	assert.True(t, endsSentence("完了。"))
	assert.False(t, endsSentence("middle"))
	assert.False(t, endsSentence("3.14"))
	assert.False(t, endsSentence(""))
}
