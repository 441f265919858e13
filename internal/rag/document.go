// internal/rag/document.go
package rag

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Document 从暂存文件加载出的通用文档表示
type Document struct {
	ID      string
	Path    string
	Content string
}

// Chunk 文档切分后的片段，嵌入向量在索引构建时填充
type Chunk struct {
	Text      string
	Index     int
	Embedding []float32
}

// SearchResult 带相似度得分的检索结果
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// StageTranscript 将字幕文本写入唯一命名的临时文件。
// 返回文件路径和释放函数；调用方必须在所有退出路径上defer释放。
func StageTranscript(dir, text string) (string, func() error, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", nil, err
		}
	}

	file, err := os.CreateTemp(dir, "transcript-*.txt")
	if err != nil {
		return "", nil, err
	}
	path := file.Name()

	// 写入完整内容并关闭后才把路径交给调用方
	if _, err := file.WriteString(text); err != nil {
		file.Close()
		os.Remove(path)
		return "", nil, err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", nil, err
	}

	release := func() error {
		err := os.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			// 重复释放视为成功
			return nil
		}
		return err
	}

	return path, release, nil
}

// LoadDocument 将暂存文件读入通用文档结构
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	return Document{
		ID:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:    path,
		Content: string(data),
	}, nil
}
