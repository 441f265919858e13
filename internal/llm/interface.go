// internal/llm/interface.go
package llm

import (
	"context"
	"errors"
)

// 错误定义
var (
	ErrUnknownProvider        = errors.New("未知的AI提供者")
	ErrEmbeddingsNotSupported = errors.New("该提供者不支持嵌入接口")
	ErrAPIKeyMissing          = errors.New("API密钥未提供")
)

// CompletionRequest 文本生成请求的标准化参数
type CompletionRequest struct {
	Prompt       string                 `json:"prompt"`
	SystemPrompt string                 `json:"system_prompt,omitempty"`
	MaxTokens    int                    `json:"max_tokens,omitempty"`
	Temperature  float32                `json:"temperature,omitempty"`
	Model        string                 `json:"model,omitempty"`
	ExtraParams  map[string]interface{} `json:"extra_params,omitempty"`
}

// CompletionResponse 文本生成响应的标准化结构
type CompletionResponse struct {
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"`
	TokensUsed   int    `json:"tokens_used,omitempty"`
	PromptTokens int    `json:"prompt_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// EmbeddingRequest 批量嵌入请求
type EmbeddingRequest struct {
	Inputs []string `json:"inputs"`
	Model  string   `json:"model,omitempty"`
}

// EmbeddingResponse 批量嵌入响应，Vectors与Inputs一一对应
type EmbeddingResponse struct {
	Vectors      [][]float32 `json:"vectors"`
	ModelName    string      `json:"model_name,omitempty"`
	TokensUsed   int         `json:"tokens_used,omitempty"`
	ProviderName string      `json:"provider_name,omitempty"`
}

// Provider 定义所有LLM提供者必须实现的接口。
// 实例由每个请求独立创建，配置互不共享。
type Provider interface {
	// 初始化提供者，传入配置
	Initialize(config map[string]string) error

	// 获取提供者名称
	GetName() string

	// 获取支持的模型列表
	GetSupportedModels() []string

	// 文本生成
	CompleteText(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// 批量文本嵌入；不支持的提供者返回 ErrEmbeddingsNotSupported
	EmbedTexts(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error)
}

// ProviderFactory 提供者工厂函数类型
type ProviderFactory func() Provider

var providers = make(map[string]ProviderFactory)

// Register 注册提供者工厂
func Register(name string, factory ProviderFactory) {
	providers[name] = factory
}

// GetProvider 创建指定名称的提供者实例并完成初始化。
// 每次调用返回全新实例，保证请求之间的凭证隔离。
func GetProvider(name string, config map[string]string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, ErrUnknownProvider
	}

	provider := factory()
	if err := provider.Initialize(config); err != nil {
		return nil, err
	}
	return provider, nil
}

// ListProviders 返回所有已注册的提供者名称
func ListProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}

// GetSupportedModelsForProvider 获取指定提供商支持的模型列表
func GetSupportedModelsForProvider(name string) []string {
	factory, exists := providers[name]
	if !exists {
		return []string{}
	}

	provider := factory()
	return provider.GetSupportedModels()
}
