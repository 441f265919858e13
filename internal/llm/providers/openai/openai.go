// internal/llm/providers/openai/openai.go
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/Corphon/TubeScribe/internal/llm"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

func init() {
	llm.Register("openai", func() llm.Provider {
		return &Provider{
			supportedModels: []string{
				"gpt-3.5-turbo",
				"gpt-4o-mini",
				"gpt-4o",
				"gpt-4.1-mini",
				"gpt-4.1",
			},
		}
	})
}

// Provider 基于官方SDK的OpenAI提供者，同时承担生成与嵌入
type Provider struct {
	client                *openai.Client
	defaultModel          string
	defaultEmbeddingModel string
	supportedModels       []string
}

func (p *Provider) Initialize(config map[string]string) error {
	apiKey, exists := config["api_key"]
	if !exists || apiKey == "" {
		return llm.ErrAPIKeyMissing
	}

	requestOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL, exists := config["base_url"]; exists && baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(requestOpts...)
	p.client = &client

	if model, exists := config["default_model"]; exists && model != "" {
		p.defaultModel = model
	} else {
		p.defaultModel = "gpt-3.5-turbo"
	}

	if model, exists := config["embedding_model"]; exists && model != "" {
		p.defaultEmbeddingModel = model
	} else {
		p.defaultEmbeddingModel = "text-embedding-ada-002"
	}

	return nil
}

func (p *Provider) GetName() string {
	return "OpenAI"
}

func (p *Provider) GetSupportedModels() []string {
	return p.supportedModels
}

func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(model),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(float64(req.Temperature))
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	response, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI聊天接口调用失败: %w", err)
	}

	if len(response.Choices) == 0 {
		return nil, errors.New("OpenAI未返回任何结果")
	}

	return &llm.CompletionResponse{
		Text:         response.Choices[0].Message.Content,
		FinishReason: string(response.Choices[0].FinishReason),
		TokensUsed:   int(response.Usage.TotalTokens),
		PromptTokens: int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		ModelName:    response.Model,
		ProviderName: p.GetName(),
	}, nil
}

func (p *Provider) EmbedTexts(ctx context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	if len(req.Inputs) == 0 {
		return nil, errors.New("嵌入请求至少需要一条输入")
	}

	model := req.Model
	if model == "" {
		model = p.defaultEmbeddingModel
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: append([]string(nil), req.Inputs...),
		},
		Model: openai.EmbeddingModel(model),
	}

	response, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI嵌入接口调用失败: %w", err)
	}

	if len(response.Data) != len(req.Inputs) {
		return nil, fmt.Errorf("嵌入结果数量不匹配: 期望%d, 实际%d", len(req.Inputs), len(response.Data))
	}

	// 按API返回的Index归位，不依赖Data的排列顺序
	vectors := make([][]float32, len(req.Inputs))
	for _, item := range response.Data {
		idx := int(item.Index)
		if idx < 0 || idx >= len(vectors) {
			return nil, fmt.Errorf("嵌入结果下标越界: %d", item.Index)
		}

		vector := make([]float32, len(item.Embedding))
		for i, value := range item.Embedding {
			vector[i] = float32(value)
		}
		vectors[idx] = vector
	}

	for i, vector := range vectors {
		if vector == nil {
			return nil, fmt.Errorf("缺少第%d条输入的嵌入结果", i)
		}
	}

	return &llm.EmbeddingResponse{
		Vectors:      vectors,
		ModelName:    response.Model,
		TokensUsed:   int(response.Usage.TotalTokens),
		ProviderName: p.GetName(),
	}, nil
}
