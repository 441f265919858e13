// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// 当前配置的单例实例
var (
	currentConfig *AppConfig
	configMutex   sync.RWMutex
)

// AppConfig 包含应用程序的所有配置
type AppConfig struct {
	// 基础配置
	Host      string `json:"host"`
	Port      string `json:"port"`
	TempDir   string `json:"temp_dir"`
	LogDir    string `json:"log_dir"`
	DebugMode bool   `json:"debug_mode"`

	// LLM相关配置
	LLMProvider    string `json:"llm_provider"`
	OpenAIAPIKey   string `json:"openai_api_key,omitempty"`
	DefaultModel   string `json:"default_model"`
	EmbeddingModel string `json:"embedding_model"`

	// 索引分块策略（与嵌入模型的输入限制对应）
	ChunkSize    int `json:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap"`

	// 异步任务保留时长（分钟）
	TaskRetentionMinutes int `json:"task_retention_minutes"`
}

// Load 从环境变量加载配置
func Load() (*AppConfig, error) {
	// 尝试加载.env文件（可选）
	godotenv.Load()

	config := &AppConfig{
		Host:                 getEnv("HOST", "0.0.0.0"),
		Port:                 getEnv("PORT", "8000"),
		TempDir:              getEnv("TEMP_DIR", "temp"),
		LogDir:               getEnv("LOG_DIR", "logs"),
		DebugMode:            getEnvBool("DEBUG_MODE", true),
		LLMProvider:          getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		DefaultModel:         getEnv("DEFAULT_MODEL", "gpt-3.5-turbo"),
		EmbeddingModel:       getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		ChunkSize:            getEnvInt("CHUNK_SIZE", 1024),
		ChunkOverlap:         getEnvInt("CHUNK_OVERLAP", 200),
		TaskRetentionMinutes: getEnvInt("TASK_RETENTION_MINUTES", 30),
	}

	// API密钥由每个请求携带，环境变量只作为后备
	if config.OpenAIAPIKey == "" {
		log.Println("提示: 未设置OPENAI_API_KEY，请求必须在请求体中携带api_key")
	}

	configMutex.Lock()
	currentConfig = config
	configMutex.Unlock()

	return config, nil
}

// GetCurrentConfig 返回当前配置的副本
func GetCurrentConfig() *AppConfig {
	configMutex.RLock()
	cfg := currentConfig
	configMutex.RUnlock()

	if cfg == nil {
		loaded, _ := Load()
		return loaded
	}

	configCopy := *cfg
	return &configCopy
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool 获取布尔类型环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt 获取整数类型环境变量
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("警告: 环境变量 %s 不是合法整数(%q)，使用默认值 %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
