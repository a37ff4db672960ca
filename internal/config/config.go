package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合客户端与开发后端的全部配置项。
type Config struct {
	Client    ClientConfig
	Server    ServerConfig
	AI        AIConfig
	Sentiment SentimentConfig
	Log       LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Client.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Server.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Scan payload decoders.
const (
	DecoderNaive = "naive"
	DecoderQuery = "query"
)

// ClientConfig 描述终端客户端访问后端所需的配置。
type ClientConfig struct {
	BaseURL         string        `env:"CONCIERGE_API_BASE_URL" envDefault:"http://localhost:5555/api/v1"`
	Timeout         time.Duration `env:"CONCIERGE_HTTP_TIMEOUT" envDefault:"15s"`
	CredentialsPath string        `env:"CONCIERGE_CREDENTIALS_PATH"`
	ScanDecoder     string        `env:"CONCIERGE_SCAN_DECODER" envDefault:"naive"`
}

func (c *ClientConfig) normalize() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return fmt.Errorf("CONCIERGE_API_BASE_URL must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid CONCIERGE_HTTP_TIMEOUT value %q", c.Timeout)
	}

	c.ScanDecoder = strings.ToLower(strings.TrimSpace(c.ScanDecoder))
	switch c.ScanDecoder {
	case DecoderNaive, DecoderQuery:
	default:
		return fmt.Errorf("invalid CONCIERGE_SCAN_DECODER value %q", c.ScanDecoder)
	}

	if c.CredentialsPath == "" {
		path, err := DefaultCredentialsPath()
		if err != nil {
			return fmt.Errorf("resolve credentials path: %w", err)
		}
		c.CredentialsPath = path
	}
	return nil
}

// DefaultCredentialsPath 返回 $XDG_CONFIG_HOME/concierge/credentials.json。
func DefaultCredentialsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "concierge", "credentials.json"), nil
}

// ServerConfig 描述开发后端的 HTTP 服务配置。
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"5555"`
	Addr string `env:"-"`
}

// normalize 解析服务器监听地址。
func (c *ServerConfig) normalize() error {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "5555"
	}

	if strings.Contains(port, ":") {
		// 允许直接传入 ":5555" 或 "127.0.0.1:5555"。
		c.Addr = port
		return nil
	}

	if strings.Contains(port, " ") {
		return fmt.Errorf("invalid PORT value: %q", port)
	}

	c.Addr = ":" + port
	return nil
}

// AIConfig 描述开发后端礼宾回复所用的大模型配置。
type AIConfig struct {
	APIKey      string   `env:"ARK_API_KEY"`
	AccessKey   string   `env:"ARK_ACCESS_KEY"`
	SecretKey   string   `env:"ARK_SECRET_KEY"`
	Model       string   `env:"ARK_MODEL"`
	BaseURL     string   `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string   `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature *float64 `env:"ARK_TEMPERATURE"`
	TopP        *float64 `env:"ARK_TOP_P"`
	MaxTokens   *int     `env:"ARK_MAX_TOKENS"`
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

// SentimentConfig 控制评价情感分析是否调用大模型。
type SentimentConfig struct {
	LLMEnabled bool `env:"REVIEW_SENTIMENT_LLM_ENABLED" envDefault:"false"`
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	File   string `env:"LOG_FILE"`
}
