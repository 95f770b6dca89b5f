package boot

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env     string `env:"ENV,default=dev"`
	DataDir string `env:"DATA_DIR"`
	Server  struct {
		Port        string `env:"PORT,default=8080"`
		MetricsPort string `env:"METRICS_PORT,default=8081"`
	}
	Telegram struct {
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
		BaseURL  string `env:"TELEGRAM_BASE_URL,default=https://api.telegram.org"`
	}
	OpenAI struct {
		APIKey      string `env:"OPENAI_API_KEY"`
		Model       string `env:"OPENAI_MODEL,default=gpt-4o"`
		BaseURL     string `env:"OPENAI_BASE_URL,default=https://api.openai.com"`
		PersonaFile string `env:"PERSONA_FILE"`
	}
	LinkedIn struct {
		AccessToken string `env:"LINKEDIN_ACCESS_TOKEN"`
		AuthorURN   string `env:"LINKEDIN_AUTHOR_URN"`
		BaseURL     string `env:"LINKEDIN_BASE_URL,default=https://api.linkedin.com"`
	}
	Auth struct {
		JWTSecret string `env:"JWT_SECRET,default=dev-secret"`
	}
}

func Load() (*Config, error) {
	config := &Config{}
	if err := envconfig.Process(context.Background(), config); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}
