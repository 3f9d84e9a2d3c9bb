package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for SkyDoc
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Qdrant    QdrantConfig    `mapstructure:"qdrant"`
	RAG       RAGConfig       `mapstructure:"rag"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds the document registry database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// WeatherConfig holds the weather data source configuration
type WeatherConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	// Fallback cities when no city could be extracted from the query.
	DefaultLocalCity string `mapstructure:"default_local_city"`
	DefaultCity      string `mapstructure:"default_city"`
}

// LLMConfig holds the completion provider configuration
type LLMConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// EmbeddingConfig holds the embedding provider configuration
type EmbeddingConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	Dimension int    `mapstructure:"dimension"`
}

// QdrantConfig holds connection details for the vector store
type QdrantConfig struct {
	URL         string `mapstructure:"url"`
	APIKey      string `mapstructure:"api_key"`
	Collection  string `mapstructure:"collection"`
	Distance    string `mapstructure:"distance"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// RAGConfig holds chunking and retrieval configuration
type RAGConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
	TopK         int `mapstructure:"top_k"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SKYDOC")
	v.AutomaticEnv()

	// Provider credentials also honor the vendors' conventional variable names
	v.BindEnv("embedding.api_key", "SKYDOC_EMBEDDING_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("weather.api_key", "SKYDOC_WEATHER_API_KEY", "OPENWEATHER_API_KEY")
	v.BindEnv("llm.api_key", "SKYDOC_LLM_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("qdrant.url", "SKYDOC_QDRANT_URL", "QDRANT_URL")
	v.BindEnv("qdrant.api_key", "SKYDOC_QDRANT_API_KEY", "QDRANT_API_KEY")

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.path", "./data/skydoc.db")

	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5/weather")
	v.SetDefault("weather.timeout_secs", 10)
	v.SetDefault("weather.default_local_city", "Delhi")
	v.SetDefault("weather.default_city", "London")

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4.1-nano")
	v.SetDefault("llm.timeout_secs", 30)

	v.SetDefault("embedding.model", "text-embedding-004")
	v.SetDefault("embedding.dimension", 768)

	v.SetDefault("qdrant.url", "http://localhost:6333")
	v.SetDefault("qdrant.collection", "skydoc_docs")
	v.SetDefault("qdrant.distance", "Cosine")
	v.SetDefault("qdrant.timeout_secs", 15)

	v.SetDefault("rag.chunk_size", 1000)
	v.SetDefault("rag.chunk_overlap", 200)
	v.SetDefault("rag.top_k", 3)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
