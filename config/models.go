package config

// Config holds the configuration of the application
// Use cmd.NewAppState to wire it into a running server
type Config struct {
	LLM        LLM              `mapstructure:"llm"`
	Embeddings EmbeddingsConfig `mapstructure:"embeddings"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	Store      StoreConfig      `mapstructure:"store"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Auth       AuthConfig       `mapstructure:"auth"`
}

type LLM struct {
	Service string `mapstructure:"service"`
	Model   string `mapstructure:"model"`
	// OpenAIAPIKey is loaded from ENV not config file.
	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	OpenAIEndpoint string `mapstructure:"openai_endpoint"`
	OpenAIOrgID    string `mapstructure:"openai_org_id"`
}

type EmbeddingsConfig struct {
	Service    string `mapstructure:"service"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	// OpenAIAPIKey is loaded from ENV not config file. Falls back to llm.openai_api_key.
	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	OpenAIEndpoint string `mapstructure:"openai_endpoint"`
	OpenAIOrgID    string `mapstructure:"openai_org_id"`
}

// RetrievalConfig configures the embedding cache used by the retrieval pipeline.
type RetrievalConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
	CacheMaxEntries int `mapstructure:"cache_max_entries"`
}

type StoreConfig struct {
	Type     string         `mapstructure:"type"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Port          int `mapstructure:"port"`
	MaxNoteLength int `mapstructure:"max_note_length"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	Secret   string `mapstructure:"secret"`
	Required bool   `mapstructure:"required"`
}
