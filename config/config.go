package config

import "fmt"

// ImageTier describes one image-generation tier. The primary tier is tried
// first; the fallback tier is only used when the primary errors.
type ImageTier struct {
	Model string `json:"model"` // e.g. "gpt-image-1", "dall-e-3"
	Size  string `json:"size"`  // e.g. "1536x1024"
}

// Config structure
type Config struct {
	LLMProvider string `json:"llmProvider"` // "OpenAI" or "OpenAI-Compatible"
	APIKey      string `json:"apiKey"`
	BaseURL     string `json:"baseUrl"`
	ModelName   string `json:"modelName"`
	MaxTokens   int    `json:"maxTokens"`

	ImagePrimary  ImageTier `json:"imagePrimary"`
	ImageFallback ImageTier `json:"imageFallback"`

	IconEndpoint string `json:"iconEndpoint"` // icon search API base URL

	ListenAddr     string `json:"listenAddr"`
	DataDir        string `json:"dataDir"` // storage dir for config, decks.db
	RevealInterval int    `json:"revealIntervalMs"`
	HydrationLimit int    `json:"hydrationLimit"` // max concurrent visual resolutions
	DetailedLog    bool   `json:"detailedLog"`
}

// Default returns the configuration used when no config file exists yet.
func Default() Config {
	return Config{
		LLMProvider:    "OpenAI",
		ModelName:      "gpt-4o",
		MaxTokens:      8192,
		ImagePrimary:   ImageTier{Model: "gpt-image-1", Size: "1536x1024"},
		ImageFallback:  ImageTier{Model: "dall-e-3", Size: "1792x1024"},
		IconEndpoint:   "https://api.iconify.design",
		ListenAddr:     "127.0.0.1:8790",
		RevealInterval: 800,
		HydrationLimit: 8,
	}
}

// Validate performs the one-time startup readiness check. It is called by
// the bootstrap only; core services assume a validated config.
func (c Config) Validate() error {
	if c.APIKey == "" && c.LLMProvider != "OpenAI-Compatible" {
		return fmt.Errorf("config: API key is not set")
	}
	if c.ModelName == "" {
		return fmt.Errorf("config: model name is not set")
	}
	if c.RevealInterval <= 0 {
		return fmt.Errorf("config: reveal interval must be positive, got %d", c.RevealInterval)
	}
	if c.HydrationLimit <= 0 {
		return fmt.Errorf("config: hydration limit must be positive, got %d", c.HydrationLimit)
	}
	return nil
}
