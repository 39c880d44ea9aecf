// Package llm wraps the hosted generative model behind a small client interface.
// Callers pick a model tier; the configuration maps tiers to concrete models.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short free-form answers: follow-ups, chat, topic hints
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: questions and answer evaluations
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form reasoning: final reports
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, currently the only one.
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string

	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     0.7,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 2048,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

// WithSampling returns a copy of c with the given generation parameters.
// Zero values keep the current setting.
func (c *Config) WithSampling(temperature, topP float32, topK, maxOutputTokens int32) *Config {
	newConfig := c.WithModel(TierStandard, c.GetModel(TierStandard))
	if temperature > 0 {
		newConfig.Temperature = temperature
	}
	if topP > 0 {
		newConfig.TopP = topP
	}
	if topK > 0 {
		newConfig.TopK = topK
	}
	if maxOutputTokens > 0 {
		newConfig.MaxOutputTokens = maxOutputTokens
	}
	return newConfig
}
