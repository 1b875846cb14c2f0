package llm

import "fmt"

// NewClient builds the client for cfg.Provider. Endpoint and model values
// left at the Ollama defaults are dropped for the hosted provider so the
// SDK defaults apply.
func NewClient(cfg Config, observer Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllamaClient(cfg, observer), nil
	case ProviderAnthropic:
		def := DefaultConfig()
		if cfg.Endpoint == def.Endpoint {
			cfg.Endpoint = ""
		}
		if cfg.Model == def.Model {
			cfg.Model = ""
		}
		return NewAnthropicClient(cfg, observer)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, cfg.Provider)
	}
}
