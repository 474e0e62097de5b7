package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type MergeConfig struct {
	// Threshold drives both area matching and field-conflict detection.
	Threshold          float64 `toml:"threshold"`
	DuplicateThreshold float64 `toml:"duplicate_threshold"`
}

type Prompts struct {
	Extraction string `toml:"extraction"`
	Reasoning  string `toml:"reasoning"`
}

type StorageConfig struct {
	Path string `toml:"path"`
}

type Config struct {
	LLM     LLMConfig     `toml:"llm"`
	Merge   MergeConfig   `toml:"merge"`
	Prompts Prompts       `toml:"prompts"`
	Storage StorageConfig `toml:"storage"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// Default returns a working configuration with the built-in prompts.
// An API key still has to come from the config file or the environment.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
		},
		Merge: MergeConfig{
			Threshold:          0.75,
			DuplicateThreshold: 0.85,
		},
		Prompts: Prompts{
			Extraction: defaultExtractionPrompt,
			Reasoning:  defaultReasoningPrompt,
		},
		Storage: StorageConfig{
			Path: "data/ddr.db",
		},
	}
}

const defaultExtractionPrompt = `You are a precise data-extraction assistant working on a %s.
Return ONLY valid JSON with no additional text, in this exact shape:

{
  "areas": [
    {
      "area_name": "Name of the area or location",
      "fields": {"condition": "...", "moisture": "...", "temperature": "..."},
      "notes": ["free-form findings for this area"]
    }
  ],
  "global_notes": ["document-level notes not tied to a specific area"]
}

Rules:
- Copy values verbatim from the document. Never invent data.
- Omit any field the document does not state.
- Keep notes short, one finding per entry.

Document text:
%s`

const defaultReasoningPrompt = `You are a senior property diagnostics analyst. Using ONLY the merged
data below, write the narrative sections of a Detailed Diagnostic Report
for the client: an executive summary, then one section per area in the
given order.

Rules:
- Never invent facts. If a value is "Not Available", say exactly that.
- Where a value starts with [CONFLICT], present both source figures and
  state that the reports disagree.
- Quote temperatures, percentages and measurements verbatim.

Merged data (JSON):
%s`
