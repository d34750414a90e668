package provider

import (
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "ollama valid",
			cfg: Config{
				Backend: BackendOllama,
				Ollama:  ProviderOllama{Host: "http://localhost:11434", Model: "llama3.1:8b"},
			},
		},
		{
			name:    "ollama missing model",
			cfg:     Config{Backend: BackendOllama},
			wantErr: "OLLAMA_MODEL",
		},
		{
			name: "openai valid",
			cfg: Config{
				Backend: BackendOpenAI,
				OpenAI:  ProviderOpenAI{APIKey: "sk-test", Model: "gpt-4o"},
			},
		},
		{
			name: "openai missing key",
			cfg: Config{
				Backend: BackendOpenAI,
				OpenAI:  ProviderOpenAI{Model: "gpt-4o"},
			},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name: "openai missing model",
			cfg: Config{
				Backend: BackendOpenAI,
				OpenAI:  ProviderOpenAI{APIKey: "sk-test"},
			},
			wantErr: "OPENAI_MODEL",
		},
		{
			name: "azure valid",
			cfg: Config{
				Backend: BackendAzure,
				AzureOpenAI: ProviderAzureOpenAI{
					APIKey:     "azure-key",
					Endpoint:   "https://example.openai.azure.com",
					Deployment: "gpt-4o",
					APIVersion: "2024-02-01",
				},
			},
		},
		{
			name: "azure missing key",
			cfg: Config{
				Backend: BackendAzure,
				AzureOpenAI: ProviderAzureOpenAI{
					Endpoint:   "https://example.openai.azure.com",
					Deployment: "gpt-4o",
				},
			},
			wantErr: "AZURE_OPENAI_API_KEY",
		},
		{
			name: "azure missing endpoint",
			cfg: Config{
				Backend: BackendAzure,
				AzureOpenAI: ProviderAzureOpenAI{
					APIKey:     "azure-key",
					Deployment: "gpt-4o",
				},
			},
			wantErr: "AZURE_OPENAI_ENDPOINT",
		},
		{
			name: "azure missing deployment",
			cfg: Config{
				Backend: BackendAzure,
				AzureOpenAI: ProviderAzureOpenAI{
					APIKey:   "azure-key",
					Endpoint: "https://example.openai.azure.com",
				},
			},
			wantErr: "AZURE_OPENAI_DEPLOYMENT",
		},
		{
			name: "bedrock valid",
			cfg: Config{
				Backend: BackendBedrock,
				Bedrock: ProviderBedrock{AWSRegion: "us-east-1", ModelID: "anthropic.claude-3-sonnet"},
			},
		},
		{
			name: "bedrock missing model id",
			cfg: Config{
				Backend: BackendBedrock,
				Bedrock: ProviderBedrock{AWSRegion: "us-east-1"},
			},
			wantErr: "BEDROCK_MODEL_ID",
		},
		{
			name: "bedrock missing region",
			cfg: Config{
				Backend: BackendBedrock,
				Bedrock: ProviderBedrock{ModelID: "anthropic.claude-3-sonnet"},
			},
			wantErr: "AWS_REGION",
		},
		{
			name: "gemini valid",
			cfg: Config{
				Backend: BackendGemini,
				Gemini:  ProviderGemini{APIKey: "g-key", Model: "gemini-1.5-pro"},
			},
		},
		{
			name: "gemini missing key",
			cfg: Config{
				Backend: BackendGemini,
				Gemini:  ProviderGemini{Model: "gemini-1.5-pro"},
			},
			wantErr: "GOOGLE_API_KEY",
		},
		{
			name: "gemini missing model",
			cfg: Config{
				Backend: BackendGemini,
				Gemini:  ProviderGemini{APIKey: "g-key"},
			},
			wantErr: "GEMINI_MODEL",
		},
		{
			name:    "unknown backend",
			cfg:     Config{Backend: Backend("mystery")},
			wantErr: "unknown backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("MODEL_PROVIDER", "")
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("OLLAMA_MODEL", "")
	t.Setenv("MODEL_MAX_TOKENS", "")
	t.Setenv("MODEL_TEMPERATURE", "")

	cfg := ConfigFromEnv()
	if cfg.Backend != BackendOllama {
		t.Errorf("default backend = %q, want %q", cfg.Backend, BackendOllama)
	}
	if cfg.Ollama.Host != "http://localhost:11434" {
		t.Errorf("default ollama host = %q", cfg.Ollama.Host)
	}
	if cfg.Ollama.Model != "llama3.1:8b" {
		t.Errorf("default ollama model = %q", cfg.Ollama.Model)
	}
	if cfg.Tuning.MaxTokens != 2048 {
		t.Errorf("default max tokens = %d, want 2048", cfg.Tuning.MaxTokens)
	}
	if cfg.Tuning.Temperature != 0.0 {
		t.Errorf("default temperature = %v, want 0.0", cfg.Tuning.Temperature)
	}
}

func TestIsAzureReasoningModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		deployment string
		want       bool
	}{
		{"o1-preview", true},
		{"o3-mini", true},
		{"O4-mini", true},
		{"codex-mini", true},
		{"gpt-4o", false},
		{"gpt-4.1", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isAzureReasoningModel(tt.deployment); got != tt.want {
			t.Errorf("isAzureReasoningModel(%q) = %v, want %v", tt.deployment, got, tt.want)
		}
	}
}
