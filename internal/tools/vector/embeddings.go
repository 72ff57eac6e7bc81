package vector

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
)

// OpenAIEmbeddings wraps go-openai's embeddings endpoint, grounded on the
// teacher's internal/memory/embeddings/openai provider.
type OpenAIEmbeddings struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// OpenAIEmbeddingsConfig configures the provider.
type OpenAIEmbeddingsConfig struct {
	APIKey    string
	BaseURL   string
	Model     openai.EmbeddingModel
	Dimension int
}

// NewOpenAIEmbeddings builds a provider, defaulting to
// text-embedding-3-small (1536 dimensions) — the same default the
// teacher's pgvector store assumes when no dimension is configured.
func NewOpenAIEmbeddings(cfg OpenAIEmbeddingsConfig) (*OpenAIEmbeddings, error) {
	if cfg.APIKey == "" {
		return nil, coreerrors.New(coreerrors.KindConfiguration, "embeddings: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = openai.SmallEmbedding3
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = 1536
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIEmbeddings{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}, nil
}

func (p *OpenAIEmbeddings) Dimension() int { return p.dimension }

func (p *OpenAIEmbeddings) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindTransient, err, "embeddings request failed")
	}
	if len(resp.Data) == 0 {
		return nil, coreerrors.New(coreerrors.KindInternal, "embeddings response contained no vectors")
	}
	vec := resp.Data[0].Embedding
	if len(vec) != p.dimension {
		return nil, coreerrors.New(coreerrors.KindSchemaMismatch,
			fmt.Sprintf("embeddings provider returned %d dimensions, configured for %d", len(vec), p.dimension))
	}
	return vec, nil
}
