package local

import "github.com/poiesic/resumatch/ai"

// Provider implements ai.AIProvider with the local embedder.
type Provider struct {
	embedder *Embedder
}

// NewProvider creates a provider that embeds without network access.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	return &Provider{embedder: embedder}, nil
}

// Embedder returns the local embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}
