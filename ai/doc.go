// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the embedding services used in resumatch.
//
// The package defines two interfaces:
//
//   - Embedder: Generates fixed-dimension vector embeddings from text
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
//   - ai/local: Offline feature-hashing embedder, the default
//   - ai/openai: OpenAI-compatible embedding APIs (OpenAI, Ollama, vLLM, ...)
//   - ai/mock: Test doubles for unit testing without external dependencies
//   - ai/provider: Selects an implementation from a Config
//
// Public constructors (local.NewProvider, openai.NewProvider, ...) return
// interface types. Test constructors (mock.NewMockEmbedder) return concrete
// types so tests can inject behavior and assert call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithProvider(ai.ProviderOpenAI), ai.WithHost("http://localhost:11434"))
//	p, err := provider.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	vector, err := p.Embedder().EmbedText(ctx, "Senior Go engineer")
package ai
