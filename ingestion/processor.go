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


package ingestion

import (
	"context"

	"github.com/poiesic/resumatch/core"
)

// document is a file moving through the pipeline. Processors fill in the
// fields they own.
type document struct {
	path        string
	identifier  string
	contentHash string
	text        string
	vector      []float32
	skills      core.SkillProfile
	err         error
}

// processor is an internal interface for one preparation step.
// Implementations handle a single enrichment task like text extraction or embedding.
type processor interface {
	// process enriches doc in place. A returned error marks doc as failed.
	process(ctx context.Context, doc *document) error
}
