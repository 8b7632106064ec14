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


// Package ranking scores indexed resumes against a job description.
//
// The Ranker runs a multi-stage algorithm that combines:
//   - Semantic retrieval of the nearest candidates by vector distance
//   - Skill overlap between the job and each candidate's cached profile
//
// The two signals are blended into a hybrid score with a configurable
// semantic weight. Explain produces the per-resume breakdown shown when a
// single match is inspected.
package ranking
