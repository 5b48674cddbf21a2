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


// Package search retrieves stored chunks for a natural-language query.
//
// The Searcher embeds the query, scans stored chunk vectors by dot product
// and boosts chunks that contain every non-stop-word of the query verbatim.
// Retriever adapts the Searcher to langchaingo's schema.Retriever so it can
// feed a retrieval QA chain, and QA wraps that chain for question answering
// over the ingested documents.
package search
