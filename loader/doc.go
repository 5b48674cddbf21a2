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


// Package loader turns source files into langchaingo documents.
//
// A Registry maps a file extension to a Loader. DefaultRegistry knows every
// format the ingestion pipeline accepts:
//
//	.csv .docx .enex .eml .epub .html .md .odt .pdf .pptx .txt
//
// Plain text, CSV, HTML and PDF files go through langchaingo's document
// loaders. Markdown is rendered to text from the goldmark AST, e-mail is read
// with go-message, and the zipped office and e-book formats are read straight
// from their XML parts.
//
// Every document a Registry returns carries the file path in
// Metadata["source"]. Discover finds the files under a directory that a
// registry can load.
package loader
