// Package splitter cuts document text into bounded, overlapping segments
// suitable for embedding.
//
// Splitting is recursive: text is first cut on paragraph breaks, then line
// breaks, then spaces, and finally between characters, until every piece fits
// the configured chunk size. Length is measured in runes by default, or in
// cl100k_base tokens when Config.Length is LengthTokens.
package splitter
