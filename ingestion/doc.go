// Package ingestion turns a directory of source files into embedded chunks.
//
// Pipeline.Run discovers files whose extension has a registered loader,
// skips sources that are already stored, loads and splits the rest, embeds
// the chunks in batches on a worker pool and persists documents and chunks.
// Loader and embedding errors abort the run.
package ingestion
