// Package reembed recomputes the embedding vectors of every stored chunk,
// typically after switching embedding models.
//
// Documents are processed one at a time in ID order. Each document's chunks
// are embedded in batches on a worker pool, written back, and then recorded
// in the "reembed" checkpoint, so an interrupted run resumes after the last
// completed document. The checkpoint is removed once every document is done.
package reembed
