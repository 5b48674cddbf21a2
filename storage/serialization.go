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


package storage

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/threadoor/core"
)

// Record layouts, in field order:
//
//	Document:   Id, Source, Type, Title, ChunkCount, Metadata, InsertedAt, UpdatedAt
//	Chunk:      Id, DocumentId, Source, Index, Offset, Contents, Vector, Metadata, InsertedAt, UpdatedAt
//	Checkpoint: ProcessorType, LastId, UpdatedAt
//
// Timestamps are stored as UTC unix microseconds. Maps are written in key order
// so equal records always encode to equal bytes.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	var s sizer
	s.id(doc.Id)
	s.str(doc.Source)
	s.str(doc.Type)
	s.str(doc.Title)
	s.int(doc.ChunkCount)
	s.meta(doc.Metadata)
	s.time(doc.InsertedAt)
	s.time(doc.UpdatedAt)

	w := writer{bs: make([]byte, s.n)}
	w.id(doc.Id)
	w.str(doc.Source)
	w.str(doc.Type)
	w.str(doc.Title)
	w.int(doc.ChunkCount)
	w.meta(doc.Metadata)
	w.time(doc.InsertedAt)
	w.time(doc.UpdatedAt)
	return w.bs
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	r := reader{bs: data}
	doc := &core.Document{
		Id:         r.id(),
		Source:     r.str(),
		Type:       r.str(),
		Title:      r.str(),
		ChunkCount: r.int(),
		Metadata:   r.meta(),
		InsertedAt: r.time(),
		UpdatedAt:  r.time(),
	}
	if r.err != nil {
		return nil, r.err
	}
	return doc, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	var s sizer
	s.id(chunk.Id)
	s.id(chunk.DocumentId)
	s.str(chunk.Source)
	s.int(chunk.Index)
	s.int(chunk.Offset)
	s.str(chunk.Contents)
	s.vector(chunk.Vector)
	s.meta(chunk.Metadata)
	s.time(chunk.InsertedAt)
	s.time(chunk.UpdatedAt)

	w := writer{bs: make([]byte, s.n)}
	w.id(chunk.Id)
	w.id(chunk.DocumentId)
	w.str(chunk.Source)
	w.int(chunk.Index)
	w.int(chunk.Offset)
	w.str(chunk.Contents)
	w.vector(chunk.Vector)
	w.meta(chunk.Metadata)
	w.time(chunk.InsertedAt)
	w.time(chunk.UpdatedAt)
	return w.bs
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	r := reader{bs: data}
	chunk := &core.Chunk{
		Id:         r.id(),
		DocumentId: r.id(),
		Source:     r.str(),
		Index:      r.int(),
		Offset:     r.int(),
		Contents:   r.str(),
		Vector:     r.vector(),
		Metadata:   r.meta(),
		InsertedAt: r.time(),
		UpdatedAt:  r.time(),
	}
	if r.err != nil {
		return nil, r.err
	}
	return chunk, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	var s sizer
	s.str(checkpoint.ProcessorType)
	s.id(checkpoint.LastId)
	s.time(checkpoint.UpdatedAt)

	w := writer{bs: make([]byte, s.n)}
	w.str(checkpoint.ProcessorType)
	w.id(checkpoint.LastId)
	w.time(checkpoint.UpdatedAt)
	return w.bs
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	r := reader{bs: data}
	checkpoint := &core.Checkpoint{
		ProcessorType: r.str(),
		LastId:        r.id(),
		UpdatedAt:     r.time(),
	}
	if r.err != nil {
		return nil, r.err
	}
	return checkpoint, nil
}

// sizer accumulates the encoded size of a record.
type sizer struct {
	n int
}

func (s *sizer) id(v core.ID)       { s.n += varint.Uint64.Size(uint64(v)) }
func (s *sizer) str(v string)       { s.n += ord.String.Size(v) }
func (s *sizer) int(v int)          { s.n += varint.Int64.Size(int64(v)) }
func (s *sizer) time(v time.Time)   { s.n += varint.Int64.Size(v.UnixMicro()) }
func (s *sizer) vector(v []float32) { s.n += varint.Uint64.Size(uint64(len(v))) + 4*len(v) }

func (s *sizer) meta(m map[string]string) {
	s.n += varint.Uint64.Size(uint64(len(m)))
	for k, v := range m {
		s.str(k)
		s.str(v)
	}
}

// writer marshals fields into a buffer sized by sizer.
type writer struct {
	bs []byte
	n  int
}

func (w *writer) id(v core.ID)     { w.n += varint.Uint64.Marshal(uint64(v), w.bs[w.n:]) }
func (w *writer) str(v string)     { w.n += ord.String.Marshal(v, w.bs[w.n:]) }
func (w *writer) int(v int)        { w.n += varint.Int64.Marshal(int64(v), w.bs[w.n:]) }
func (w *writer) time(v time.Time) { w.n += varint.Int64.Marshal(v.UnixMicro(), w.bs[w.n:]) }

func (w *writer) vector(v []float32) {
	w.n += varint.Uint64.Marshal(uint64(len(v)), w.bs[w.n:])
	for _, f := range v {
		binary.LittleEndian.PutUint32(w.bs[w.n:], math.Float32bits(f))
		w.n += 4
	}
}

func (w *writer) meta(m map[string]string) {
	w.n += varint.Uint64.Marshal(uint64(len(m)), w.bs[w.n:])
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		w.str(k)
		w.str(m[k])
	}
}

// reader unmarshals fields in order, keeping the first error.
type reader struct {
	bs  []byte
	n   int
	err error
}

func (r *reader) uint64() uint64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.fail(err)
	return v
}

func (r *reader) int64() int64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.fail(err)
	return v
}

func (r *reader) id() core.ID { return core.ID(r.uint64()) }
func (r *reader) int() int    { return int(r.int64()) }

func (r *reader) time() time.Time {
	v := r.int64()
	if r.err != nil {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}

func (r *reader) str() string {
	if r.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(r.bs[r.n:])
	r.n += n
	r.fail(err)
	return v
}

func (r *reader) vector() []float32 {
	length := r.uint64()
	if r.err != nil || length == 0 {
		return nil
	}
	if uint64(len(r.bs)-r.n) < 4*length {
		r.err = ErrTruncatedData
		return nil
	}
	v := make([]float32, length)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.bs[r.n:]))
		r.n += 4
	}
	return v
}

func (r *reader) meta() map[string]string {
	length := r.uint64()
	if r.err != nil || length == 0 {
		return nil
	}
	m := make(map[string]string, length)
	for i := uint64(0); i < length && r.err == nil; i++ {
		k := r.str()
		m[k] = r.str()
	}
	return m
}

func (r *reader) fail(err error) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
}
