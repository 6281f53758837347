// Copyright 2019 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package snp

import (
	"sort"

	"github.com/biogo/store/interval"
)

// readEntry is one read in a ReadIndex.  ID doubles as the read's
// position in the source collection so query hits can be replayed in
// input order.
type readEntry struct {
	start, end int
	id         uintptr
	read       Read
}

// Overlap treats both interval ends as inclusive, matching
// DetectMappedReads.
func (e readEntry) Overlap(b interval.IntRange) bool {
	return e.start <= b.End && b.Start <= e.end
}

func (e readEntry) ID() uintptr { return e.id }

func (e readEntry) Range() interval.IntRange {
	return interval.IntRange{Start: e.start, End: e.end}
}

// ReadIndex answers position-overlap queries against a read collection
// with one interval tree per chromosome.  Query results are identical
// to a linear scan over the collection, including order.
type ReadIndex struct {
	trees map[string]*interval.IntTree
}

// NewReadIndex builds an index over reads.  The collection must not be
// mutated while the index is in use.
func NewReadIndex(reads []Read) *ReadIndex {
	ix := &ReadIndex{trees: make(map[string]*interval.IntTree)}
	for i, r := range reads {
		t := ix.trees[r.Chrom()]
		if t == nil {
			t = &interval.IntTree{}
			ix.trees[r.Chrom()] = t
		}
		// Fast insert; ranges are adjusted once below.
		_ = t.Insert(readEntry{start: r.Start(), end: r.End(), id: uintptr(i), read: r}, true)
	}
	for _, t := range ix.trees {
		t.AdjustRanges()
	}
	return ix
}

// Overlapping returns the reads covering pos on chrom, in the order the
// reads appeared in the indexed collection.
func (ix *ReadIndex) Overlapping(chrom string, pos int) []Read {
	t := ix.trees[chrom]
	if t == nil {
		return nil
	}
	hits := t.Get(readEntry{start: pos, end: pos})
	if len(hits) == 0 {
		return nil
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID() < hits[j].ID() })
	out := make([]Read, len(hits))
	for i, h := range hits {
		out[i] = h.(readEntry).read
	}
	return out
}

// MapReadsIndexed is MapReads backed by a prebuilt index.  The index
// must have been built over the same read collection; the per-SNP
// results are byte-identical to MapReads.
func MapReadsIndexed(snps []*SNP, ix *ReadIndex) {
	for _, s := range snps {
		for _, r := range ix.Overlapping(s.Chrom, s.Pos) {
			s.Reads = append(s.Reads, r)
			s.Bases = append(s.Bases, r.BaseAt(s.Pos))
		}
	}
}
