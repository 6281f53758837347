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
	"runtime"

	"github.com/grailbio/base/traverse"
)

// Read is one mapped sequencing read.  The read collection is owned by
// the caller and shared read-only across SNPs.
type Read interface {
	// Chrom returns the chromosome the read is aligned to.
	Chrom() string
	// Start returns the 1-based inclusive leftmost aligned position.
	Start() int
	// End returns the 1-based inclusive rightmost aligned position.
	End() int
	// BaseAt returns the read base observed at the given 1-based
	// reference position.
	BaseAt(pos int) byte
}

// DetectMappedReads appends every read whose chromosome matches and
// whose [Start, End] interval contains the SNP position, together with
// the base each read shows at that position.  Reads are visited in
// input order; no sorting, no deduplication.  Append-only: calling it
// twice on the same SNP duplicates entries, so run it exactly once per
// SNP.
func (s *SNP) DetectMappedReads(reads []Read) {
	for _, r := range reads {
		if s.Chrom == r.Chrom() && r.Start() <= s.Pos && s.Pos <= r.End() {
			s.Reads = append(s.Reads, r)
			s.Bases = append(s.Bases, r.BaseAt(s.Pos))
		}
	}
}

// MapReads runs mapped-read detection for every SNP against the entire
// read collection.
func MapReads(snps []*SNP, reads []Read) {
	for _, s := range snps {
		s.DetectMappedReads(reads)
	}
}

// MapReadsParallel is MapReads fanned out over parallelism jobs, each
// owning a contiguous slice of snps.  Every SNP is mutated by exactly
// one job and reads are shared read-only, so the per-SNP results are
// identical to MapReads.  parallelism <= 0 means runtime.NumCPU().
func MapReadsParallel(snps []*SNP, reads []Read, parallelism int) {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(snps) {
		parallelism = len(snps)
	}
	if parallelism == 0 {
		return
	}
	// The per-SNP op cannot fail.
	_ = traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(snps)) / parallelism
		endIdx := ((jobIdx + 1) * len(snps)) / parallelism
		for _, s := range snps[startIdx:endIdx] {
			s.DetectMappedReads(reads)
		}
		return nil
	})
}
