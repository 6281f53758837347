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

// Package reads adapts aligned BAM records to the read interface
// consumed by the snp package.
package reads

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/hetsnp/snp"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
)

// seq8ToASCII is the .bam seq nibble -> ASCII mapping.
var seq8ToASCII = [...]byte{'=', 'A', 'C', 'M', 'G', 'R', 'S', 'V', 'T', 'W', 'Y', 'H', 'K', 'D', 'B', 'N'}

// SAMRead adapts one mapped *sam.Record to snp.Read.  The record is
// borrowed, not copied.
type SAMRead struct {
	rec *sam.Record
}

// NewSAMRead wraps rec.  rec must be mapped to a reference.
func NewSAMRead(rec *sam.Record) *SAMRead {
	return &SAMRead{rec: rec}
}

// Record returns the wrapped record.
func (r *SAMRead) Record() *sam.Record { return r.rec }

// Chrom returns the name of the reference the read is aligned to.
func (r *SAMRead) Chrom() string { return r.rec.Ref.Name() }

// Start returns the 1-based inclusive leftmost aligned position.
func (r *SAMRead) Start() int { return r.rec.Pos + 1 }

// End returns the 1-based inclusive rightmost aligned position.
func (r *SAMRead) End() int { return r.rec.End() }

// BaseAt returns the read base aligned to the 1-based reference
// position pos.  Positions the alignment covers without a query base
// (deletions, reference skips), and positions outside the alignment,
// yield 'N'.
func (r *SAMRead) BaseAt(pos int) byte {
	base, covered := baseAtPos(r.rec, pos-1)
	if !covered || base == 0 {
		return 'N'
	}
	return base
}

// baseAtPos returns the read base aligned to the 0-based reference
// position refPos, walking the CIGAR to line query offsets up with
// reference positions.  covered is true when the alignment spans
// refPos at all; a deletion or skip over refPos returns (0, true).
func baseAtPos(rec *sam.Record, refPos int) (base byte, covered bool) {
	refPtr := rec.Pos
	qPtr := 0
	for _, co := range rec.Cigar {
		n := co.Len()
		con := co.Type().Consumes()
		if con.Reference == 1 {
			if refPos >= refPtr && refPos < refPtr+n {
				if con.Query == 1 {
					return unpackBase(rec.Seq, qPtr+refPos-refPtr), true
				}
				return 0, true
			}
			refPtr += n
		}
		if con.Query == 1 {
			qPtr += n
		}
	}
	return 0, false
}

// unpackBase extracts the ASCII base at query offset i from the packed
// doublet representation.
func unpackBase(seq sam.Seq, i int) byte {
	d := byte(seq.Seq[i>>1])
	if i&1 == 0 {
		d >>= 4
	}
	return seq8ToASCII[d&0xf]
}

// FromBAM loads every mapped record in the BAM file at path, in file
// order.  Unmapped records are dropped.
func FromBAM(ctx context.Context, path string) (out []snp.Read, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		err = errors.E(err, "bam file not available:", path)
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	var br *bam.Reader
	if br, err = bam.NewReader(in.Reader(ctx), 1); err != nil {
		return
	}
	defer func() {
		if e := br.Close(); e != nil && err == nil {
			err = e
		}
	}()
	for {
		var rec *sam.Record
		if rec, err = br.Read(); err != nil {
			if err == io.EOF {
				err = nil
			} else {
				out = nil
			}
			return
		}
		if rec.Flags&sam.Unmapped != 0 {
			continue
		}
		out = append(out, NewSAMRead(rec))
	}
}
