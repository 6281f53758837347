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

// Package snp models heterozygous single-nucleotide variants and their
// association with overlapping sequencing reads.  A SNP carries its own
// mutation-type classification, the reads mapped over its position, and
// a pair of model-likelihood slots that later assignment stages fill in.
package snp

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/pkg/errors"
)

// Mutation types assigned at construction.
const (
	// TypeIndel marks a variant whose ref or alt allele spans more than
	// one base.  Indels are excluded from downstream processing.
	TypeIndel = "indel"
	// TypeTransition marks a substitution within the purine pair {A,G}
	// or the pyrimidine pair {C,T}.
	TypeTransition = "transition"
	// TypeTransversion marks a substitution between a purine and a
	// pyrimidine.
	TypeTransversion = "transversion"
)

// ErrInvalidPosition is returned by New when the position field does
// not parse as a non-negative integer.
var ErrInvalidPosition = errors.New("snp: invalid position")

// Unordered base pairs defining each substitution class.  An allele is
// a member of a pair when it occurs as a substring of the two-character
// string.
var (
	transitions   = [...]string{"AG", "CT"}
	transversions = [...]string{"AC", "AT", "CG", "GT"}
)

// SNP is one heterozygous variant call.  Reads and Bases are always the
// same length and index-aligned: Bases[i] is the base observed in
// Reads[i] at Pos.  The SNP holds references into a read collection
// owned by the caller; it never owns read data.
type SNP struct {
	Chrom string
	ID    string
	Pos   int // 1-based reference position.
	Ref   string
	Alt   string
	GT    string // e.g. "1|0"
	Mut   string // Ref+Alt concatenation; used by equality only.

	Type string // TypeIndel, TypeTransition, TypeTransversion, or "".

	Reads []Read
	Bases []byte

	// Likelihood of this SNP under each candidate model, filled in by a
	// later assignment stage.  The package never computes these.
	ModelLLKH [2]float64
	// Model is the assigned model label, set at most once via SetModel.
	Model string
}

// New constructs a SNP from the raw VCF fields.  pos must be a
// non-negative integer; the mutation type is classified immediately.
func New(chrom, id, pos, ref, alt, gt string) (*SNP, error) {
	p, err := strconv.Atoi(pos)
	if err != nil || p < 0 {
		return nil, errors.Wrapf(ErrInvalidPosition, "%s:%s", chrom, pos)
	}
	s := &SNP{
		Chrom: chrom,
		ID:    id,
		Pos:   p,
		Ref:   ref,
		Alt:   alt,
		GT:    gt,
		Mut:   ref + alt,
	}
	s.Type = classify(ref, alt)
	return s, nil
}

// classify determines the mutation type of a ref/alt allele pair.  Any
// multi-base allele is an indel.  A single-base pair is a transition
// when both alleles belong to the same purine or pyrimidine pair, a
// transversion when both belong to one of the four mixed pairs, and
// unclassified ("") when ref equals alt.
func classify(ref, alt string) string {
	if len(ref) > 1 || len(alt) > 1 {
		return TypeIndel
	}
	if ref != alt &&
		((member(ref, transitions[0]) && member(alt, transitions[0])) ||
			(member(ref, transitions[1]) && member(alt, transitions[1]))) {
		return TypeTransition
	}
	typ := ""
	// The scan visits every pair even after a match.  The pairs are
	// disjoint so at most one can match today; if the alphabet is ever
	// extended, the first matching pair wins.
	for _, pair := range transversions {
		if ref != alt && member(ref, pair) && member(alt, pair) {
			typ = TypeTransversion
		}
	}
	return typ
}

// member reports whether allele occurs as a substring of pair.
func member(allele, pair string) bool {
	return strings.Contains(pair, allele)
}

// SetModel records an externally computed model assignment verbatim.
// It does not touch the likelihoods.
func (s *SNP) SetModel(model string) {
	s.Model = model
}

// Equal reports whether two SNPs describe the same variant: same
// chromosome, same position, and same ref+alt concatenation.  Distinct
// alt alleles at the same site are distinct variants.
func (s *SNP) Equal(o *SNP) bool {
	return s.Chrom == o.Chrom && s.Pos == o.Pos && s.Mut == o.Mut
}

// NotEqual is the exact boolean complement of Equal, kept as an
// explicit dual.
func (s *SNP) NotEqual(o *SNP) bool {
	return s.Chrom != o.Chrom || s.Pos != o.Pos || s.Mut != o.Mut
}

// Hash returns a 64-bit hash of (chrom, pos) only.  It is intentionally
// coarser than Equal: equal SNPs always hash equal, while same-site
// SNPs with different alleles collide.
func (s *SNP) Hash() uint64 {
	h := seahash.New()
	_, _ = h.Write([]byte(s.Chrom))
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(s.Pos))
	_, _ = h.Write(b[:])
	return h.Sum64()
}

// String returns a one-line human-readable summary.
func (s *SNP) String() string {
	return fmt.Sprintf("%s: %d\tREF:%s, ALT:%s\tTYPE:%s. has %d mapped reads.",
		s.Chrom, s.Pos, s.Ref, s.Alt, s.Type, len(s.Reads))
}
