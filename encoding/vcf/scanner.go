// Package vcf contains code for parsing VCF-like genotype files.  Only
// a small subset of VCF is understood: tab-separated data rows of
// exactly ten fields, where the tenth field holds a phased genotype
// such as "1|0".  Rows are recognized by the literal "chr" prefix;
// everything else (headers, metadata) is skipped.
package vcf

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var (
	// ErrMalformed is returned when a data row does not unpack into the
	// expected ten tab-separated fields, or when its genotype field
	// does not hold exactly two pipe-separated alleles.
	ErrMalformed = errors.New("vcf: malformed record")
)

const numFields = 10

// A Record is one raw data row of a genotype file.  All fields are
// kept as they appear in the file; no coercion happens here.
type Record struct {
	Chrom  string
	Pos    string
	ID     string
	Ref    string
	Alt    string
	Qual   string
	Filter string
	Info   string
	Format string
	GT     string
}

// Alleles returns the two pipe-separated allele calls in the genotype
// field.  It returns ErrMalformed when the field does not hold exactly
// two.
func (r *Record) Alleles() (a, b string, err error) {
	parts := strings.Split(r.GT, "|")
	if len(parts) != 2 {
		return "", "", ErrMalformed
	}
	return parts[0], parts[1], nil
}

// Scanner provides a convenient interface for reading genotype data
// rows.  The Scan method advances to the next row starting with "chr",
// returning a boolean indicating whether a row was read.  Scanners are
// not threadsafe.
type Scanner struct {
	b   *bufio.Scanner
	err error
}

// NewScanner constructs a new Scanner that reads raw genotype data
// from the provided reader.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{b: bufio.NewScanner(r)}
}

// Scan the next data row into rec.  Scan returns a boolean indicating
// whether the scan succeeded.  Once Scan returns false, it never
// returns true again.  Upon completion, the user should check the Err
// method to determine whether scanning stopped because of an error or
// because the end of the stream was reached.  A malformed row stops
// the scan immediately; it is never skipped silently.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil {
		return false
	}
	for s.b.Scan() {
		line := s.b.Text()
		if !strings.HasPrefix(line, "chr") {
			continue
		}
		fields := strings.Split(strings.TrimSpace(line), "\t")
		if len(fields) != numFields {
			s.err = ErrMalformed
			return false
		}
		rec.Chrom, rec.Pos, rec.ID, rec.Ref, rec.Alt = fields[0], fields[1], fields[2], fields[3], fields[4]
		rec.Qual, rec.Filter, rec.Info, rec.Format, rec.GT = fields[5], fields[6], fields[7], fields[8], fields[9]
		return true
	}
	s.err = s.b.Err()
	return false
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	return s.err
}
