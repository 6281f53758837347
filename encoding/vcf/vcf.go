package vcf

import (
	"context"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hetsnp/snp"
)

// LoadStats counts the rows the loader dropped by design.  Dropped
// rows never affect pass/fail semantics.
type LoadStats struct {
	// Homozygous counts data rows whose two genotype alleles are equal.
	Homozygous int
	// Indels counts heterozygous rows that classified as indels.
	Indels int
}

// Load reads the genotype file at path and returns its heterozygous,
// non-indel SNPs in file order.  Homozygous rows and indels are
// dropped; duplicate rows are kept.  Any malformed row aborts the
// whole load and discards partial results.  The path may point at a
// gzip-compressed file.
func Load(ctx context.Context, path string) ([]*snp.SNP, error) {
	snps, stats, err := LoadWithStats(ctx, path)
	if err != nil {
		return nil, err
	}
	log.Debug.Printf("vcf.Load: %s: kept %d SNPs, skipped %d homozygous and %d indel rows",
		path, len(snps), stats.Homozygous, stats.Indels)
	return snps, nil
}

// LoadWithStats is Load, also reporting how many rows were dropped by
// the homozygous and indel filters.
//
// Error kinds, all fatal to the load: an open failure surfaces as a
// wrapped "not available" error; a malformed row surfaces as
// ErrMalformed; a non-integer position surfaces as
// snp.ErrInvalidPosition.
func LoadWithStats(ctx context.Context, path string) (snps []*snp.SNP, stats LoadStats, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		err = errors.E(err, "vcf file not available:", path)
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	reader, _ := compress.NewReader(in.Reader(ctx))
	defer func() {
		if e := reader.Close(); e != nil && err == nil {
			err = e
		}
	}()

	scanner := NewScanner(reader)
	var rec Record
	for scanner.Scan(&rec) {
		var a, b string
		if a, b, err = rec.Alleles(); err != nil {
			snps = nil
			return
		}
		if a == b { // homozygous sites carry no phasing signal
			stats.Homozygous++
			continue
		}
		var s *snp.SNP
		if s, err = snp.New(rec.Chrom, rec.ID, rec.Pos, rec.Ref, rec.Alt, rec.GT); err != nil {
			snps = nil
			return
		}
		if s.Type == snp.TypeIndel {
			stats.Indels++
			continue
		}
		snps = append(snps, s)
	}
	if err = scanner.Err(); err != nil {
		snps = nil
		return
	}
	return
}
