package vcf

import (
	"compress/gzip"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hetsnp/snp"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	pkgerrors "github.com/pkg/errors"
)

func writeVCF(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func row(chrom, pos, id, ref, alt, gt string) string {
	return chrom + "\t" + pos + "\t" + id + "\t" + ref + "\t" + alt + "\t0\tPASS\tKM=8\tGT\t" + gt + "\n"
}

func TestLoad(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	data := "##fileformat=VCFv4.1\n" +
		row("chr19", "294525", ".", "A", "G", "1|0") + // kept, transition
		row("chr19", "294600", ".", "A", "A", "1|1") + // homozygous, dropped
		row("chr19", "294700", ".", "AT", "A", "1|0") + // indel, dropped
		row("chr20", "100", "rs1", "C", "A", "0|1") // kept, transversion
	path := writeVCF(t, tempDir, "test.vcf", data)

	snps, stats, err := LoadWithStats(ctx, path)
	expect.NoError(t, err)
	expect.EQ(t, stats, LoadStats{Homozygous: 1, Indels: 1})
	expect.EQ(t, len(snps), 2)
	expect.EQ(t, snps[0].Pos, 294525)
	expect.EQ(t, snps[0].Type, snp.TypeTransition)
	expect.EQ(t, snps[1].Chrom, "chr20")
	expect.EQ(t, snps[1].Type, snp.TypeTransversion)

	// Load drops the stats but keeps the same rows.
	loaded, err := Load(ctx, path)
	expect.NoError(t, err)
	expect.EQ(t, len(loaded), 2)
	expect.True(t, loaded[0].Equal(snps[0]))
}

func TestLoadHomozygousOnly(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := writeVCF(t, tempDir, "hom.vcf",
		row("chr1", "100", ".", "A", "G", "0|0")+
			row("chr1", "200", ".", "C", "T", "1|1"))
	snps, stats, err := LoadWithStats(ctx, path)
	expect.NoError(t, err)
	expect.EQ(t, len(snps), 0)
	expect.EQ(t, stats.Homozygous, 2)
}

func TestLoadKeepsDuplicates(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	line := row("chr1", "100", ".", "A", "G", "1|0")
	path := writeVCF(t, tempDir, "dup.vcf", line+line)
	snps, err := Load(ctx, path)
	expect.NoError(t, err)
	expect.EQ(t, len(snps), 2)
	expect.True(t, snps[0].Equal(snps[1]))
	expect.EQ(t, snps[0].Hash(), snps[1].Hash())
}

func TestLoadMalformed(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	// A nine-field row after a valid row fails the whole load; partial
	// results are discarded.
	path := writeVCF(t, tempDir, "bad.vcf",
		row("chr1", "100", ".", "A", "G", "1|0")+
			"chr1\t200\t.\tA\tG\t0\tPASS\tGT\t1|0\n")
	snps, err := Load(ctx, path)
	expect.EQ(t, err, ErrMalformed)
	expect.Nil(t, snps)

	// Same for an unphased genotype field.
	path = writeVCF(t, tempDir, "unphased.vcf", row("chr1", "100", ".", "A", "G", "1/0"))
	snps, err = Load(ctx, path)
	expect.EQ(t, err, ErrMalformed)
	expect.Nil(t, snps)
}

func TestLoadInvalidPosition(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := writeVCF(t, tempDir, "pos.vcf", row("chr1", "12a45", ".", "A", "G", "1|0"))
	snps, err := Load(ctx, path)
	expect.True(t, err != nil)
	expect.EQ(t, pkgerrors.Cause(err), snp.ErrInvalidPosition)
	expect.Nil(t, snps)
}

func TestLoadFileUnavailable(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	_, err := Load(ctx, filepath.Join(tempDir, "no-such.vcf"))
	expect.True(t, err != nil)
}

func TestLoadGzip(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tempDir, "test.vcf.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(row("chr1", "100", ".", "A", "G", "1|0"))); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	snps, err := Load(ctx, path)
	expect.NoError(t, err)
	expect.EQ(t, len(snps), 1)
	expect.EQ(t, snps[0].Pos, 100)
	expect.EQ(t, snps[0].Type, snp.TypeTransition)
}
