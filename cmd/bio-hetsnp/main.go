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
package main

/*
bio-hetsnp loads heterozygous SNPs from a VCF-like genotype file and
annotates each one with the sequencing reads overlapping its position.
It reports a per-SNP TSV summary; model-likelihood assignment is left
to downstream tooling.
*/

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hetsnp/encoding/vcf"
	"github.com/grailbio/hetsnp/reads"
	"github.com/grailbio/hetsnp/snp"
)

var (
	bamPath     = flag.String("bam", "", "Input BAM path holding the reads to map against the SNP set; mapping is skipped when empty")
	parallelism = flag.Int("parallelism", 0, "Maximum number of simultaneous mapping jobs; 0 = runtime.NumCPU()")
)

func bioHetsnpUsage() {
	fmt.Printf("Usage: %s [OPTIONS] vcfpath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioHetsnpUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Exactly one positional argument (vcfpath) expected; please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	vcfPath := flag.Arg(0)
	ctx := vcontext.Background()

	snps, stats, err := vcf.LoadWithStats(ctx, vcfPath)
	if err != nil {
		log.Fatalf("%s: %v", vcfPath, err)
	}
	log.Printf("bio-hetsnp: %s: loaded %d heterozygous SNPs (skipped %d homozygous, %d indel rows)",
		vcfPath, len(snps), stats.Homozygous, stats.Indels)

	if *bamPath != "" {
		rs, err := reads.FromBAM(ctx, *bamPath)
		if err != nil {
			log.Fatalf("%s: %v", *bamPath, err)
		}
		log.Printf("bio-hetsnp: %s: loaded %d mapped reads", *bamPath, len(rs))
		snp.MapReadsParallel(snps, rs, *parallelism)
	}

	w := bufio.NewWriter(os.Stdout)
	fmt.Fprintln(w, "#CHROM\tPOS\tREF\tALT\tTYPE\tDP")
	for _, s := range snps {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%d\n", s.Chrom, s.Pos, s.Ref, s.Alt, s.Type, len(s.Reads))
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("writing summary: %v", err)
	}
	if best := snp.MostMappedReads(snps); best != nil {
		log.Printf("bio-hetsnp: deepest SNP: %s", best)
	}
}
