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

// MostMappedReads returns the SNP with the strictly greatest number of
// mapped reads.  It returns nil when snps is empty or no SNP has any
// mapped reads; on a tie the first SNP seen with the maximum count
// wins.
func MostMappedReads(snps []*SNP) *SNP {
	maxReads := 0
	var best *SNP
	for _, s := range snps {
		if maxReads < len(s.Reads) {
			maxReads = len(s.Reads)
			best = s
		}
	}
	return best
}
