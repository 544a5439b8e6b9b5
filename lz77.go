package dzip

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

const (
	maxDistance = 32768 // sliding window size
	minMatch    = 3
	maxMatch    = 258
	maxChain    = 10 // retained positions per prefix key
)

// lz77Element is either a literal byte (dist == 0) or a back-reference of
// length bytes starting dist positions back.
type lz77Element struct {
	lit    byte
	dist   int
	length int
}

// encodeLZ77 scans data once, emitting literals and greedy back-references.
// Prior positions are indexed by the xxhash of their 3-byte prefix; each
// candidate re-checks the prefix bytes, so a hash collision can only cost a
// match, never produce a wrong one. Chains are trimmed to the newest
// maxChain entries at lookup time, and candidates run newest to oldest with
// a strict comparison, so equal-length matches resolve to the smallest
// distance.
func encodeLZ77(data []byte) []lz77Element {
	var out []lz77Element
	chains := make(map[uint64][]int)

	i := 0
	for i < len(data) {
		if i+minMatch > len(data) {
			out = append(out, lz77Element{lit: data[i]})
			i++
			continue
		}

		key := xxhash.Sum64(data[i : i+minMatch])
		positions := chains[key]
		if len(positions) > maxChain {
			positions = positions[len(positions)-maxChain:]
			chains[key] = positions
		}

		bestLen, bestPos := 0, 0
		for k := len(positions) - 1; k >= 0; k-- {
			p := positions[k]
			if i-p > maxDistance {
				continue
			}
			if !bytes.Equal(data[p:p+minMatch], data[i:i+minMatch]) {
				continue
			}
			n := minMatch
			for i+n < len(data) && n < maxMatch && data[i+n] == data[p+n] {
				n++
			}
			if n > bestLen {
				bestLen, bestPos = n, p
			}
		}

		if bestLen >= minMatch {
			out = append(out, lz77Element{dist: i - bestPos, length: bestLen})
		} else {
			out = append(out, lz77Element{lit: data[i]})
		}
		chains[key] = append(chains[key], i)
		if bestLen >= minMatch {
			i += bestLen
		} else {
			i++
		}
	}
	return out
}
