package dzip

import "sort"

// hcode is one canonical Huffman code: width bits of bits, MSB-first.
// The zero hcode is the empty code assigned to absent symbols.
type hcode struct {
	bits  uint32
	width uint8
}

// keyed attaches an integer ordering key to an arbitrary payload. Sorting
// and table placement go through the key alone, so payloads never need to
// be comparable themselves.
type keyed[T any] struct {
	value T
	key   int
}

// codeLength pairs a symbol with its assigned code length.
type codeLength[T any] struct {
	sym    keyed[T]
	length int
}

func sortCodeLengths[T any](entries []codeLength[T]) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].length != entries[j].length {
			return entries[i].length < entries[j].length
		}
		return entries[i].sym.key < entries[j].sym.key
	})
}

// canonicalCodes assigns canonical prefix codes to entries already sorted by
// (length, key). Length-zero entries may only appear at the front and
// receive the empty code. Codes of one length are consecutive integers; each
// time the length grows the running counter shifts left until the widths
// agree. Returns the forward (key -> code) and reverse (code -> payload)
// tables.
func canonicalCodes[T any](entries []codeLength[T]) (map[int]hcode, map[hcode]T, error) {
	forward := make(map[int]hcode, len(entries))
	reverse := make(map[hcode]T, len(entries))

	mask := 0
	width := 0
	for i, e := range entries {
		if i == 0 || entries[i-1].length == 0 {
			code := hcode{width: uint8(e.length)}
			forward[e.sym.key] = code
			reverse[code] = e.sym.value
			width = e.length
			continue
		}
		switch {
		case e.length == entries[i-1].length:
			mask++
		case e.length > entries[i-1].length:
			mask++
			for width != e.length {
				mask <<= 1
				width++
			}
		default:
			return nil, nil, ErrUnsortedLengths
		}
		code := hcode{bits: uint32(mask), width: uint8(width)}
		forward[e.sym.key] = code
		reverse[code] = e.sym.value
	}
	return forward, reverse, nil
}

// coin is one package-merge item: a weight plus the per-symbol level
// contributions it carries.
type coin struct {
	weight int
	counts map[int]int
}

// mergeCoins combines two coins. Weights add; contributions combine by
// element-wise MAX, not sum. The rest of the pipeline depends on the code
// lengths this particular bookkeeping produces, so it must stay as is.
func mergeCoins(a, b coin) coin {
	counts := make(map[int]int, len(a.counts)+len(b.counts))
	for k, v := range a.counts {
		counts[k] = v
	}
	for k, v := range b.counts {
		if counts[k] < v {
			counts[k] = v
		}
	}
	return coin{weight: a.weight + b.weight, counts: counts}
}

// boundedHuffman runs package-merge over positive weights and returns a code
// length in 1..maxLen for each, minimizing total coded size under the length
// bound. An empty weight set yields an empty result; more weights than
// 2^maxLen codes is infeasible.
func boundedHuffman(maxLen int, weights []int) ([]int, error) {
	n := len(weights)
	if n == 0 {
		return nil, nil
	}
	if 1<<uint(maxLen) < n {
		return nil, ErrHuffman
	}

	var coins []coin
	for level := maxLen; level >= 1; level-- {
		merged := make([]coin, 0, len(coins)/2+n)
		for i := 0; i+1 < len(coins); i += 2 {
			merged = append(merged, mergeCoins(coins[i], coins[i+1]))
		}
		for i, w := range weights {
			merged = append(merged, coin{weight: w, counts: map[int]int{i: level}})
		}
		coins = merged
		sort.SliceStable(coins, func(i, j int) bool {
			return coins[i].weight < coins[j].weight
		})
	}

	result := make([]int, n)
	limit := max(n, 2*n-2)
	if limit > len(coins) {
		limit = len(coins)
	}
	for i := 0; i < limit; i++ {
		for k, v := range coins[i].counts {
			if result[k] < v {
				result[k] = v
			}
		}
	}
	return result, nil
}

// huffmanCodeLengths maps symbol frequencies to code lengths: symbols with
// zero frequency get length 0, the rest get bounded lengths computed from
// their frequencies, placed back at their own symbol indices.
func huffmanCodeLengths(maxLen int, freq []int) ([]int, error) {
	var weights []int
	for _, f := range freq {
		if f > 0 {
			weights = append(weights, f)
		}
	}
	bounded, err := boundedHuffman(maxLen, weights)
	if err != nil {
		return nil, err
	}
	lengths := make([]int, len(freq))
	j := 0
	for i, f := range freq {
		if f > 0 {
			lengths[i] = bounded[j]
			j++
		}
	}
	return lengths, nil
}

// buildCodes turns a full per-symbol length vector into the forward coding
// table for symbols with non-zero lengths.
func buildCodes(lengths []int) (map[int]hcode, error) {
	var entries []codeLength[int]
	for sym, l := range lengths {
		if l > 0 {
			entries = append(entries, codeLength[int]{sym: keyed[int]{value: sym, key: sym}, length: l})
		}
	}
	sortCodeLengths(entries)
	forward, _, err := canonicalCodes(entries)
	return forward, err
}

// lengthEntry is a decoded (symbol, code length) pair; absent symbols are
// simply not listed.
type lengthEntry struct {
	sym    int
	length int
}

// buildDecodeTable turns decoded length entries into the reverse table used
// to resolve codes from the bit stream.
func buildDecodeTable(entries []lengthEntry) (map[hcode]int, error) {
	ces := make([]codeLength[int], len(entries))
	for i, e := range entries {
		ces[i] = codeLength[int]{sym: keyed[int]{value: e.sym, key: e.sym}, length: e.length}
	}
	sortCodeLengths(ces)
	_, reverse, err := canonicalCodes(ces)
	return reverse, err
}

// decodeSymbol pulls bits until they resolve to a symbol in table, giving up
// once the code is wider than any the table can hold.
func decodeSymbol(c *bitCursor, table map[hcode]int, maxWidth int) (int, error) {
	var code hcode
	for int(code.width) < maxWidth {
		b, err := c.readBit()
		if err != nil {
			return 0, err
		}
		code.bits <<= 1
		if b {
			code.bits |= 1
		}
		code.width++
		if sym, ok := table[code]; ok {
			return sym, nil
		}
	}
	return 0, ErrInvalidSymbol
}
