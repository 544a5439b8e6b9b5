package dzip

import (
	"math/rand"
	"testing"
)

func TestBoundedHuffmanInfeasible(t *testing.T) {
	if _, err := boundedHuffman(1, []int{1, 1, 1}); err != ErrHuffman {
		t.Errorf("got %v, want %v", err, ErrHuffman)
	}
}

func TestBoundedHuffmanDegenerate(t *testing.T) {
	if lengths, err := boundedHuffman(15, nil); err != nil || len(lengths) != 0 {
		t.Errorf("empty alphabet: got %v, %v", lengths, err)
	}
	lengths, err := boundedHuffman(15, []int{7})
	if err != nil || len(lengths) != 1 || lengths[0] != 1 {
		t.Errorf("single symbol: got %v, %v", lengths, err)
	}
}

// The contribution maps merge by element-wise MAX rather than sum, and the
// block layout depends on exactly these lengths coming out; pin them.
func TestBoundedHuffmanKnownLengths(t *testing.T) {
	cases := []struct {
		maxLen  int
		weights []int
		want    []int
	}{
		{2, []int{1, 1, 1}, []int{2, 2, 1}},
		{3, []int{5, 1, 1}, []int{1, 2, 2}},
		{2, []int{1, 1, 1, 1}, []int{2, 2, 2, 2}},
	}
	for _, c := range cases {
		got, err := boundedHuffman(c.maxLen, c.weights)
		if err != nil {
			t.Fatalf("boundedHuffman(%d, %v): %v", c.maxLen, c.weights, err)
		}
		if !equalInts(got, c.want) {
			t.Errorf("boundedHuffman(%d, %v)=%v, want %v", c.maxLen, c.weights, got, c.want)
		}
	}
}

func TestBoundedHuffmanLengthLimit(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for _, c := range []struct{ maxLen, maxSyms int }{{7, numCLSymbols}, {15, numLitLenSymbols}} {
		maxLen := c.maxLen
		for trial := 0; trial < 20; trial++ {
			n := 2 + r.Intn(c.maxSyms-2)
			weights := make([]int, n)
			for i := range weights {
				weights[i] = 1 + r.Intn(1000)
			}
			lengths, err := boundedHuffman(maxLen, weights)
			if err != nil {
				t.Fatal(err)
			}

			// Every length must be in 1..maxLen and the lengths must obey
			// Kraft's inequality, here in exact integer form.
			kraft := 0
			for i, l := range lengths {
				if l < 1 || l > maxLen {
					t.Fatalf("maxLen %d: symbol %d got length %d", maxLen, i, l)
				}
				kraft += 1 << uint(maxLen-l)
			}
			if kraft > 1<<uint(maxLen) {
				t.Fatalf("maxLen %d: lengths %v oversubscribe the code", maxLen, lengths)
			}
		}
	}
}

func TestHuffmanCodeLengthsScatter(t *testing.T) {
	freq := []int{0, 5, 0, 3, 2, 0}
	lengths, err := huffmanCodeLengths(15, freq)
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range freq {
		if (f > 0) != (lengths[i] > 0) {
			t.Errorf("symbol %d: freq %d got length %d", i, f, lengths[i])
		}
	}
}

func TestCanonicalCodes(t *testing.T) {
	entries := []codeLength[string]{
		{sym: keyed[string]{value: "a", key: 0}, length: 2},
		{sym: keyed[string]{value: "b", key: 1}, length: 2},
		{sym: keyed[string]{value: "c", key: 2}, length: 3},
		{sym: keyed[string]{value: "d", key: 3}, length: 3},
	}
	forward, reverse, err := canonicalCodes(entries)
	if err != nil {
		t.Fatal(err)
	}
	want := map[int]hcode{
		0: {bits: 0, width: 2},
		1: {bits: 1, width: 2},
		2: {bits: 4, width: 3},
		3: {bits: 5, width: 3},
	}
	for key, code := range want {
		if forward[key] != code {
			t.Errorf("key %d: got %v, want %v", key, forward[key], code)
		}
	}
	if reverse[hcode{bits: 4, width: 3}] != "c" {
		t.Errorf("reverse lookup: got %q, want %q", reverse[hcode{bits: 4, width: 3}], "c")
	}
}

func TestCanonicalCodesUnsorted(t *testing.T) {
	entries := []codeLength[int]{
		{sym: keyed[int]{value: 0, key: 0}, length: 2},
		{sym: keyed[int]{value: 1, key: 1}, length: 1},
	}
	if _, _, err := canonicalCodes(entries); err != ErrUnsortedLengths {
		t.Errorf("got %v, want %v", err, ErrUnsortedLengths)
	}
}

func TestCanonicalCodesPrefixFree(t *testing.T) {
	r := rand.New(rand.NewSource(19))
	for trial := 0; trial < 10; trial++ {
		freq := make([]int, numLitLenSymbols)
		for i := range freq {
			if r.Intn(3) > 0 {
				freq[i] = 1 + r.Intn(500)
			}
		}
		lengths, err := huffmanCodeLengths(maxCodeBits, freq)
		if err != nil {
			t.Fatal(err)
		}
		codes, err := buildCodes(lengths)
		if err != nil {
			t.Fatal(err)
		}

		var all []hcode
		for _, c := range codes {
			all = append(all, c)
		}
		for i := 0; i < len(all); i++ {
			for j := 0; j < len(all); j++ {
				if i == j {
					continue
				}
				a, b := all[i], all[j]
				if a.width <= b.width && b.bits>>uint(b.width-a.width) == a.bits {
					t.Fatalf("code %v is a prefix of %v", a, b)
				}
			}
		}
	}
}

func TestDecodeSymbolRoundTrip(t *testing.T) {
	lengths := []int{2, 2, 2, 3, 3}
	codes, err := buildCodes(lengths)
	if err != nil {
		t.Fatal(err)
	}
	var entries []lengthEntry
	for sym, l := range lengths {
		entries = append(entries, lengthEntry{sym: sym, length: l})
	}
	table, err := buildDecodeTable(entries)
	if err != nil {
		t.Fatal(err)
	}

	seq := []int{3, 0, 2, 4, 1, 1, 0}
	var bits []bool
	for _, sym := range seq {
		bits = appendCode(bits, codes[sym])
	}
	cur := &bitCursor{bits: bits}
	for i, want := range seq {
		got, err := decodeSymbol(cur, table, maxCodeBits)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("symbol %d: got %d, want %d", i, got, want)
		}
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
