package dzip

import "io"

// blockSymbols is how many LZ77 elements one dynamic block carries; the
// block holding the last element is flagged final, whatever its size.
const blockSymbols = 1<<16 - 1

// Encode compresses data into the .dzip format: a 3-bit pad preamble
// followed by a chain of dynamic-Huffman blocks, packed MSB-first.
func Encode(data []byte) ([]byte, error) {
	elems := encodeLZ77(data)

	bits := make([]bool, 3)
	var err error
	if len(elems) == 0 {
		// An empty input still carries one final block holding only the
		// end-of-block marker.
		bits, err = appendBlock(bits, nil, true)
		if err != nil {
			return nil, err
		}
	}
	for start := 0; start < len(elems); start += blockSymbols {
		end := start + blockSymbols
		final := end >= len(elems)
		if final {
			end = len(elems)
		}
		bits, err = appendBlock(bits, elems[start:end], final)
		if err != nil {
			return nil, err
		}
	}

	pad := toConstSizeBin(len(bits)%8, 3)
	copy(bits[:3], pad)
	return packBits(bits), nil
}

// appendBlock encodes one dynamic-Huffman block over elems and appends its
// bits to dst.
func appendBlock(dst []bool, elems []lz77Element, final bool) ([]bool, error) {
	// Literal/length alphabet: every element plus the end-of-block marker.
	var litFreq [numLitLenSymbols]int
	for _, e := range elems {
		if e.dist == 0 {
			litFreq[e.lit]++
		} else {
			sym, _, _ := lengthSymbol(e.length)
			litFreq[sym]++
		}
	}
	litFreq[endBlock]++
	litLens, err := huffmanCodeLengths(maxCodeBits, litFreq[:])
	if err != nil {
		return nil, err
	}
	litCodes, err := buildCodes(litLens)
	if err != nil {
		return nil, err
	}

	// Distance alphabet; empty when the block holds no references.
	var distFreq [numDistSymbols]int
	for _, e := range elems {
		if e.dist != 0 {
			sym, _, _ := distanceSymbol(e.dist)
			distFreq[sym]++
		}
	}
	distLens, err := huffmanCodeLengths(maxCodeBits, distFreq[:])
	if err != nil {
		return nil, err
	}
	distCodes, err := buildCodes(distLens)
	if err != nil {
		return nil, err
	}

	// The two length sequences are run-length encoded separately; a repeat
	// op must not straddle the boundary the decoder's read counts land on.
	clStream := encodeCodeLengths(litLens)
	clStream = append(clStream, encodeCodeLengths(distLens)...)

	var clFreq [numCLSymbols]int
	for _, s := range clStream {
		clFreq[s.sym]++
	}
	clLens, err := huffmanCodeLengths(maxCLCodeBits, clFreq[:])
	if err != nil {
		return nil, err
	}
	clCodes, err := buildCodes(clLens)
	if err != nil {
		return nil, err
	}

	// hlit counts from the largest used length/match symbol; literals and
	// the end-of-block marker always fall inside the first 257 entries.
	hlit := 0
	for sym := endBlock + 1; sym < numLitLenSymbols; sym++ {
		if litFreq[sym] > 0 {
			hlit = sym - endBlock
		}
	}
	hdist := 0
	for sym := 0; sym < numDistSymbols; sym++ {
		if distFreq[sym] > 0 {
			hdist = sym + 1
		}
	}
	hclen := numCLSymbols - 4
	for i := numCLSymbols - 1; i >= 0; i-- {
		if clLens[codeLengthOrder[i]] != 0 {
			break
		}
		hclen--
	}

	dst = append(dst, final, false, true)
	dst = appendValue(dst, hlit, 5)
	dst = appendValue(dst, hdist, 5)
	dst = appendValue(dst, hclen, 4)

	for _, sym := range codeLengthOrder[:hclen+4] {
		dst = appendValue(dst, clLens[sym], 3)
	}

	for _, s := range clStream {
		dst = appendCode(dst, clCodes[s.sym])
		switch s.sym {
		case 16:
			dst = appendValue(dst, s.count-3, 2)
		case 17:
			dst = appendValue(dst, s.count-3, 3)
		case 18:
			dst = appendValue(dst, s.count-11, 7)
		}
	}

	for _, e := range elems {
		if e.dist == 0 {
			dst = appendCode(dst, litCodes[int(e.lit)])
			continue
		}
		sym, extra, width := lengthSymbol(e.length)
		dst = appendCode(dst, litCodes[sym])
		if width > 0 {
			dst = appendValue(dst, extra, width)
		}
		dsym, dextra, dwidth := distanceSymbol(e.dist)
		dst = appendCode(dst, distCodes[dsym])
		if dwidth > 0 {
			dst = appendValue(dst, dextra, dwidth)
		}
	}
	dst = appendCode(dst, litCodes[endBlock])

	return dst, nil
}

// A Writer buffers data written to it and writes the compressed form to an
// underlying writer when closed (see NewWriter).
type Writer struct {
	w    io.Writer
	data []byte
}

// NewWriter creates a new Writer.
// Writes to the returned Writer are compressed and written to w.
//
// It is the caller's responsibility to call Close on the Writer when done.
// Writes are buffered and not flushed until Close.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write buffers p for compression. The compressed bytes are not written
// until the Writer is closed.
func (w *Writer) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

// Close compresses the buffered data and writes it to the underlying writer.
func (w *Writer) Close() error {
	encoded, err := Encode(w.data)
	if err != nil {
		return err
	}
	_, err = w.w.Write(encoded)
	return err
}
