package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// latin1Confidence is the chardet score above which a Western European guess
// is trusted over the Windows-1250 default.
const latin1Confidence = 90

const peekSize = 4096

// NewUTF8Reader detects the encoding of the input and returns a reader
// that decodes the content to UTF-8.
//
// Detection order:
//  1. Check for BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Validate if the content is valid UTF-8 and return as-is
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1250
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	// A full window may end in the middle of a rune.
	sample := buf
	if err == nil {
		sample = trimPartialRune(buf)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if bytes.HasPrefix(buf, bomUTF16LE) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	if bytes.HasPrefix(buf, bomUTF16BE) {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	if utf8.Valid(sample) {
		return br, nil
	}

	// ISO-8859-2 guesses are read as Windows-1250: the ministry files are
	// 1250 and the two only differ in a handful of Polish letters.
	detector := chardet.NewTextDetector()

	result, detectErr := detector.DetectBest(buf)
	if detectErr == nil {
		switch result.Charset {
		case "ISO-8859-2", "windows-1250":
			return transform.NewReader(br, charmap.Windows1250.NewDecoder()), nil
		case "ISO-8859-1", "windows-1252":
			if result.Confidence >= latin1Confidence {
				return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
			}
		}
	}

	return transform.NewReader(br, charmap.Windows1250.NewDecoder()), nil
}

// trimPartialRune drops an incomplete multi-byte sequence at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		start := len(b) - i
		if !utf8.RuneStart(b[start]) {
			continue
		}

		if !utf8.FullRune(b[start:]) {
			return b[:start]
		}

		return b
	}

	return b
}

// FromWindows1250 decodes b, which the ministry publishes as Windows-1250.
// Bytes already valid as UTF-8 are returned unchanged.
func FromWindows1250(b []byte) ([]byte, error) {
	if utf8.Valid(b) {
		return b, nil
	}

	out, err := charmap.Windows1250.NewDecoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("decode windows-1250: %w", err)
	}

	return out, nil
}
