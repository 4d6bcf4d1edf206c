// Package strcodec decodes JSON string escapes in place and encodes raw bytes
// as the body of a JSON string.
package strcodec

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/vinicius-lino-figueiredo/nanojson/domain"
)

const hexDigits = "0123456789abcdef"

// Unescape decodes the escape sequences of a string body in place and returns
// the decoded length. A decoded sequence is never longer than its escaped
// form, so the write position never passes the read position.
//
// \uXXXX escapes are written as UTF-8. A high surrogate followed by a low
// surrogate escape yields one four byte sequence; a lone surrogate is written
// as U+FFFD.
func Unescape(span []byte) (int, error) {
	w := 0
	for r := 0; r < len(span); {
		c := span[r]
		if c != '\\' {
			span[w] = c
			w++
			r++
			continue
		}
		if r+1 >= len(span) {
			return w, domain.ErrInvalidEscape
		}
		switch span[r+1] {
		case '"', '\\', '/':
			span[w] = span[r+1]
		case 'b':
			span[w] = '\b'
		case 'f':
			span[w] = '\f'
		case 'n':
			span[w] = '\n'
		case 'r':
			span[w] = '\r'
		case 't':
			span[w] = '\t'
		case 'u':
			ch, ok := hex4(span, r+2)
			if !ok {
				return w, domain.ErrInvalidEscape
			}
			r += 6
			if utf16.IsSurrogate(ch) && r+5 < len(span) && span[r] == '\\' && span[r+1] == 'u' {
				if lo, ok := hex4(span, r+2); ok {
					if dec := utf16.DecodeRune(ch, lo); dec != utf8.RuneError {
						ch = dec
						r += 6
					}
				}
			}
			w += utf8.EncodeRune(span[w:], ch)
			continue
		default:
			return w, domain.ErrInvalidEscape
		}
		w++
		r += 2
	}
	return w, nil
}

func hex4(b []byte, i int) (rune, bool) {
	if i+4 > len(b) {
		return 0, false
	}
	var ch rune
	for _, c := range b[i : i+4] {
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, false
		}
		ch = ch<<4 | rune(d)
	}
	return ch, true
}

// Escape writes src into dst as the body of a JSON string, without the
// surrounding quotes. It returns the number of bytes written.
//
// Control characters, quote and backslash are escaped. Other bytes are copied
// as they are unless asciiOnly is set, in which case UTF-8 sequences are
// decoded and written as \u escapes, invalid bytes as U+FFFD.
//
// Escape never writes past len(dst) and never writes half an escape
// sequence: it stops at the first unit that does not fit. When room remains
// after the last written byte, a zero terminator is placed there. Comparing
// the result with [EscapedLen] tells whether the output was truncated.
func Escape(dst, src []byte, asciiOnly bool) int {
	var seq [12]byte
	w := 0
	for i := 0; i < len(src); {
		n, size := unit(seq[:], src[i:], asciiOnly)
		if w+n > len(dst) {
			break
		}
		copy(dst[w:], seq[:n])
		w += n
		i += size
	}
	if w < len(dst) {
		dst[w] = 0
	}
	return w
}

// EscapedLen returns the length [Escape] needs to write all of src.
func EscapedLen(src []byte, asciiOnly bool) int {
	var seq [12]byte
	total := 0
	for i := 0; i < len(src); {
		n, size := unit(seq[:], src[i:], asciiOnly)
		total += n
		i += size
	}
	return total
}

// Append appends the escaped form of src to dst.
func Append(dst, src []byte, asciiOnly bool) []byte {
	var seq [12]byte
	for i := 0; i < len(src); {
		n, size := unit(seq[:], src[i:], asciiOnly)
		dst = append(dst, seq[:n]...)
		i += size
	}
	return dst
}

// unit encodes the first character of src into seq. It returns the encoded
// length and the number of source bytes consumed.
func unit(seq, src []byte, asciiOnly bool) (int, int) {
	c := src[0]
	switch c {
	case '"', '\\':
		seq[0], seq[1] = '\\', c
		return 2, 1
	case '\b':
		seq[0], seq[1] = '\\', 'b'
		return 2, 1
	case '\f':
		seq[0], seq[1] = '\\', 'f'
		return 2, 1
	case '\n':
		seq[0], seq[1] = '\\', 'n'
		return 2, 1
	case '\r':
		seq[0], seq[1] = '\\', 'r'
		return 2, 1
	case '\t':
		seq[0], seq[1] = '\\', 't'
		return 2, 1
	}
	if c < 0x20 {
		return putU(seq, rune(c)), 1
	}
	if c < utf8.RuneSelf || !asciiOnly {
		seq[0] = c
		return 1, 1
	}

	r, size := utf8.DecodeRune(src)
	if r > 0xFFFF {
		hi, lo := utf16.EncodeRune(r)
		n := putU(seq, hi)
		return n + putU(seq[n:], lo), size
	}
	// invalid bytes decode to RuneError with size 1
	return putU(seq, r), size
}

func putU(seq []byte, r rune) int {
	seq[0], seq[1] = '\\', 'u'
	seq[2] = hexDigits[r>>12&0xF]
	seq[3] = hexDigits[r>>8&0xF]
	seq[4] = hexDigits[r>>4&0xF]
	seq[5] = hexDigits[r&0xF]
	return 6
}
