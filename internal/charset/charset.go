// Package charset encodes codepoints for terminals that cannot take UTF-8,
// using the VT100 alternate character set, the PC (CP437) code page,
// Latin-1 or plain ASCII with substitutions.
package charset

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/encoding"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding identifies the wire encoding of glyphs.
type Encoding int

// Supported encodings.
const (
	UTF8 Encoding = iota
	VT100
	PC
	Latin1
	ASCII
)

// String returns the configuration name of the encoding.
func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf8"
	case VT100:
		return "vt100"
	case PC:
		return "pc"
	case Latin1:
		return "latin1"
	case ASCII:
		return "ascii"
	default:
		return "unknown"
	}
}

// Parse converts a configuration name into an Encoding.
func Parse(name string) (Encoding, error) {
	switch name {
	case "utf8", "utf-8", "UTF-8":
		return UTF8, nil
	case "vt100":
		return VT100, nil
	case "pc", "cp437":
		return PC, nil
	case "latin1", "iso8859-1":
		return Latin1, nil
	case "ascii":
		return ASCII, nil
	}
	return UTF8, fmt.Errorf("unknown encoding %q", name)
}

// Result is the outcome of encoding one codepoint.
type Result struct {
	// Ch is the codepoint or byte value to send.
	Ch rune
	// AltCharset is set when Ch must be sent inside the VT100 alternate set.
	AltCharset bool
	// PCCharset is set when Ch must be sent with the PC charset enabled.
	PCCharset bool
}

// Encoder encodes codepoints for one terminal.
type Encoder struct {
	enc    Encoding
	acs    map[rune]byte
	latin1 *xenc.Encoder
	ascii  *xenc.Encoder
}

// NewEncoder creates an encoder. acsc is the terminal's alternate character
// map (pairs of VT100 designator and terminal byte), as found in terminfo.
func NewEncoder(enc Encoding, acsc string) *Encoder {
	e := &Encoder{
		enc:    enc,
		latin1: encoding.ISO8859_1.NewEncoder(),
		ascii:  encoding.ASCII.NewEncoder(),
	}
	if enc == VT100 {
		e.acs = buildACS(acsc)
	}
	return e
}

// Encoding returns the encoder's wire encoding.
func (e *Encoder) Encoding() Encoding {
	return e.enc
}

// Encode maps r onto the terminal's character set.
func (e *Encoder) Encode(r rune) Result {
	if e.enc == UTF8 || r < 0x80 {
		return Result{Ch: r}
	}

	switch e.enc {
	case VT100:
		if b, ok := e.acs[r]; ok {
			return Result{Ch: rune(b), AltCharset: true}
		}
	case PC:
		if b, ok := charmap.CodePage437.EncodeRune(r); ok && b >= 0x80 {
			return Result{Ch: rune(b), PCCharset: true}
		}
	case Latin1:
		if b, ok := encodeByte(e.latin1, r); ok {
			return Result{Ch: rune(b)}
		}
	}
	return Result{Ch: e.Fallback(r)}
}

// Fallback returns a plain ASCII stand-in for r.
func (e *Encoder) Fallback(r rune) rune {
	if b, ok := encodeByte(e.ascii, r); ok {
		return rune(b)
	}
	if s, ok := substitutes[r]; ok {
		return s
	}
	return '?'
}

// encodeByte encodes r with an 8-bit encoder. Runes the charset lacks come
// back as the ASCII substitute byte.
func encodeByte(enc *xenc.Encoder, r rune) (byte, bool) {
	var src [utf8.UTFMax]byte
	n := utf8.EncodeRune(src[:], r)
	out, err := enc.Bytes(src[:n])
	if err != nil || len(out) != 1 {
		return 0, false
	}
	if out[0] == encoding.ASCIISub && r != encoding.ASCIISub {
		return 0, false
	}
	return out[0], true
}
