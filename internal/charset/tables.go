package charset

// vt100Glyphs maps Unicode glyphs to their VT100 special graphics designator.
var vt100Glyphs = map[rune]byte{
	'◆': '`', '▒': 'a', '␉': 'b', '␌': 'c', '␍': 'd', '␊': 'e',
	'°': 'f', '±': 'g', '␤': 'h', '␋': 'i', '┘': 'j', '┐': 'k',
	'┌': 'l', '└': 'm', '┼': 'n', '⎺': 'o', '⎻': 'p', '─': 'q',
	'⎼': 'r', '⎽': 's', '├': 't', '┤': 'u', '┴': 'v', '┬': 'w',
	'│': 'x', '≤': 'y', '≥': 'z', 'π': '{', '≠': '|', '£': '}',
	'·': '~', '→': '+', '←': ',', '↑': '-', '↓': '.', '█': '0',
	'▶': '+', '◀': ',', '▲': '-', '▼': '.',
}

// buildACS restricts the VT100 table to designators the terminal maps.
// An empty acsc means the plain VT100 mapping.
func buildACS(acsc string) map[rune]byte {
	avail := make(map[byte]byte, len(acsc)/2)
	for i := 0; i+1 < len(acsc); i += 2 {
		avail[acsc[i]] = acsc[i+1]
	}
	out := make(map[rune]byte, len(vt100Glyphs))
	for r, d := range vt100Glyphs {
		if len(avail) == 0 {
			out[r] = d
			continue
		}
		if b, ok := avail[d]; ok {
			out[r] = b
		}
	}
	return out
}

// substitutes are ASCII stand-ins for common non-ASCII glyphs.
var substitutes = map[rune]rune{
	'─': '-', '━': '-', '═': '=', '│': '|', '┃': '|', '║': '|',
	'┌': '+', '┐': '+', '└': '+', '┘': '+', '├': '+', '┤': '+',
	'┬': '+', '┴': '+', '┼': '+', '╔': '+', '╗': '+', '╚': '+',
	'╝': '+', '╠': '+', '╣': '+', '╦': '+', '╩': '+', '╬': '+',
	'█': '#', '▓': '#', '▒': '#', '░': '#', '▀': '"', '▄': '_',
	'▌': '|', '▐': '|', '■': '#', '◆': '*', '●': '*', '•': '*',
	'·': '.', '…': '.', '‹': '<', '›': '>', '«': '<', '»': '>',
	'←': '<', '→': '>', '↑': '^', '↓': 'v', '◀': '<', '▶': '>',
	'▲': '^', '▼': 'v', '°': 'o', '±': '#', '≤': '<', '≥': '>',
	'≠': '#', 'π': 'n', '£': 'f', '✓': 'v', '✗': 'x', '×': 'x',
	'‘': '\'', '’': '\'', '“': '"', '”': '"', '–': '-', '—': '-',
}
