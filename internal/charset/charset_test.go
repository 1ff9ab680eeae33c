package charset

import "testing"

func TestParse(t *testing.T) {
	for _, name := range []string{"utf8", "vt100", "pc", "latin1", "ascii"} {
		e, err := Parse(name)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", name, err)
			continue
		}
		if e.String() != name {
			t.Errorf("Parse(%q).String() = %q", name, e.String())
		}
	}
	if _, err := Parse("ebcdic"); err == nil {
		t.Error("Parse(ebcdic) should fail")
	}
}

func TestEncode(t *testing.T) {
	const xtermACS = "``aaffggiijjkkllmmnnooppqqrrssttuuvvwwxxyyzz{{||}}~~"

	tests := []struct {
		name string
		enc  Encoding
		acsc string
		in   rune
		want Result
	}{
		{"utf8 passthrough", UTF8, "", '─', Result{Ch: '─'}},
		{"ascii passthrough", VT100, xtermACS, 'A', Result{Ch: 'A'}},
		{"vt100 line", VT100, xtermACS, '─', Result{Ch: 'q', AltCharset: true}},
		{"vt100 corner", VT100, xtermACS, '┌', Result{Ch: 'l', AltCharset: true}},
		{"vt100 missing falls back", VT100, xtermACS, '→', Result{Ch: '>'}},
		{"vt100 default table", VT100, "", '→', Result{Ch: '+', AltCharset: true}},
		{"pc line", PC, "", '─', Result{Ch: 0xC4, PCCharset: true}},
		{"pc block", PC, "", '█', Result{Ch: 0xDB, PCCharset: true}},
		{"latin1", Latin1, "", 'é', Result{Ch: 0xE9}},
		{"latin1 missing", Latin1, "", '─', Result{Ch: '-'}},
		{"ascii substitute", ASCII, "", '═', Result{Ch: '='}},
		{"ascii unknown", ASCII, "", '中', Result{Ch: '?'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEncoder(tt.enc, tt.acsc)
			if got := e.Encode(tt.in); got != tt.want {
				t.Errorf("Encode(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildACSRemaps(t *testing.T) {
	// A terminal whose 'q' designator is sent as 'Q'.
	m := buildACS("qQxX")
	if m['─'] != 'Q' || m['│'] != 'X' {
		t.Errorf("remapped = %q %q", m['─'], m['│'])
	}
	if _, ok := m['┌']; ok {
		t.Error("unmapped designator should be absent")
	}
}
