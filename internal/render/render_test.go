package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2/terminfo"

	"github.com/dshills/vterm/internal/attr"
	"github.com/dshills/vterm/internal/charset"
	"github.com/dshills/vterm/internal/compose"
	"github.com/dshills/vterm/internal/core"
	"github.com/dshills/vterm/internal/output"
	"github.com/dshills/vterm/internal/surface"
	"github.com/dshills/vterm/internal/termcap"
)

func testXterm() *terminfo.Terminfo {
	return &terminfo.Terminfo{
		Name:              "xterm-test",
		Colors:            256,
		Clear:             "\x1b[H\x1b[2J",
		SetCursor:         "\x1b[%i%p1%d;%p2%dH",
		ShowCursor:        "\x1b[?25h",
		HideCursor:        "\x1b[?25l",
		AttrOff:           "\x1b[m",
		SetFg:             "\x1b[38;5;%p1%dm",
		SetBg:             "\x1b[48;5;%p1%dm",
		ResetFgBg:         "\x1b[39;49m",
		InsertChar:        "\x1b[@",
		AutoMargin:        true,
		EnableAutoMargin:  "\x1b[?7h",
		DisableAutoMargin: "\x1b[?7l",
		XTermLike:         true,
	}
}

type fixture struct {
	r      *Renderer
	screen *surface.Surface
	caps   *termcap.Caps
	out    *output.Sink
	buf    *bytes.Buffer
}

func newFixture(t *testing.T, w, h int, ov termcap.Overrides) *fixture {
	t.Helper()
	a := surface.NewArena(surface.Options{UTF8: true})
	screen, err := a.Create(0, core.NewRect(0, 0, w, h), core.Size{})
	if err != nil {
		t.Fatal(err)
	}
	caps := termcap.FromTerminfo(testXterm(), ov)
	buf := &bytes.Buffer{}
	out := output.New(buf, output.DefaultBufferSize, caps)
	r := New(screen, caps, attr.New(caps), charset.NewEncoder(charset.UTF8, ""), out, nil)

	// Start every test with a hidden cursor and nothing written.
	r.HideCursor()
	_ = out.Flush()
	buf.Reset()
	return &fixture{r: r, screen: screen, caps: caps, out: out, buf: buf}
}

func (f *fixture) write(t *testing.T, x, y int, text string) {
	t.Helper()
	f.screen.SetCursor(core.Pt(x, y))
	if _, err := f.screen.WriteString(text); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) render(t *testing.T) (Stats, string) {
	t.Helper()
	st, err := f.r.Render()
	if err != nil {
		t.Fatal(err)
	}
	if err := f.out.Flush(); err != nil {
		t.Fatal(err)
	}
	s := f.buf.String()
	f.buf.Reset()
	return st, s
}

func TestRenderHello(t *testing.T) {
	a := surface.NewArena(surface.Options{UTF8: true})
	screen, _ := a.Create(0, core.NewRect(0, 0, 10, 3), core.Size{})
	desktop, _ := a.Create(0, core.NewRect(0, 0, 10, 3), core.Size{})
	desktop.SetVisible(true)
	comp := compose.New(screen, desktop, compose.NewStack(), nil)

	caps := termcap.FromTerminfo(testXterm(), termcap.Overrides{})
	var buf bytes.Buffer
	out := output.New(&buf, output.DefaultBufferSize, caps)
	r := New(screen, caps, attr.New(caps), charset.NewEncoder(charset.UTF8, ""), out, nil)
	r.HideCursor()
	_ = out.Flush()
	buf.Reset()

	if _, err := desktop.WriteString("Hello"); err != nil {
		t.Fatal(err)
	}
	comp.Flush(desktop)
	st, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}
	_ = out.Flush()

	if want := "\x1b[1;1H\x1b[mHello"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if st.Rows != 1 || st.Bytes != buf.Len() {
		t.Errorf("stats = %+v", st)
	}
	if screen.DirtyRows() != 0 {
		t.Errorf("dirty rows after render = %d", screen.DirtyRows())
	}

	// Rewriting the same cells reaches the screen but emits nothing.
	buf.Reset()
	desktop.MarkDirty(0, 0, 4)
	comp.Flush(desktop)
	if screen.DirtyRows() != 1 {
		t.Fatalf("dirty rows = %d, want 1", screen.DirtyRows())
	}
	st, _ = r.Render()
	_ = out.Flush()
	if buf.Len() != 0 || st.Rows != 0 {
		t.Errorf("identical rewrite emitted %q (rows %d)", buf.String(), st.Rows)
	}
	if screen.DirtyRows() != 0 {
		t.Errorf("dirty rows after idle pass = %d", screen.DirtyRows())
	}
}

func TestSecondPassIsIdle(t *testing.T) {
	f := newFixture(t, 10, 3, termcap.Overrides{})
	f.write(t, 2, 1, "abc")
	if _, s := f.render(t); s == "" {
		t.Fatal("first pass emitted nothing")
	}
	st, s := f.render(t)
	if s != "" || st.Rows != 0 {
		t.Errorf("second pass emitted %q", s)
	}
}

func TestRenderSequences(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		ov    termcap.Overrides
		setup func(t *testing.T, f *fixture)
		want  string
	}{
		{
			name: "erase characters",
			w:    40, h: 2,
			setup: func(t *testing.T, f *fixture) {
				f.write(t, 0, 0, "X"+string(bytes.Repeat([]byte{' '}, 20))+"Y")
			},
			want: "\x1b[1;1H\x1b[mX\x1b[20X\x1b[20CY",
		},
		{
			name: "repeat character",
			w:    40, h: 2,
			setup: func(t *testing.T, f *fixture) {
				f.write(t, 0, 0, string(bytes.Repeat([]byte{'-'}, 20)))
			},
			want: "\x1b[1;1H\x1b[m-\x1b[19b",
		},
		{
			name: "short runs print plainly",
			w:    40, h: 2,
			ov:   termcap.Overrides{Disable: []string{"rep"}},
			setup: func(t *testing.T, f *fixture) {
				f.write(t, 0, 0, "----")
			},
			want: "\x1b[1;1H\x1b[m----",
		},
		{
			name: "lower right with rmam and smam",
			w:    5, h: 2,
			setup: func(t *testing.T, f *fixture) {
				*f.screen.At(0, 1) = core.NewCell('a', core.ColorDefault, core.ColorDefault, 0)
				*f.screen.At(1, 1) = core.NewCell('b', core.ColorDefault, core.ColorDefault, 0)
				*f.screen.At(2, 1) = core.NewCell('c', core.ColorDefault, core.ColorDefault, 0)
				*f.screen.At(3, 1) = core.NewCell('d', core.ColorDefault, core.ColorDefault, 0)
				*f.screen.At(4, 1) = core.NewCell('e', core.ColorDefault, core.ColorDefault, 0)
				f.screen.MarkDirty(1, 0, 4)
			},
			want: "\x1b[2;1H\x1b[mabcd\x1b[?7le\x1b[?7h",
		},
		{
			name: "lower right with insert character",
			w:    5, h: 2,
			ov:   termcap.Overrides{Disable: []string{"smam", "rmam"}},
			setup: func(t *testing.T, f *fixture) {
				for i, ch := range "abcde" {
					*f.screen.At(i, 1) = core.NewCell(ch, core.ColorDefault, core.ColorDefault, 0)
				}
				f.screen.MarkDirty(1, 0, 4)
			},
			want: "\x1b[2;1H\x1b[mabcd\be\b\x1b[@d",
		},
		{
			name: "full-width glyph",
			w:    10, h: 2,
			setup: func(t *testing.T, f *fixture) {
				f.write(t, 0, 0, "a中b")
			},
			want: "\x1b[1;1H\x1b[ma中b",
		},
		{
			name: "full-width glyph cut by the right edge",
			w:    10, h: 2,
			setup: func(t *testing.T, f *fixture) {
				*f.screen.At(9, 0) = core.NewCell('中', core.ColorDefault, core.ColorDefault, 0)
				f.screen.MarkDirty(0, 9, 9)
			},
			want: "\x1b[1;10H\x1b[m›",
		},
		{
			name: "padding at the left edge",
			w:    10, h: 2,
			setup: func(t *testing.T, f *fixture) {
				*f.screen.At(0, 0) = core.Cell{Fg: core.ColorDefault, Bg: core.ColorDefault, Attr: core.AttrFullwidthPadding}
				f.screen.MarkDirty(0, 0, 0)
			},
			want: "\x1b[1;1H\x1b[m‹",
		},
		{
			name: "wide glyph losing its second half",
			w:    10, h: 2,
			setup: func(t *testing.T, f *fixture) {
				f.write(t, 0, 0, "中")
				f.render(t)
				*f.screen.At(1, 0) = core.NewCell('y', core.ColorDefault, core.ColorDefault, 0)
				*f.screen.At(2, 0) = core.NewCell('x', core.ColorDefault, core.ColorDefault, 0)
				f.screen.MarkDirty(0, 1, 2)
			},
			want: "\r…yx",
		},
		{
			name: "dirty padding reprints the glyph",
			w:    10, h: 2,
			setup: func(t *testing.T, f *fixture) {
				f.write(t, 3, 0, "中")
				f.render(t)
				f.screen.MarkDirty(0, 4, 4)
			},
			want: "\b\b中",
		},
		{
			name: "long unchanged run is skipped",
			w:    30, h: 2,
			setup: func(t *testing.T, f *fixture) {
				f.write(t, 0, 0, "a"+strings.Repeat("z", 10)+"b")
				row := f.screen.Row(0)
				for x := 1; x <= 10; x++ {
					row[x].Attr = row[x].Attr.With(core.AttrNoChanges)
				}
			},
			want: "\x1b[1;1H\x1b[ma\x1b[10Cb",
		},
		{
			name: "short unchanged run is reprinted",
			w:    30, h: 2,
			setup: func(t *testing.T, f *fixture) {
				f.write(t, 0, 0, "a"+strings.Repeat("z", 8)+"b")
				row := f.screen.Row(0)
				for x := 1; x <= 8; x++ {
					row[x].Attr = row[x].Attr.With(core.AttrNoChanges)
				}
			},
			want: "\x1b[1;1H\x1b[maz\x1b[7bb",
		},
		{
			name: "trailing blanks become clear to end of line",
			w:    20, h: 2,
			setup: func(t *testing.T, f *fixture) {
				f.write(t, 0, 0, "xyzdefghijklmnop")
				f.render(t)
				f.write(t, 0, 0, "ab"+strings.Repeat(" ", 14))
			},
			want: "\rab\x1b[K",
		},
		{
			name: "input cursor shown",
			w:    10, h: 3,
			setup: func(t *testing.T, f *fixture) {
				f.screen.SetInputCursor(core.Pt(2, 1), true)
			},
			want: "\x1b[2;3H\x1b[?25h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.w, tt.h, tt.ov)
			tt.setup(t, f)
			if _, got := f.render(t); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClearToEndOfLine(t *testing.T) {
	f := newFixture(t, 10, 2, termcap.Overrides{})
	f.write(t, 0, 0, "Hello")
	f.render(t)

	f.write(t, 0, 0, "     ")
	if _, got := f.render(t); got != "\r\x1b[K" {
		t.Errorf("output = %q, want cr + el", got)
	}
	for x := 0; x < 10; x++ {
		if !f.screen.Cell(x, 0).Attr.Has(core.AttrPrinted) {
			t.Errorf("cell %d not marked printed", x)
		}
	}
}

func TestClearAfterWrap(t *testing.T) {
	f := newFixture(t, 10, 2, termcap.Overrides{})
	f.write(t, 0, 0, "abcdefghij")
	f.render(t)
	if p := f.r.Position(); p.X >= 0 {
		t.Fatalf("cursor after wrap with xenl = %v, want unknown", p)
	}

	f.write(t, 0, 0, "abc       ")
	if _, got := f.render(t); got != "\x1b[1;4H\x1b[K" {
		t.Errorf("output = %q", got)
	}
}

func TestClearLeadingBlanks(t *testing.T) {
	f := newFixture(t, 20, 2, termcap.Overrides{})
	f.write(t, 0, 0, "abcdefghijklmnopqrst")
	f.render(t)

	f.write(t, 0, 0, "               ")
	*f.screen.At(16, 0) = core.NewCell('X', core.ColorDefault, core.ColorDefault, 0)
	f.screen.MarkDirty(0, 16, 16)
	if _, got := f.render(t); got != "\x1b[1;15H\x1b[1K pX" {
		t.Errorf("output = %q", got)
	}
}

func TestClearScreen(t *testing.T) {
	f := newFixture(t, 10, 3, termcap.Overrides{})
	f.r.Normal()
	_ = f.out.Flush()
	f.buf.Reset()

	if !f.r.ClearScreen(core.BlankCell(), ' ') {
		t.Fatal("ClearScreen failed")
	}
	_ = f.out.Flush()
	if got := f.buf.String(); got != f.caps.Clear {
		t.Errorf("output = %q, want only %q", got, f.caps.Clear)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 10; x++ {
			c := f.screen.Cell(x, y)
			if !c.Attr.Has(core.AttrPrinted) || !c.Attr.Has(core.AttrNoChanges) {
				t.Fatalf("cell (%d,%d) not marked printed", x, y)
			}
		}
	}
	f.buf.Reset()
	if _, got := f.render(t); got != "" {
		t.Errorf("pass after clear emitted %q", got)
	}
}

func TestClearScreenRefused(t *testing.T) {
	noBCE := false
	f := newFixture(t, 10, 3, termcap.Overrides{BCE: &noBCE})
	if f.r.ClearScreen(core.BlankCell(), '#') {
		t.Error("clear with a non-blank fill should fail")
	}
	colored := core.NewCell(' ', core.ColorDefault, core.ColorFromIndex(4), 0)
	if f.r.ClearScreen(colored, ' ') {
		t.Error("colored clear without bce should fail")
	}
	if f.buf.Len() != 0 || f.out.Buffered() != 0 {
		t.Error("refused clear wrote output")
	}
}

func TestCursorVisibilityChangesOnce(t *testing.T) {
	f := newFixture(t, 10, 3, termcap.Overrides{})
	f.screen.SetInputCursor(core.Pt(1, 1), true)
	f.render(t)
	if _, got := f.render(t); got != "" {
		t.Errorf("unchanged cursor emitted %q", got)
	}
	f.screen.SetInputCursor(core.Pt(1, 1), false)
	if _, got := f.render(t); got != "\x1b[?25l" {
		t.Errorf("hide = %q", got)
	}
}

func TestHardwareScroll(t *testing.T) {
	f := newFixture(t, 10, 3, termcap.Overrides{})
	if !f.r.ScrollForward() {
		t.Fatal("ScrollForward failed")
	}
	if !f.r.ScrollReverse() {
		t.Fatal("ScrollReverse failed")
	}
	_ = f.out.Flush()
	if got, want := f.buf.String(), "\x1b[3;1H\n\x1b[2A\x1bM"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
