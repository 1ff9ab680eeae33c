package compose

import (
	"testing"

	"github.com/dshills/vterm/internal/core"
	"github.com/dshills/vterm/internal/surface"
)

type fixture struct {
	arena *surface.Arena
	comp  *Compositor
}

func newFixture(t *testing.T, w, h int) *fixture {
	t.Helper()
	a := surface.NewArena(surface.Options{TabStop: 8, UTF8: true})
	screen, err := a.Create(0, core.NewRect(0, 0, w, h), core.Size{})
	if err != nil {
		t.Fatal(err)
	}
	desktop, err := a.Create(0, core.NewRect(0, 0, w, h), core.Size{})
	if err != nil {
		t.Fatal(err)
	}
	desktop.SetVisible(true)
	return &fixture{arena: a, comp: New(screen, desktop, NewStack(), nil)}
}

func (f *fixture) window(t *testing.T, rect core.Rect, shadow core.Size) *surface.Surface {
	t.Helper()
	s, err := f.arena.Create(surface.OwnerID(rect.X+1), rect, shadow)
	if err != nil {
		t.Fatal(err)
	}
	s.SetVisible(true)
	f.comp.Stack().Push(s)
	return s
}

func screenText(c *Compositor, y int) string {
	var out []rune
	for _, cell := range c.Screen().Row(y) {
		out = append(out, cell.Ch)
	}
	return string(out)
}

func TestFlushCopiesDirtyCells(t *testing.T) {
	f := newFixture(t, 10, 3)
	d := f.comp.Desktop()
	d.WriteString("Hello")
	f.comp.Flush(d)

	if got := screenText(f.comp, 0); got != "Hello     " {
		t.Errorf("screen row 0 = %q", got)
	}
	if l := *f.comp.Screen().Line(0); l.XMin != 0 || l.XMax != 4 {
		t.Errorf("screen line = %+v, want 0..4", l)
	}
	if d.Line(0).Dirty() {
		t.Error("surface line should be reset after flush")
	}
	if f.comp.Screen().Line(1).Dirty() {
		t.Error("untouched screen row should stay clean")
	}
}

func TestFlushMarksNoChanges(t *testing.T) {
	f := newFixture(t, 10, 3)
	d := f.comp.Desktop()
	d.WriteString("Hello")
	f.comp.Flush(d)
	f.comp.MarkPrinted(0, 2)

	d.MarkAll()
	f.comp.Flush(d)
	for x, c := range f.comp.Screen().Row(0) {
		if !c.Attr.Has(core.AttrNoChanges) {
			t.Errorf("cell %d lost no-changes: %v", x, c.Attr)
		}
	}

	d.SetCursor(core.Pt(0, 0))
	d.WriteString("J")
	f.comp.Flush(d)
	if f.comp.Screen().Cell(0, 0).Attr.Has(core.AttrNoChanges) {
		t.Error("changed cell must not carry no-changes")
	}
}

func TestFullyCoveredNeverWritten(t *testing.T) {
	f := newFixture(t, 10, 1)
	win := f.window(t, core.NewRect(2, 0, 3, 1), core.Size{})
	win.Clear('W')
	f.comp.Flush(win)

	d := f.comp.Desktop()
	d.WriteString("XXXXXXXXXX")
	f.comp.Flush(d)

	if got := screenText(f.comp, 0); got != "XXWWWXXXXX" {
		t.Errorf("screen = %q, want XXWWWXXXXX", got)
	}
}

func TestCoveredState(t *testing.T) {
	f := newFixture(t, 10, 2)
	low := f.window(t, core.NewRect(0, 0, 4, 1), core.Size{Width: 1})
	low.Clear('L')
	low.SetCursor(core.Pt(4, 0))
	low.SetPen(core.ColorBlack, core.ColorDefault, core.AttrTransShadow)
	low.WriteString(" ")
	high := f.window(t, core.NewRect(2, 0, 1, 1), core.Size{})
	high.Clear('H')

	d := f.comp.Desktop()
	tests := []struct {
		name string
		s    *surface.Surface
		p    core.Point
		want State
	}{
		{"desktop under opaque", d, core.Pt(0, 0), FullyCovered},
		{"desktop under shadow", d, core.Pt(4, 0), HalfCovered},
		{"desktop in the open", d, core.Pt(6, 0), NotCovered},
		{"desktop second row", d, core.Pt(0, 1), NotCovered},
		{"low under high", low, core.Pt(2, 0), FullyCovered},
		{"low uncovered", low, core.Pt(1, 0), NotCovered},
		{"high on top", high, core.Pt(2, 0), NotCovered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.comp.CoveredState(tt.s, tt.p); got != tt.want {
				t.Errorf("CoveredState = %v, want %v", got, tt.want)
			}
		})
	}

	high.SetVisible(false)
	if got := f.comp.CoveredState(low, core.Pt(2, 0)); got != NotCovered {
		t.Errorf("hidden window still covers: %v", got)
	}
}

func TestHalfCoveredBlends(t *testing.T) {
	f := newFixture(t, 6, 1)
	win := f.window(t, core.NewRect(0, 0, 2, 1), core.Size{Width: 1})
	win.Clear(' ')
	win.SetCursor(core.Pt(2, 0))
	win.SetPen(core.ColorWhite, core.ColorBlack, core.AttrTransShadow)
	win.WriteString(" ")

	d := f.comp.Desktop()
	d.SetCursor(core.Pt(2, 0))
	d.SetPen(core.ColorRed, core.ColorDefault, core.AttrReverse)
	d.WriteString("█")
	f.comp.Flush(d)

	got := f.comp.Screen().Cell(2, 0)
	if got.Ch != ' ' {
		t.Errorf("block glyph under shadow = %q, want blank", got.Ch)
	}
	if !got.Fg.Equals(core.ColorWhite) || !got.Bg.Equals(core.ColorBlack) {
		t.Errorf("colors = %v/%v, want shadow colors", got.Fg, got.Bg)
	}
	if got.Attr.Has(core.AttrReverse) {
		t.Error("reverse should be cleared under a shadow")
	}
}

func TestSeeThroughCells(t *testing.T) {
	f := newFixture(t, 6, 1)
	d := f.comp.Desktop()
	d.SetPen(core.ColorDefault, core.ColorBlue, core.AttrNone)
	d.WriteString("abcdef")
	f.comp.Flush(d)

	win := f.window(t, core.NewRect(0, 0, 3, 1), core.Size{})
	win.SetPen(core.ColorDefault, core.ColorDefault, core.AttrTransparent)
	win.WriteString("x")
	win.SetPen(core.ColorGreen, core.ColorDefault, core.AttrInheritBackground)
	win.WriteString("i")
	win.SetPen(core.ColorWhite, core.ColorBlack, core.AttrTransShadow)
	win.WriteString("s")
	f.comp.Flush(win)

	scr := f.comp.Screen()
	if c := scr.Cell(0, 0); c.Ch != 'a' || !c.Bg.Equals(core.ColorBlue) {
		t.Errorf("transparent cell = %q bg %v, want desktop 'a'", c.Ch, c.Bg)
	}
	if c := scr.Cell(1, 0); c.Ch != 'i' || !c.Bg.Equals(core.ColorBlue) || !c.Fg.Equals(core.ColorGreen) {
		t.Errorf("inherit cell = %q %v/%v", c.Ch, c.Fg, c.Bg)
	}
	if c := scr.Cell(2, 0); c.Ch != 'c' || !c.Bg.Equals(core.ColorBlack) {
		t.Errorf("shadow cell = %q bg %v, want 'c' on black", c.Ch, c.Bg)
	}
}

func TestCoveredAndOverlappedCell(t *testing.T) {
	f := newFixture(t, 4, 1)
	d := f.comp.Desktop()
	d.WriteString("D")
	a := f.window(t, core.NewRect(0, 0, 1, 1), core.Size{})
	a.WriteString("A")
	b := f.window(t, core.NewRect(0, 0, 1, 1), core.Size{})
	b.WriteString("B")

	p := core.Pt(0, 0)
	tests := []struct {
		name string
		got  core.Cell
		want rune
	}{
		{"covered under b", f.comp.CoveredCell(p, b), 'A'},
		{"covered under a", f.comp.CoveredCell(p, a), 'D'},
		{"covered under desktop", f.comp.CoveredCell(p, d), 'D'},
		{"overlapped above a", f.comp.OverlappedCell(p, a), 'B'},
		{"overlapped above desktop", f.comp.OverlappedCell(p, d), 'B'},
		{"overlapped above b", f.comp.OverlappedCell(p, b), 'D'},
		{"generated", f.comp.GenerateCell(p), 'B'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Ch != tt.want {
				t.Errorf("got %q, want %q", tt.got.Ch, tt.want)
			}
		})
	}
}

func TestRestoreRegion(t *testing.T) {
	f := newFixture(t, 4, 2)
	d := f.comp.Desktop()
	d.Clear('.')
	f.comp.Flush(d)
	win := f.window(t, core.NewRect(1, 0, 2, 1), core.Size{})
	win.Clear('#')
	f.comp.Flush(win)
	if got := screenText(f.comp, 0); got != ".##." {
		t.Fatalf("screen = %q", got)
	}

	f.comp.MarkPrinted(0, 1)
	win.SetVisible(false)
	f.comp.RestoreRegion(win.Bounds())

	if got := screenText(f.comp, 0); got != "...." {
		t.Errorf("restored screen = %q", got)
	}
	if l := *f.comp.Screen().Line(0); l.XMin != 1 || l.XMax != 2 {
		t.Errorf("screen line = %+v, want 1..2", l)
	}
	if f.comp.Screen().Line(1).Dirty() {
		t.Error("row outside the region should stay clean")
	}
}

func TestPublishCursor(t *testing.T) {
	f := newFixture(t, 10, 3)
	win := f.window(t, core.NewRect(2, 1, 4, 2), core.Size{})
	win.Clear(' ')
	win.SetInputCursor(core.Pt(1, 1), true)
	f.comp.SetActive(win)
	f.comp.Flush(win)

	p, shown := f.comp.Screen().InputCursor()
	if !shown || p != core.Pt(3, 2) {
		t.Errorf("screen cursor = %v %v, want (3,2) shown", p, shown)
	}

	top := f.window(t, core.NewRect(3, 2, 1, 1), core.Size{})
	top.Clear('T')
	win.MarkAll()
	f.comp.Flush(win)
	if _, shown := f.comp.Screen().InputCursor(); shown {
		t.Error("covered cursor should be hidden")
	}

	win.SetInputCursor(core.Pt(9, 0), true)
	win.MarkAll()
	f.comp.SetActive(f.comp.Desktop())
	f.comp.Flush(win)
	if _, shown := f.comp.Screen().InputCursor(); shown {
		t.Error("inactive surface must not publish")
	}
}

func TestUpdateAllRepublishesCursor(t *testing.T) {
	tests := []struct {
		name   string
		change func(f *fixture, win *surface.Surface)
	}{
		{
			name: "covered by a later window",
			change: func(f *fixture, win *surface.Surface) {
				top := f.window(t, core.NewRect(0, 0, 10, 3), core.Size{})
				top.Clear('#')
			},
		},
		{
			name:   "active window hidden",
			change: func(f *fixture, win *surface.Surface) { win.SetVisible(false) },
		},
		{
			name:   "active switched to an unchanged surface",
			change: func(f *fixture, win *surface.Surface) { f.comp.SetActive(f.comp.Desktop()) },
		},
		{
			name:   "cursor switched off",
			change: func(f *fixture, win *surface.Surface) { win.SetInputCursor(core.Pt(1, 1), false) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 10, 3)
			win := f.window(t, core.NewRect(2, 1, 4, 2), core.Size{})
			win.Clear(' ')
			win.SetInputCursor(core.Pt(1, 1), true)
			f.comp.SetActive(win)
			f.comp.UpdateAll()
			if p, shown := f.comp.Screen().InputCursor(); !shown || p != core.Pt(3, 2) {
				t.Fatalf("screen cursor = %v %v, want (3,2) shown", p, shown)
			}

			tt.change(f, win)
			f.comp.Screen().SetChanged(false)
			f.comp.UpdateAll()
			if _, shown := f.comp.Screen().InputCursor(); shown {
				t.Error("stale cursor still shown")
			}
			if !f.comp.Screen().Changed() {
				t.Error("hiding the cursor should mark the screen changed")
			}
		})
	}
}

func TestPutAt(t *testing.T) {
	f := newFixture(t, 6, 2)
	d := f.comp.Desktop()
	d.WriteString("abcdef")

	s, _ := f.arena.Create(9, core.NewRect(0, 0, 3, 1), core.Size{})
	s.SetVisible(true)
	s.WriteString("xyz")
	f.comp.PutAt(core.Pt(4, 0), s)
	if got := screenText(f.comp, 0); got != "    xy" {
		t.Errorf("fast path screen = %q", got)
	}
	if l := *f.comp.Screen().Line(0); l.XMin != 4 || l.XMax != 5 {
		t.Errorf("line = %+v, want 4..5", l)
	}

	s.SetCursor(core.Pt(1, 0))
	s.SetPen(core.ColorDefault, core.ColorDefault, core.AttrTransparent)
	s.WriteString(" ")
	f.comp.PutAt(core.Pt(-1, 0), s)
	if got := screenText(f.comp, 0); got != "az  xy" {
		t.Errorf("transparent path screen = %q", got)
	}
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, 6, 2)
	d := f.comp.Desktop()
	d.WriteString("abcdefghijkl")
	f.comp.Flush(d)

	s, _ := f.arena.Create(9, core.NewRect(0, 0, 3, 2), core.Size{})
	f.comp.Snapshot(core.Pt(4, 0), s)

	if c := s.Cell(0, 0); c.Ch != 'e' {
		t.Errorf("snapshot (0,0) = %q, want 'e'", c.Ch)
	}
	if c := s.Cell(1, 1); c.Ch != 'l' {
		t.Errorf("snapshot (1,1) = %q, want 'l'", c.Ch)
	}
	if l := *s.Line(0); l.XMin != 0 || l.XMax != 1 {
		t.Errorf("line = %+v, want 0..1", l)
	}
}

func TestRequestFullRedraw(t *testing.T) {
	f := newFixture(t, 4, 2)
	f.comp.MarkPrinted(0, 1)
	f.comp.RequestFullRedraw()

	scr := f.comp.Screen()
	if scr.DirtyRows() != 2 {
		t.Errorf("DirtyRows = %d, want 2", scr.DirtyRows())
	}
	if l := *scr.Line(1); l.XMin != 0 || l.XMax != 3 {
		t.Errorf("line = %+v", l)
	}
	if scr.Cell(2, 1).Attr.Has(core.AttrPrinted) {
		t.Error("printed flag should be cleared")
	}
}

func TestUpdateAll(t *testing.T) {
	f := newFixture(t, 6, 1)
	win := f.window(t, core.NewRect(0, 0, 3, 1), core.Size{})
	child, _ := f.arena.Create(5, core.NewRect(0, 0, 1, 1), core.Size{})
	hooked := 0
	win.AddHook(surface.Hook{Owner: 5, Child: child, Run: func() {
		hooked++
		win.SetCursor(core.Pt(0, 0))
		win.WriteString(string(child.Cell(0, 0).Ch))
	}})

	f.comp.UpdateAll()
	if hooked != 0 {
		t.Errorf("clean window flushed: hooked = %d", hooked)
	}

	child.WriteString("c")
	f.comp.UpdateAll()
	if hooked != 1 {
		t.Errorf("hooked = %d, want 1", hooked)
	}
	if child.Changed() {
		t.Error("child changes should be cleared")
	}
	if f.comp.Screen().Cell(0, 0).Ch != 'c' {
		t.Errorf("screen = %q", screenText(f.comp, 0))
	}
}

func TestStack(t *testing.T) {
	a := surface.NewArena(surface.Options{})
	var ss []*surface.Surface
	for i := 0; i < 3; i++ {
		s, _ := a.Create(surface.OwnerID(i), core.NewRect(0, 0, 1, 1), core.Size{})
		ss = append(ss, s)
	}
	st := NewStack()
	for _, s := range ss {
		st.Push(s)
	}

	if st.Layer(ss[0].ID()) != 1 || st.Layer(ss[2].ID()) != 3 {
		t.Error("push order should define layers")
	}
	st.Raise(ss[0].ID())
	if st.Layer(ss[0].ID()) != 3 || st.Layer(ss[1].ID()) != 1 {
		t.Error("Raise should move to the top")
	}
	st.Lower(ss[0].ID())
	if st.Layer(ss[0].ID()) != 1 || st.Layer(ss[2].ID()) != 3 {
		t.Error("Lower should move to the bottom")
	}
	if st.Top() != nil {
		t.Error("Top should skip hidden windows")
	}
	ss[1].SetVisible(true)
	if st.Top() != ss[1] {
		t.Error("Top should return the frontmost visible window")
	}
	st.Remove(ss[1].ID())
	if st.Len() != 2 || st.Layer(ss[1].ID()) != 0 {
		t.Error("Remove failed")
	}
}
