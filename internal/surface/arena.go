package surface

import (
	"fmt"

	"github.com/dshills/vterm/internal/core"
)

// MaxCells is the largest cell buffer the default allocator hands out.
const MaxCells = 1 << 22

// Allocator returns a zeroed cell buffer of length n.
type Allocator func(n int) ([]core.Cell, error)

// DefaultAllocator allocates from the heap and refuses oversized buffers.
func DefaultAllocator(n int) ([]core.Cell, error) {
	if n <= 0 || n > MaxCells {
		return nil, fmt.Errorf("%w: %d cells", ErrAllocation, n)
	}
	return make([]core.Cell, n), nil
}

// Options configures an Arena.
type Options struct {
	// TabStop is the tab width used by text writes.
	TabStop int
	// UTF8 selects zero-width padding cells after wide glyphs. Otherwise a
	// '.' fills the second column.
	UTF8 bool
	// Bell is called when a text write contains '\a'.
	Bell func()
	// Alloc overrides DefaultAllocator.
	Alloc Allocator
}

// Arena owns every surface and hands out IDs.
type Arena struct {
	opts     Options
	surfaces map[ID]*Surface
	nextID   ID
}

// NewArena creates an empty arena.
func NewArena(opts Options) *Arena {
	if opts.TabStop <= 0 {
		opts.TabStop = 8
	}
	if opts.Alloc == nil {
		opts.Alloc = DefaultAllocator
	}
	return &Arena{
		opts:     opts,
		surfaces: make(map[ID]*Surface),
		nextID:   1,
	}
}

// SetTabStop changes the tab width for all surfaces.
func (a *Arena) SetTabStop(ts int) {
	if ts <= 0 {
		return
	}
	a.opts.TabStop = ts
	for _, s := range a.surfaces {
		s.tabStop = ts
	}
}

// Create allocates a new surface. On allocation failure the surface is
// still registered but unusable, and ErrAllocation is returned with it.
// Invalid geometry panics with a *GeometryError.
func (a *Arena) Create(owner OwnerID, rect core.Rect, shadow core.Size) (*Surface, error) {
	checkGeometry(rect, shadow)
	s := &Surface{
		id:      a.nextID,
		owner:   owner,
		tabStop: a.opts.TabStop,
		utf8:    a.opts.UTF8,
		bell:    a.opts.Bell,
		pen:     core.BlankCell(),
	}
	a.nextID++
	a.surfaces[s.id] = s
	if err := a.resize(s, rect, shadow); err != nil {
		s.unusable = true
		return s, err
	}
	return s, nil
}

// Resize changes a surface's geometry. Buffers are reallocated only when the
// total width or height changes. A failed reallocation keeps the previous
// buffers and geometry but disables the surface until a later resize
// succeeds.
func (a *Arena) Resize(id ID, rect core.Rect, shadow core.Size) error {
	checkGeometry(rect, shadow)
	s, ok := a.surfaces[id]
	if !ok {
		return ErrUnknown
	}
	if err := a.resize(s, rect, shadow); err != nil {
		s.unusable = true
		return err
	}
	s.unusable = false
	return nil
}

func (a *Arena) resize(s *Surface, rect core.Rect, shadow core.Size) error {
	if s.cells != nil && rect.Width == s.width && rect.Height == s.height &&
		shadow.Width == s.rightShadow && shadow.Height == s.bottomShadow {
		s.offset = core.Pt(rect.X, rect.Y)
		return nil
	}

	fullW := rect.Width + shadow.Width
	fullH := rect.Height + shadow.Height
	cells := s.cells
	changes := s.changes
	if s.cells == nil || fullW*fullH != len(s.cells) {
		buf, err := a.opts.Alloc(fullW * fullH)
		if err != nil {
			return err
		}
		cells = buf
	}
	if len(changes) != fullH {
		changes = make([]LineChanges, fullH)
	}

	s.cells = cells
	s.changes = changes
	s.offset = core.Pt(rect.X, rect.Y)
	s.width = rect.Width
	s.height = rect.Height
	s.rightShadow = shadow.Width
	s.bottomShadow = shadow.Height
	s.changed = false
	s.resetContent()
	return nil
}

// resetContent fills the buffer with blanks and marks every row clean.
func (s *Surface) resetContent() {
	blank := core.BlankCell()
	for i := range s.cells {
		s.cells[i] = blank
	}
	w := s.FullWidth()
	for y := range s.changes {
		s.changes[y] = LineChanges{XMin: w, XMax: 0}
	}
}

// Get returns the surface with the given ID.
func (a *Arena) Get(id ID) (*Surface, bool) {
	s, ok := a.surfaces[id]
	return s, ok
}

// Destroy releases a surface's buffers and removes it from the arena.
func (a *Arena) Destroy(id ID) error {
	s, ok := a.surfaces[id]
	if !ok {
		return ErrUnknown
	}
	s.cells = nil
	s.changes = nil
	s.hooks = nil
	s.visible = false
	s.unusable = true
	delete(a.surfaces, id)
	return nil
}

// Len returns the number of live surfaces.
func (a *Arena) Len() int { return len(a.surfaces) }
