package collection

import "fmt"

// ChangeKind tags a Change.
type ChangeKind int

const (
	Insert ChangeKind = iota
	Remove
	Replace
	Move
	Reset
)

func (k ChangeKind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	case Move:
		return "move"
	case Reset:
		return "reset"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change describes a single mutation of a List.
//
//	Insert:  Index, Item
//	Remove:  Index (position before removal), Item (removed value)
//	Replace: Index, Item (new value), OldItem
//	Move:    OldIndex (source), Index (destination), Item
//	Reset:   Items (full new content)
//
// Unused indices are -1.
type Change[T comparable] struct {
	Kind     ChangeKind
	Index    int
	OldIndex int
	Item     T
	OldItem  T
	Items    []T
}

func (c Change[T]) String() string {
	switch c.Kind {
	case Move:
		return fmt.Sprintf("%s %d->%d", c.Kind, c.OldIndex, c.Index)
	case Reset:
		return fmt.Sprintf("%s (%d items)", c.Kind, len(c.Items))
	default:
		return fmt.Sprintf("%s @%d", c.Kind, c.Index)
	}
}
