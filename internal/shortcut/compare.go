package shortcut

import (
	"cmp"
	"errors"
	"slices"
)

// ErrNotComparable is returned when a shortcut is compared against a value
// that carries no shortcut id.
var ErrNotComparable = errors.New("not comparable")

// Comparison is the tri-state result of comparing by id.
type Comparison int

const (
	Incomparable Comparison = iota
	NotEqual
	Equal
)

func (c Comparison) String() string {
	switch c {
	case Equal:
		return "equal"
	case NotEqual:
		return "not-equal"
	default:
		return "incomparable"
	}
}

// IDComparer is implemented by every value a shortcut can be compared with.
type IDComparer interface {
	CompareID(id string) Comparison
}

// List is a sequence of shortcuts. It equals a shortcut when any element
// has the same id.
type List[A any] []Shortcut[A]

func equalIf(ok bool) Comparison {
	if ok {
		return Equal
	}
	return NotEqual
}

func (s Shortcut[A]) CompareID(id string) Comparison { return equalIf(s.ID == id) }

func (b Binding[A]) CompareID(id string) Comparison { return equalIf(b.ID == id) }

func (l List[A]) CompareID(id string) Comparison {
	for _, s := range l {
		if s.ID == id {
			return Equal
		}
	}
	return NotEqual
}

// Compare compares s against other by id only.
func (s Shortcut[A]) Compare(other any) Comparison {
	switch v := other.(type) {
	case []Shortcut[A]:
		return List[A](v).CompareID(s.ID)
	case *Shortcut[A]:
		if v == nil {
			return Incomparable
		}
		return v.CompareID(s.ID)
	case *Binding[A]:
		if v == nil {
			return Incomparable
		}
		return v.CompareID(s.ID)
	case *List[A]:
		if v == nil {
			return Incomparable
		}
		return v.CompareID(s.ID)
	case IDComparer:
		return compareID(v, s.ID)
	default:
		return Incomparable
	}
}

// Equal is Compare collapsed to a bool; incomparable operands yield
// ErrNotComparable.
func (s Shortcut[A]) Equal(other any) (bool, error) {
	switch s.Compare(other) {
	case Equal:
		return true, nil
	case NotEqual:
		return false, nil
	default:
		return false, ErrNotComparable
	}
}

// Less orders shortcuts by id.
func (s Shortcut[A]) Less(other Shortcut[A]) bool {
	return s.ID < other.ID
}

// Sort orders shortcuts by id in place.
func Sort[A any](list []Shortcut[A]) {
	slices.SortFunc(list, func(a, b Shortcut[A]) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

// compareID treats a nil pointer behind c as carrying no id.
func compareID(c IDComparer, id string) (res Comparison) {
	defer func() {
		if recover() != nil {
			res = Incomparable
		}
	}()
	return c.CompareID(id)
}
