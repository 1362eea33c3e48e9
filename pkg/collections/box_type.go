// box drawing adapted from https://github.com/Tufin/asciitree; Apache 2
package collections

type boxType int

const (
	regular boxType = iota
	last
	afterLast
	between
)

func (b boxType) String() string {
	switch b {
	case regular:
		return "\u251c" // ├
	case last:
		return "\u2514" // └
	case afterLast:
		return " "
	case between:
		return "\u2502" // │
	default:
		panic("invalid box type")
	}
}

// boxFor is the box drawn before the node at index.
func boxFor(index, n int) boxType {
	if index+1 == n {
		return last
	} else if index+1 > n {
		return afterLast
	}
	return regular
}

// boxBelow is the box drawn under the node at index, in front of its
// children.
func boxBelow(index, n int) boxType {
	if index+1 == n {
		return afterLast
	}
	return between
}

func boxPadding(root bool, b boxType) string {
	if root {
		return ""
	}
	return b.String() + " "
}
