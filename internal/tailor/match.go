package tailor

import "fmt"

const (
	// StrongThreshold is the similarity from which a match is auto-selected.
	StrongThreshold = 0.75
	GoodThreshold   = 0.5
)

type Level int

const (
	Weak Level = iota
	Good
	Strong
)

// LevelOf buckets a similarity score.
func LevelOf(similarity float64) Level {
	switch {
	case similarity >= StrongThreshold:
		return Strong
	case similarity >= GoodThreshold:
		return Good
	default:
		return Weak
	}
}

func (l Level) String() string {
	switch l {
	case Strong:
		return "Strong Match"
	case Good:
		return "Good Match"
	default:
		return "Weak Match"
	}
}

// Badge renders the level with the score as a whole percentage, e.g. "Strong Match (91%)".
func Badge(similarity float64) string {
	return fmt.Sprintf("%s (%.0f%%)", LevelOf(similarity), similarity*100)
}
