package question

type Leveled interface {
	GetLevel() Level
}

// FilterByLevel selects the items relevant to target, preserving input order.
//
// Beginner is a catch-all: anything not explicitly advanced, unset levels included.
// Intermediate and advanced match exactly. An unset target returns every item.
func FilterByLevel[T Leveled](items []T, target Level) []T {
	if target == LevelUnset {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matchesLevel(it.GetLevel(), target) {
			out = append(out, it)
		}
	}
	return out
}

func matchesLevel(l, target Level) bool {
	if target == LevelBeginner {
		return l != LevelAdvanced
	}
	return l == target
}
