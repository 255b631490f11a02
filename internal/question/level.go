package question

import "strings"

type Level string

const (
	LevelUnset        Level = ""
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

var AllLevels = []Level{
	LevelBeginner,
	LevelIntermediate,
	LevelAdvanced,
}

func (l Level) IsValid() bool {
	for _, v := range AllLevels {
		if l == v {
			return true
		}
	}
	return false
}

// ParseLevel accepts any casing ("Beginner" shows up in uploaded sheets).
// Unknown values map to LevelUnset.
func ParseLevel(s string) Level {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if l.IsValid() {
		return l
	}
	return LevelUnset
}
