package question

// ChoiceCount is the fixed number of options every playable question carries.
const ChoiceCount = 4

type Question struct {
	ID           string              `json:"id,omitempty"`
	Prompt       string              `json:"prompt"`
	Choices      [ChoiceCount]string `json:"choices"`
	CorrectIndex int                 `json:"correct_index"`
	Level        Level               `json:"level,omitempty"`
	Category     string              `json:"category,omitempty"`
}

func (q Question) GetLevel() Level { return q.Level }

// Valid reports whether q satisfies the playable-question invariant.
func (q Question) Valid() bool {
	if q.CorrectIndex < 0 || q.CorrectIndex >= ChoiceCount {
		return false
	}
	for _, c := range q.Choices {
		if c == "" {
			return false
		}
	}
	return true
}
