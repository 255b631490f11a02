package question

import "strings"

// Normalize converts one stored record into a canonical Question. The boolean is false
// when the record is not playable: a missing option or an answer that does not resolve
// to one of the four choices.
func Normalize(r Record) (Question, bool) {
	switch rec := r.(type) {
	case *LetteredRecord:
		return normalizeLettered(rec)
	case *IndexedRecord:
		return normalizeIndexed(rec)
	default:
		return Question{}, false
	}
}

// NormalizeAll keeps input order and silently drops records that fail Normalize.
func NormalizeAll(records []Record) []Question {
	out := make([]Question, 0, len(records))
	for _, r := range records {
		if q, ok := Normalize(r); ok {
			out = append(out, q)
		}
	}
	return out
}

func normalizeLettered(r *LetteredRecord) (Question, bool) {
	if r == nil || strings.TrimSpace(r.Question) == "" {
		return Question{}, false
	}
	idx, ok := letterIndex(r.CorrectOption)
	if !ok {
		return Question{}, false
	}
	q := Question{
		ID:           r.ID,
		Prompt:       r.Question,
		Choices:      [ChoiceCount]string{r.OptionA, r.OptionB, r.OptionC, r.OptionD},
		CorrectIndex: idx,
		Level:        r.Level,
		Category:     r.Category,
	}
	return q, q.Valid()
}

func normalizeIndexed(r *IndexedRecord) (Question, bool) {
	if r == nil || strings.TrimSpace(r.Q) == "" || len(r.Choices) != ChoiceCount || r.Answer == nil {
		return Question{}, false
	}
	q := Question{
		ID:           r.ID,
		Prompt:       r.Q,
		CorrectIndex: *r.Answer,
		Level:        r.Level,
		Category:     r.Category,
	}
	copy(q.Choices[:], r.Choices)
	return q, q.Valid()
}

func letterIndex(letter string) (int, bool) {
	l := strings.ToUpper(strings.TrimSpace(letter))
	if len(l) != 1 || l[0] < 'A' || l[0] > 'D' {
		return 0, false
	}
	return int(l[0] - 'A'), true
}
