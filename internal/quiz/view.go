package quiz

import (
	"github.com/google/uuid"

	"github.com/saulo-duarte/pestcert-lambda/internal/question"
	util "github.com/saulo-duarte/pestcert-lambda/internal/utils"
)

type QuestionView struct {
	ID       string                       `json:"id,omitempty"`
	Prompt   string                       `json:"prompt"`
	Choices  [question.ChoiceCount]string `json:"choices"`
	Level    question.Level               `json:"level,omitempty"`
	Category string                       `json:"category,omitempty"`

	// Set only once the question has been answered.
	CorrectIndex *int `json:"correct_index,omitempty"`
}

type View struct {
	ID       uuid.UUID      `json:"id"`
	Kind     Kind           `json:"kind"`
	Category string         `json:"category,omitempty"`
	Level    question.Level `json:"level,omitempty"`

	Status         Status        `json:"status"`
	Advance        AdvanceMode   `json:"advance"`
	CurrentIndex   int           `json:"current_index"`
	Total          int           `json:"total"`
	Question       *QuestionView `json:"question,omitempty"`
	SelectedChoice *int          `json:"selected_choice"`
	AnswerCorrect  *bool         `json:"answer_correct,omitempty"`
	Score          int           `json:"score"`

	Timed                bool   `json:"timed"`
	DurationSeconds      int    `json:"duration_seconds,omitempty"`
	TimeRemainingSeconds *int   `json:"time_remaining_seconds,omitempty"`
	Clock                string `json:"clock,omitempty"`
	LowTime              bool   `json:"low_time"`
	TimedOut             bool   `json:"timed_out"`

	Result *Result `json:"result,omitempty"`
}

func newView(id uuid.UUID, meta sessionMeta, st State) *View {
	v := &View{
		ID:             id,
		Kind:           meta.kind,
		Category:       meta.category,
		Level:          meta.level,
		Status:         st.Status,
		Advance:        st.Advance,
		CurrentIndex:   st.CurrentIndex,
		Total:          st.Total,
		SelectedChoice: st.SelectedChoice,
		Score:          st.Score,
		Timed:          st.Timed,
		TimedOut:       st.TimedOut,
	}

	if st.Current != nil {
		q := st.Current
		v.Question = &QuestionView{
			ID:       q.ID,
			Prompt:   q.Prompt,
			Choices:  q.Choices,
			Level:    q.Level,
			Category: q.Category,
		}
		if st.SelectedChoice != nil {
			correct := q.CorrectIndex
			ok := *st.SelectedChoice == correct
			v.Question.CorrectIndex = &correct
			v.AnswerCorrect = &ok
		}
	}

	if st.Timed {
		v.DurationSeconds = st.DurationSeconds
		v.TimeRemainingSeconds = st.TimeRemainingSeconds
		if st.TimeRemainingSeconds != nil {
			v.Clock = util.FormatClock(*st.TimeRemainingSeconds)
			v.LowTime = st.Status == StatusInProgress && LowTime(*st.TimeRemainingSeconds, st.DurationSeconds)
		}
	}

	if st.Status == StatusComplete {
		res := Score(st.Score, st.Total)
		v.Result = &res
	}
	return v
}
