package question

import (
	"encoding/json"
	"errors"
)

var ErrUnknownShape = errors.New("question record has no recognizable shape")

// Record is a stored question before normalization. It is either a *LetteredRecord
// or an *IndexedRecord.
type Record interface {
	GetLevel() Level
	record()
}

// LetteredRecord is the tabular shape: four option columns and a correct letter A-D.
type LetteredRecord struct {
	ID            string `json:"id,omitempty"`
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectOption string `json:"correct_option"`
	Level         Level  `json:"level,omitempty"`
	Category      string `json:"category,omitempty"`
}

// IndexedRecord is the document shape: a ready choice list and the index of the answer.
type IndexedRecord struct {
	ID       string   `json:"id,omitempty"`
	Q        string   `json:"q"`
	Choices  []string `json:"choices"`
	Answer   *int     `json:"answer"`
	Level    Level    `json:"level,omitempty"`
	Category string   `json:"category,omitempty"`
}

func (r *LetteredRecord) GetLevel() Level { return r.Level }
func (r *IndexedRecord) GetLevel() Level  { return r.Level }

func (*LetteredRecord) record() {}
func (*IndexedRecord) record()  {}

// DecodeRecord picks the record shape once, from the keys present in raw.
func DecodeRecord(raw json.RawMessage) (Record, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}

	if _, ok := probe["choices"]; ok {
		var r IndexedRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, err
		}
		r.Level = ParseLevel(string(r.Level))
		return &r, nil
	}
	if _, ok := probe["question"]; ok {
		var r LetteredRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, err
		}
		r.Level = ParseLevel(string(r.Level))
		return &r, nil
	}
	return nil, ErrUnknownShape
}

// DecodeRecords decodes every element it can and skips the rest.
func DecodeRecords(raws []json.RawMessage) []Record {
	out := make([]Record, 0, len(raws))
	for _, raw := range raws {
		r, err := DecodeRecord(raw)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}
