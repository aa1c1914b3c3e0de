package webhook

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// Field names used by the generator
const (
	fieldQuestionText  = "Question Text"
	fieldCorrectOption = "Correct Option (A/B/C/D)"
	fieldExplanation   = "Answer Explanation"
	fieldDifficulty    = "Difficulty Level"
	fieldQuestionType  = "Question Type"
	fieldScore         = "Score"
	fieldSubTopics     = "Sub-Topics"
	fieldAuthor        = "Author"
	fieldTopic         = "Topic"
)

var optionLetters = []string{"A", "B", "C", "D", "E"}

func optionField(letter string) string {
	return fmt.Sprintf("Option (%s)", letter)
}

// Normalize converts every item of an envelope received at receivedAt
func Normalize(items []RawQuestion, receivedAt time.Time) []entity.GeneratedQuestion {
	questions := make([]entity.GeneratedQuestion, 0, len(items))
	for i, item := range items {
		questions = append(questions, NormalizeItem(item, receivedAt, i))
	}
	return questions
}

// NormalizeItem converts one raw item into a canonical question. Unknown
// difficulties fall back to medium. An unreadable answer, or one past the last
// option, falls back to the first option.
func NormalizeItem(raw RawQuestion, receivedAt time.Time, index int) entity.GeneratedQuestion {
	q := entity.GeneratedQuestion{
		ID:          entity.GeneratedQuestionID(receivedAt, index),
		Question:    strings.TrimSpace(raw.firstString(fieldQuestionText, "question")),
		Options:     raw.options(),
		Explanation: strings.TrimSpace(raw.firstString(fieldExplanation, "explanation")),
		Difficulty:  entity.NormalizeDifficulty(raw.firstString(fieldDifficulty, "difficulty")),
		Metadata: entity.QuestionMetadata{
			SubTopics:    raw.firstString(fieldSubTopics),
			Author:       raw.firstString(fieldAuthor),
			Topic:        raw.firstString(fieldTopic),
			Score:        raw.firstString(fieldScore),
			QuestionType: raw.firstString(fieldQuestionType),
		},
	}

	if answer, ok := raw.correctAnswer(); ok && answer < len(q.Options) {
		q.CorrectAnswer = answer
	}
	return q
}

// ToWebhookFormat renders a canonical question back into generator field names
func ToWebhookFormat(q entity.GeneratedQuestion) map[string]string {
	out := map[string]string{
		fieldQuestionType: q.Metadata.QuestionType,
		fieldDifficulty:   capitalize(string(q.Difficulty)),
		fieldQuestionText: q.Question,
		fieldExplanation:  q.Explanation,
		fieldScore:        q.Metadata.Score,
		fieldSubTopics:    q.Metadata.SubTopics,
		fieldAuthor:       q.Metadata.Author,
		fieldTopic:        q.Metadata.Topic,
	}
	for i, option := range q.Options {
		if i >= len(optionLetters) {
			break
		}
		out[optionField(optionLetters[i])] = option
	}
	if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(optionLetters) {
		out[fieldCorrectOption] = optionLetters[q.CorrectAnswer]
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// options reads lettered options A..E, dropping blanks, or an "options" array
func (r RawQuestion) options() []string {
	options := make([]string, 0, len(optionLetters))
	for _, letter := range optionLetters {
		if v := strings.TrimSpace(r.firstString(optionField(letter))); v != "" {
			options = append(options, v)
		}
	}
	if len(options) > 0 {
		return options
	}

	list, _ := r["options"].([]any)
	for _, item := range list {
		if v := strings.TrimSpace(stringify(item)); v != "" {
			options = append(options, v)
		}
	}
	return options
}

// correctAnswer accepts a letter A..E or a numeric index
func (r RawQuestion) correctAnswer() (int, bool) {
	for _, key := range []string{fieldCorrectOption, "correctAnswer"} {
		value, ok := r[key]
		if !ok || value == nil {
			continue
		}

		switch v := value.(type) {
		case float64:
			if v >= 0 && v == math.Trunc(v) {
				return int(v), true
			}
		case string:
			s := strings.ToUpper(strings.TrimSpace(v))
			if len(s) == 1 && s[0] >= 'A' && s[0] <= 'E' {
				return int(s[0] - 'A'), true
			}
			if n, err := strconv.Atoi(s); err == nil && n >= 0 {
				return n, true
			}
		}
	}
	return 0, false
}

func (r RawQuestion) firstString(keys ...string) string {
	for _, key := range keys {
		if v, ok := r[key]; ok && v != nil {
			return stringify(v)
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
