package testprep

import (
	"strings"

	"github.com/yungbote/flightsim-backend/internal/simulator/extract"
	"github.com/yungbote/flightsim-backend/internal/simulator/grading"
)

const (
	TypeMultipleChoice = "multiple_choice"
	TypeFreeText       = "free_text"
)

type Question struct {
	ID                int      `json:"id"`
	Type              string   `json:"type"`
	Category          string   `json:"category"`
	Difficulty        string   `json:"difficulty"`
	InterviewStyle    bool     `json:"interview_style"`
	Question          string   `json:"question"`
	Options           []string `json:"options,omitempty"`
	CorrectAnswer     string   `json:"correct_answer,omitempty"`
	IdealAnswer       string   `json:"ideal_answer,omitempty"`
	Explanation       string   `json:"explanation,omitempty"`
	SourceFlashcardID int      `json:"source_flashcard_id,omitempty"`
}

// Answer is a trainee's response to one question, in question order.
type Answer struct {
	Answer     string  `json:"answer"`
	TimeTaken  float64 `json:"timeTaken"`
	Confidence *int    `json:"confidence,omitempty"`
}

// ParseQuestions extracts the question array and normalizes each entry. Entries
// without question text are dropped; ids are renumbered 1..n.
func ParseQuestions(raw string) ([]Question, error) {
	qs, err := extract.DecodeInto[[]Question](raw, extract.Array)
	if err != nil {
		return nil, err
	}
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		q.Question = strings.TrimSpace(q.Question)
		if q.Question == "" {
			continue
		}
		q.Type = normalizeType(q)
		q.Difficulty = normalizeDifficulty(q.Difficulty)
		if q.Type == TypeMultipleChoice {
			q.CorrectAnswer = optionLetter(q.CorrectAnswer)
		} else if q.IdealAnswer == "" {
			q.IdealAnswer = q.Explanation
		}
		q.ID = len(out) + 1
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, &EmptyTestError{Dropped: len(qs)}
	}
	return out, nil
}

func normalizeType(q Question) string {
	t := strings.ToLower(strings.TrimSpace(q.Type))
	if strings.Contains(t, "multiple") && len(q.Options) >= 2 {
		return TypeMultipleChoice
	}
	if t == "" && len(q.Options) >= 2 {
		return TypeMultipleChoice
	}
	return TypeFreeText
}

func normalizeDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "easy", "medium", "hard":
		return strings.ToLower(strings.TrimSpace(d))
	default:
		return "medium"
	}
}

// optionLetter reduces "B) Chain of Identity" or "b" to "B".
func optionLetter(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	first := strings.ToUpper(s[:1])
	if first >= "A" && first <= "H" && (len(s) == 1 || strings.ContainsRune(")]. :", rune(s[1]))) {
		return first
	}
	return s
}

// WeightedOverall recomputes the overall score from per-answer scores weighted by
// question difficulty. ok is false unless every question has a graded answer.
func WeightedOverall(questions []Question, answers []grading.AnswerGrade) (grading.Score, bool) {
	if len(questions) == 0 {
		return 0, false
	}
	byID := make(map[int]grading.Score, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a.Score.Clamp()
	}
	var sum, weights float64
	for _, q := range questions {
		score, ok := byID[q.ID]
		if !ok {
			return 0, false
		}
		w := DifficultyWeight(q.Difficulty)
		sum += float64(score) * w
		weights += w
	}
	return grading.Score(sum/weights + 0.5), true
}
