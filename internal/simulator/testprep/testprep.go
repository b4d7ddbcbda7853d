// Package testprep selects flashcards for generated tests and decodes the
// questions the model writes from them.
package testprep

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/yungbote/flightsim-backend/internal/simulator/refdata"
)

type QuestionFormat string

const (
	FormatMixed          QuestionFormat = "mixed"
	FormatMultipleChoice QuestionFormat = "multiple_choice"
	FormatFreeText       QuestionFormat = "free_text"
)

func ParseQuestionFormat(s string) QuestionFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple_choice", "multiplechoice", "mc":
		return FormatMultipleChoice
	case "free_text", "freetext", "text", "short_answer":
		return FormatFreeText
	default:
		return FormatMixed
	}
}

// Instructions is the format block placed in the question-generation prompt.
func (f QuestionFormat) Instructions() string {
	switch f {
	case FormatMultipleChoice:
		return "- 100% multiple choice (4 options, one correct)"
	case FormatFreeText:
		return "- 100% free text (short answer requiring typed response)"
	default:
		return "- 60% multiple choice (4 options, one correct)\n- 40% free text (short answer)"
	}
}

const (
	MaxLength     = 50
	DefaultLength = 10
	weakShare     = 0.7
)

type SelectOptions struct {
	Length     int
	Categories []string
	WeakAreas  []string
}

// ClampLength maps a requested test length into 1..MaxLength, with
// DefaultLength for anything unset.
func ClampLength(n int) int {
	switch {
	case n <= 0:
		return DefaultLength
	case n > MaxLength:
		return MaxLength
	}
	return n
}

// Selector picks flashcards. It is safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector uses rng for shuffling; nil means the global source.
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Select filters by category, weights weak areas 70/30 against the rest, shuffles,
// and caps the result at Length and at the number of available cards.
func (s *Selector) Select(cards []refdata.Flashcard, opts SelectOptions) []refdata.Flashcard {
	length := ClampLength(opts.Length)

	available := slices.Clone(cards)
	if len(opts.Categories) > 0 {
		available = filter(available, func(c refdata.Flashcard) bool {
			return slices.Contains(opts.Categories, c.Category)
		})
	}

	if len(opts.WeakAreas) > 0 {
		weak := filter(available, func(c refdata.Flashcard) bool {
			return slices.Contains(opts.WeakAreas, c.Category)
		})
		other := filter(available, func(c refdata.Flashcard) bool {
			return !slices.Contains(opts.WeakAreas, c.Category)
		})
		weakCount := int(float64(length) * weakShare)
		otherCount := length - weakCount
		s.shuffle(weak)
		s.shuffle(other)
		available = append(head(weak, weakCount), head(other, otherCount)...)
	}

	s.shuffle(available)
	return head(available, length)
}

func (s *Selector) shuffle(cards []refdata.Flashcard) {
	swap := func(i, j int) { cards[i], cards[j] = cards[j], cards[i] }
	if s == nil || s.rng == nil {
		rand.Shuffle(len(cards), swap)
		return
	}
	s.mu.Lock()
	s.rng.Shuffle(len(cards), swap)
	s.mu.Unlock()
}

// RelevantCards returns cards in the category or whose front mentions any concept.
func RelevantCards(cards []refdata.Flashcard, category string, concepts []string) []refdata.Flashcard {
	lowered := make([]string, 0, len(concepts))
	for _, c := range concepts {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			lowered = append(lowered, c)
		}
	}
	return filter(cards, func(f refdata.Flashcard) bool {
		if f.Category == category {
			return true
		}
		front := strings.ToLower(f.Front)
		for _, c := range lowered {
			if strings.Contains(front, c) {
				return true
			}
		}
		return false
	})
}

// DifficultyWeight is the weight of a question difficulty in the overall score.
func DifficultyWeight(d string) float64 {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "hard":
		return 2
	case "medium":
		return 1.5
	default:
		return 1
	}
}

func filter(cards []refdata.Flashcard, keep func(refdata.Flashcard) bool) []refdata.Flashcard {
	out := make([]refdata.Flashcard, 0, len(cards))
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func head(cards []refdata.Flashcard, n int) []refdata.Flashcard {
	if n < 0 {
		n = 0
	}
	if n > len(cards) {
		n = len(cards)
	}
	return cards[:n]
}

// EmptyTestError means the model returned no usable questions.
type EmptyTestError struct {
	Dropped int
}

func (e *EmptyTestError) Error() string {
	return fmt.Sprintf("model returned no usable questions (%d dropped)", e.Dropped)
}

func (e *EmptyTestError) ErrorCode() string { return "empty_test" }
