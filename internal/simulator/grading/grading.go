// Package grading decodes and sanitizes model-authored grades.
package grading

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yungbote/flightsim-backend/internal/simulator/extract"
)

// Score is an integer percentage. It decodes from a JSON number or a numeric
// string ("85", "85%") and is rounded; clamping is done by the grade sanitizers.
type Score int

func (s *Score) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == "" {
		*s = 0
		return nil
	}
	if unq, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSuffix(strings.TrimSpace(unq), "%")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("score %s is not a number", string(b))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("score %s is not finite", string(b))
	}
	*s = Score(math.Round(clampFloat(f, -1e6, 1e6)))
	return nil
}

func (s Score) Clamp() Score {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

var letters = []string{"A", "B", "C", "D", "F"}

// LetterFor maps a 0..100 score onto the closed letter scale.
func LetterFor(score Score) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// NormalizeLetter strips modifiers ("B+" -> "B"). ok is false when the result is
// not on the closed scale.
func NormalizeLetter(raw string) (string, bool) {
	l := strings.ToUpper(strings.TrimSpace(raw))
	l = strings.TrimRight(l, "+- ")
	for _, v := range letters {
		if l == v {
			return v, true
		}
	}
	return "", false
}

// IncompleteGradeError means a grade payload decoded but is unusable.
type IncompleteGradeError struct {
	Reason string
}

func (e *IncompleteGradeError) Error() string { return "grade is incomplete: " + e.Reason }

func (e *IncompleteGradeError) ErrorCode() string { return "incomplete_grade" }

// ScenarioGrade is the final assessment of a simulation conversation.
type ScenarioGrade struct {
	Grade         string   `json:"grade"`
	Score         Score    `json:"score"`
	Summary       string   `json:"summary"`
	Strengths     []string `json:"strengths"`
	Improvements  []string `json:"improvements"`
	SOPReferences []string `json:"sop_references"`
	CoachingTips  []string `json:"coaching_tips"`
}

// ParseScenarioGrade extracts a grade object and sanitizes it.
func ParseScenarioGrade(raw string) (*ScenarioGrade, error) {
	payload, err := extract.Extract(raw, extract.Object)
	if err != nil {
		return nil, err
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, &extract.MalformedPayloadError{Shape: extract.Object, Err: err}
	}
	if _, ok := probe["score"]; !ok {
		if _, ok := probe["grade"]; !ok {
			return nil, &IncompleteGradeError{Reason: "neither score nor grade present"}
		}
	}
	var g ScenarioGrade
	if err := json.Unmarshal(payload, &g); err != nil {
		return nil, &extract.MalformedPayloadError{Shape: extract.Object, Err: err}
	}
	_, hasScore := probe["score"]
	g.sanitize(hasScore)
	return &g, nil
}

// sanitize clamps the score into 0..100. The model's letter stands only when it
// is valid and the score needed no clamping; an out-of-range score means the
// letter was written against a scale we no longer report.
func (g *ScenarioGrade) sanitize(hasScore bool) {
	reported := g.Score
	g.Score = reported.Clamp()
	letter, ok := NormalizeLetter(g.Grade)
	switch {
	case ok && !hasScore:
		g.Score = midpoint(letter)
	case !ok, reported != g.Score:
		letter = LetterFor(g.Score)
	}
	g.Grade = letter
	g.Strengths = nonNil(g.Strengths)
	g.Improvements = nonNil(g.Improvements)
	g.SOPReferences = nonNil(g.SOPReferences)
	g.CoachingTips = nonNil(g.CoachingTips)
}

func midpoint(letter string) Score {
	switch letter {
	case "A":
		return 95
	case "B":
		return 85
	case "C":
		return 75
	case "D":
		return 65
	default:
		return 50
	}
}

// CategoryScore is a per-category aggregate in a test grade.
type CategoryScore struct {
	Score   Score `json:"score"`
	Correct int   `json:"correct"`
	Total   int   `json:"total"`
}

type AnswerGrade struct {
	QuestionID int     `json:"question_id"`
	Score      Score   `json:"score"`
	IsCorrect  bool    `json:"is_correct"`
	Feedback   string  `json:"feedback"`
	Missed     *string `json:"missed"`
}

type TimeAnalysis struct {
	AverageSeconds  float64 `json:"average_seconds"`
	RushedAnswers   int     `json:"rushed_answers"`
	HesitantAnswers int     `json:"hesitant_answers"`
}

type Mastery struct {
	Score    Score  `json:"score"`
	Feedback string `json:"feedback"`
}

// TestGrade is the graded result of a flash-card test.
type TestGrade struct {
	OverallScore         Score                    `json:"overall_score"`
	OverallGrade         string                   `json:"overall_grade"`
	TotalCorrect         int                      `json:"total_correct"`
	TotalQuestions       int                      `json:"total_questions"`
	TimeAnalysis         *TimeAnalysis            `json:"time_analysis,omitempty"`
	CategoryScores       map[string]CategoryScore `json:"category_scores"`
	WeakAreas            []string                 `json:"weak_areas"`
	StrongAreas          []string                 `json:"strong_areas"`
	Answers              []AnswerGrade            `json:"answers"`
	StudyRecommendations []string                 `json:"study_recommendations"`
	MasteryLevel         *Mastery                 `json:"mastery_level,omitempty"`
}

// ParseTestGrade extracts a test grade and clamps every score into 0..100.
// questionCount, when positive, bounds total_questions and total_correct.
func ParseTestGrade(raw string, questionCount int) (*TestGrade, error) {
	g, err := extract.DecodeInto[TestGrade](raw, extract.Object)
	if err != nil {
		return nil, err
	}
	if g.Answers == nil && g.CategoryScores == nil && g.OverallGrade == "" && g.OverallScore == 0 {
		return nil, &IncompleteGradeError{Reason: "no scores present"}
	}
	g.sanitize(questionCount)
	return &g, nil
}

func (g *TestGrade) sanitize(questionCount int) {
	reported := g.OverallScore
	g.OverallScore = reported.Clamp()
	if letter, ok := NormalizeLetter(g.OverallGrade); ok && reported == g.OverallScore {
		g.OverallGrade = letter
	} else {
		g.OverallGrade = LetterFor(g.OverallScore)
	}
	for i := range g.Answers {
		g.Answers[i].Score = g.Answers[i].Score.Clamp()
	}
	for k, cs := range g.CategoryScores {
		cs.Score = cs.Score.Clamp()
		if cs.Correct < 0 {
			cs.Correct = 0
		}
		if cs.Total < cs.Correct {
			cs.Total = cs.Correct
		}
		g.CategoryScores[k] = cs
	}
	if g.CategoryScores == nil {
		g.CategoryScores = map[string]CategoryScore{}
	}
	if g.MasteryLevel != nil {
		g.MasteryLevel.Score = g.MasteryLevel.Score.Clamp()
	}
	if questionCount > 0 {
		g.TotalQuestions = questionCount
	}
	if g.TotalQuestions == 0 {
		g.TotalQuestions = len(g.Answers)
	}
	if g.TotalCorrect < 0 {
		g.TotalCorrect = 0
	}
	if g.TotalCorrect > g.TotalQuestions {
		g.TotalCorrect = g.TotalQuestions
	}
	g.WeakAreas = nonNil(g.WeakAreas)
	g.StrongAreas = nonNil(g.StrongAreas)
	g.StudyRecommendations = nonNil(g.StudyRecommendations)
	if g.Answers == nil {
		g.Answers = []AnswerGrade{}
	}
}

// WeakCategories lists categories scoring below threshold, sorted.
func (g *TestGrade) WeakCategories(threshold Score) []string {
	var out []string
	for k, cs := range g.CategoryScores {
		if cs.Score < threshold {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
