package grading

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/flightsim-backend/internal/simulator/extract"
)

func TestParseScenarioGradeWellFormed(t *testing.T) {
	raw := "```json\n" + `{"grade":"B","score":85,"summary":"Solid","strengths":["Verified COI"],"improvements":[],"sop_references":["SOP-CGT-007"],"coaching_tips":["Escalate earlier"]}` + "\n```"
	g, err := ParseScenarioGrade(raw)
	if err != nil {
		t.Fatalf("ParseScenarioGrade: %v", err)
	}
	want := &ScenarioGrade{
		Grade:         "B",
		Score:         85,
		Summary:       "Solid",
		Strengths:     []string{"Verified COI"},
		Improvements:  []string{},
		SOPReferences: []string{"SOP-CGT-007"},
		CoachingTips:  []string{"Escalate earlier"},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Fatalf("grade (-want +got):\n%s", diff)
	}
}

func TestParseScenarioGradeClampsScore(t *testing.T) {
	g, err := ParseScenarioGrade(`{"grade":"A","score":140}`)
	if err != nil {
		t.Fatal(err)
	}
	if g.Score != 100 {
		t.Fatalf("score = %d, want 100", g.Score)
	}
	g, err = ParseScenarioGrade(`{"grade":"F","score":-12}`)
	if err != nil {
		t.Fatal(err)
	}
	if g.Score != 0 {
		t.Fatalf("score = %d, want 0", g.Score)
	}
}

func TestParseScenarioGradeLetterRules(t *testing.T) {
	tests := []struct {
		raw       string
		wantGrade string
		wantScore Score
	}{
		{`{"grade":"B+","score":88}`, "B", 88},
		{`{"grade":"Excellent","score":91}`, "A", 91},
		{`{"score":"72"}`, "C", 72},
		{`{"score":"64.6%"}`, "D", 65},
		{`{"grade":"C"}`, "C", 75},
		{`{"grade":"D","score":140}`, "A", 100},
		{`{"grade":"A","score":-5}`, "F", 0},
	}
	for _, tt := range tests {
		g, err := ParseScenarioGrade(tt.raw)
		if err != nil {
			t.Fatalf("%s: %v", tt.raw, err)
		}
		if g.Grade != tt.wantGrade || g.Score != tt.wantScore {
			t.Errorf("%s -> (%q, %d), want (%q, %d)", tt.raw, g.Grade, g.Score, tt.wantGrade, tt.wantScore)
		}
	}
}

func TestParseScenarioGradeErrors(t *testing.T) {
	_, err := ParseScenarioGrade("no json here")
	var ee *extract.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v", err)
	}
	_, err = ParseScenarioGrade(`{"summary":"nothing else"}`)
	var ie *IncompleteGradeError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v", err)
	}
	_, err = ParseScenarioGrade(`{"score": "lots"}`)
	var me *extract.MalformedPayloadError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseTestGradeClamps(t *testing.T) {
	raw := `Here is the grade:
{
  "overall_score": 112,
  "overall_grade": "B+",
  "total_correct": 9,
  "total_questions": 4,
  "category_scores": {"Logistics": {"score": 130, "correct": 2, "total": 1}, "AI & Data": {"score": 40, "correct": 0, "total": 2}},
  "weak_areas": ["AI & Data"],
  "answers": [{"question_id": 1, "score": 150, "is_correct": true, "feedback": "Correct!", "missed": null}],
  "mastery_level": {"score": -3, "feedback": "keep going"}
}`
	g, err := ParseTestGrade(raw, 3)
	if err != nil {
		t.Fatalf("ParseTestGrade: %v", err)
	}
	// 112 is off the scale, so the letter is re-derived from the clamped score.
	if g.OverallScore != 100 || g.OverallGrade != "A" {
		t.Fatalf("overall = %d %q", g.OverallScore, g.OverallGrade)
	}
	if g.TotalQuestions != 3 || g.TotalCorrect != 3 {
		t.Fatalf("totals = %d/%d", g.TotalCorrect, g.TotalQuestions)
	}
	if g.Answers[0].Score != 100 {
		t.Fatalf("answer score = %d", g.Answers[0].Score)
	}
	if cs := g.CategoryScores["Logistics"]; cs.Score != 100 || cs.Total != 2 {
		t.Fatalf("category = %+v", cs)
	}
	if g.MasteryLevel.Score != 0 {
		t.Fatalf("mastery = %d", g.MasteryLevel.Score)
	}
	if diff := cmp.Diff([]string{"AI & Data"}, g.WeakCategories(70)); diff != "" {
		t.Fatalf("weak categories:\n%s", diff)
	}
	if g.StrongAreas == nil || g.StudyRecommendations == nil {
		t.Fatal("list fields should be non-nil")
	}
}

func TestParseTestGradeEmpty(t *testing.T) {
	_, err := ParseTestGrade(`{"note": "I could not grade this"}`, 2)
	var ie *IncompleteGradeError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v", err)
	}
}
