// Package mock is an offline engine that answers with canned, well-formed payloads.
package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/flightsim-backend/internal/llm/engine"
)

const Name = "mock"

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) Name() string { return Name }

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", engine.Upstream(Name, err)
	}
	_ = model

	switch opts.Task {
	case "scenario_generate":
		return "Here is your scenario:\n```json\n" + scenarioJSON + "\n```", nil
	case "scenario_grade":
		return gradeJSON, nil
	case "test_questions":
		return questionsJSON, nil
	case "test_grade":
		return testGradeJSON, nil
	case "teach":
		return lessonMD, nil
	}

	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, engine.RoleUser) {
			user = lastLine(messages[i].Content)
			break
		}
	}
	if strings.TrimSpace(user) == "" {
		return "mock: ok", nil
	}
	return fmt.Sprintf("mock: %s", user), nil
}

// lastLine prefers the trainee's latest transcript line over trailing instructions.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(lines[i]), "User: "); ok {
			return rest
		}
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

const scenarioJSON = `{
  "alert_title": "Ice Storm Grounds Casgevy Shipment at O'Hare",
  "alert_severity": "CRITICAL",
  "briefing": "Flight VX-CGT-001 carrying Casgevy cells for patient PT-7829 is grounded at Chicago O'Hare by an ice storm. The cryoshipper has limited validated hold time left.",
  "initial_data": {
    "flight_id": "VX-CGT-001",
    "location": "Chicago O'Hare (ORD)",
    "time_pressure": "150 minutes of cryo hold time remaining",
    "key_metrics": {"cell_viability_pct": 94}
  },
  "ideal_response_checklist": [
    "Verify Chain of Identity before any transfer",
    "Move the shipment to CHI-CRYO",
    "Notify the treatment center and QA",
    "Document custody changes"
  ],
  "hints": [
    "Check SOP CRYO_EMERGENCY.",
    "CHI-CRYO is 25 minutes from ORD.",
    "Who must sign off on a COI transfer?",
    "Boston Logan is the destination.",
    "Inventory at CHI-DEPOT is tight."
  ],
  "scenario_data": {
    "flights": {
      "VX-CGT-001": {
        "status": "GROUNDED",
        "location": "Chicago O'Hare (ORD)",
        "destination": "Boston Logan (BOS)",
        "cargo": "Patient cells - Casgevy therapy",
        "patient_id": "PT-7829",
        "delay_reason": "Severe weather - ice storm",
        "cryo_expiry": null
      }
    },
    "inventory": {},
    "demand": {},
    "cryo_expiry_minutes": 150,
    "cryo_depots": [
      {"id": "CHI-CRYO", "name": "Chicago Cryo Depot", "airport": "ORD", "distance_miles": 12, "available_slots": 28, "drive_time_minutes": 25}
    ]
  }
}`

const gradeJSON = `{
  "grade": "B",
  "score": 84,
  "summary": "Solid containment with a late QA notification.",
  "strengths": ["Protected Chain of Identity"],
  "improvements": ["Notify QA before moving the shipment"],
  "sop_references": ["CRYO_EMERGENCY"],
  "coaching_tips": ["Lead with patient safety, then logistics"]
}`

const questionsJSON = `[
  {"id": 1, "type": "multiple_choice", "category": "Cell & Gene Therapy", "difficulty": "easy", "interview_style": false,
   "question": "What must be maintained end to end for autologous therapies?",
   "options": ["A) Chain of Identity", "B) Batch yield", "C) Shelf life", "D) Fill rate"],
   "correct_answer": "A", "explanation": "COI links the patient to their cells.", "source_flashcard_id": 1},
  {"id": 2, "type": "free_text", "category": "Demand Planning", "difficulty": "medium", "interview_style": false,
   "question": "How would you sense a demand spike for a new launch?",
   "ideal_answer": "Use point-of-sale and prescription signals.", "explanation": "Demand sensing uses near-real-time signals.", "source_flashcard_id": 2},
  {"id": 3, "type": "free_text", "category": "AI & Data", "difficulty": "hard", "interview_style": true,
   "question": "How would you explain RAG to a plant manager?",
   "ideal_answer": "Retrieve current documents, then generate grounded answers.", "explanation": "RAG grounds answers in retrieved data.", "source_flashcard_id": 3}
]`

const testGradeJSON = `{
  "overall_score": 78,
  "overall_grade": "C+",
  "total_correct": 2,
  "total_questions": 3,
  "time_analysis": {"average_seconds": 40, "rushed_answers": 0, "hesitant_answers": 1},
  "category_scores": {"Cell & Gene Therapy": {"score": 100, "correct": 1, "total": 1}},
  "weak_areas": ["AI & Data"],
  "strong_areas": ["Cell & Gene Therapy"],
  "answers": [
    {"question_id": 1, "score": 100, "is_correct": true, "feedback": "Correct!", "missed": null},
    {"question_id": 2, "score": 75, "is_correct": true, "feedback": "Mostly right.", "missed": "prescription data"},
    {"question_id": 3, "score": 60, "is_correct": false, "feedback": "Partially correct.", "missed": "grounding"}
  ],
  "study_recommendations": ["Review retrieval-augmented generation"],
  "mastery_level": {"score": 72, "feedback": "Good base, keep practicing."}
}`

const lessonMD = "## Quick lesson\n\nThink of **Chain of Identity** as a passport that never leaves the patient's cells.\n\n### Self-check\n1. Who signs off on a COI transfer?\n2. What happens if the cryoshipper expires?"
