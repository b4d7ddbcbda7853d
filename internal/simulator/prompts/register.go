package prompts

import "github.com/yungbote/flightsim-backend/internal/platform/promptstyle"

// specs declares every prompt the simulator renders.
func specs() []Spec {
	return []Spec{
		// ---------- Scenario flight ----------
		{
			Name:    PromptScenarioGenerate,
			Version: 2,
			Mode:    promptstyle.ModeJSONObject,
			System: gameMasterSystem + `

AVAILABLE DATA FOR SCENARIO GENERATION:
{{.ReferenceData}}`,
			User: `
Generate a new training scenario for a {{.RoleLabel}} (role: {{.Role}}) at {{.Difficulty}} difficulty level.
{{if .RealTimeData}}
{{.RealTimeData}}

Weave the real-time conditions above into the scenario where they fit. Ignore tool calls that failed.
{{end}}
Include:
1. A compelling "Alert" title (what happened)
2. Initial situation briefing (3-4 sentences)
3. Key data points the trainee should investigate
4. A hidden "ideal response" checklist for grading (do not reveal to user)

Format your response as JSON:
{
  "alert_title": "...",
  "alert_severity": "CRITICAL|HIGH|MEDIUM",
  "briefing": "...",
  "initial_data": {
    "flight_id": "..." (if applicable),
    "location": "...",
    "time_pressure": "...",
    "key_metrics": {}
  },
  "ideal_response_checklist": ["item1", "item2", ...],
  "hints": ["hint1", "hint2"],
  "scenario_data": {
    "flights": {"<flight id>": {"status": "GROUNDED|DELAYED|IN_TRANSIT|DIVERTED|ARRIVED", "location": "...", "destination": "...", "cargo": "...", "patient_id": "..." (cell therapy only), "delay_reason": "...", "eta_original": "...", "cryo_expiry": null}},
    "inventory": {"<location id>": {}},
    "demand": {"<region>": {}},
    "cryo_expiry_minutes": 150 or null,
    "cryo_depots": [{"id": "...", "name": "...", "airport": "...", "distance_miles": 0, "available_slots": 0, "drive_time_minutes": 0}]
  }
}

Rules:
- Every flight id named in the briefing or initial_data.flight_id must be a key of scenario_data.flights.
- Every patient id named in the briefing must be the patient_id of one of those flights.
- cryo_expiry_minutes is the whole number of minutes until cryopreserved material expires, or null when no cell or gene therapy payload is at risk. Leave every cryo_expiry null; the simulator computes it.
- Give at most {{.HintCap}} hints.

Example for a different role and difficulty:
` + scenarioExample,
		},
		{
			Name:    PromptScenarioRespond,
			Version: 1,
			Mode:    promptstyle.ModeText,
			System: gameMasterSystem + `

AVAILABLE DATA (use this to inform your responses):
{{.ReferenceData}}

CURRENT SCENARIO:
{{.ScenarioJSON}}`,
			User: `
CONVERSATION SO FAR:
{{.Transcript}}

Continue the simulation. Respond to the user's latest input. Reference the available data when relevant to make your response realistic and specific. Guide them through the scenario, ask probing questions, or provide feedback on their decisions.`,
			Validators: []Validator{
				RequireNonEmpty("Transcript", func(in Input) string { return in.Transcript }),
			},
		},
		{
			Name:    PromptScenarioGrade,
			Version: 1,
			Mode:    promptstyle.ModeJSONObject,
			System:  gameMasterSystem,
			User: `
Conversation:
{{.Transcript}}

Based on this simulation conversation, provide a final grade and detailed feedback.

Original scenario checklist (for your reference): {{.ChecklistJSON}}

Provide your assessment as JSON:
{
  "grade": "A|B|C|D|F",
  "score": 85,
  "summary": "One sentence overall assessment",
  "strengths": ["what they did well"],
  "improvements": ["what they missed or could improve"],
  "sop_references": ["relevant SOPs they should review"],
  "coaching_tips": ["specific actionable advice"]
}

score is an integer from 0 to 100. grade follows score: A 90+, B 80+, C 70+, D 60+, F below.`,
		},

		// ---------- Test prep ----------
		{
			Name:    PromptTestQuestions,
			Version: 1,
			Mode:    promptstyle.ModeJSONArray,
			System:  `You are a test generator for a Vertex Pharmaceuticals supply chain training platform.`,
			User: `
Based on these flashcards, generate {{.Length}} test questions. Question format:
{{.FormatInstructions}}

For each question, also generate:
- A difficulty level (easy, medium, hard)
- An "interview_style" boolean - true if it's a behavioral/situational question

FLASHCARD DATA:
{{.FlashcardsJSON}}

IMPORTANT GUIDELINES:
1. Don't just copy flashcard fronts as questions - rephrase and add context
2. Add 2-3 questions that combine multiple concepts or require deeper thinking
3. Add 1-2 "interview-style" questions like "How would you explain X to a non-technical stakeholder?"
4. Make multiple choice distractors plausible but clearly wrong to experts
5. Vary difficulty: 30% easy, 50% medium, 20% hard

Return ONLY valid JSON array:
[
  {
    "id": 1,
    "type": "multiple_choice",
    "category": "category name",
    "difficulty": "easy|medium|hard",
    "interview_style": false,
    "question": "Question text?",
    "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
    "correct_answer": "A",
    "explanation": "Why this is correct...",
    "source_flashcard_id": 1
  },
  {
    "id": 2,
    "type": "free_text",
    "category": "category name",
    "difficulty": "medium",
    "interview_style": true,
    "question": "Question text?",
    "ideal_answer": "Key points that should be covered...",
    "explanation": "Detailed explanation...",
    "source_flashcard_id": 2
  }
]`,
			Validators: []Validator{
				RequirePositive("Length", func(in Input) int { return in.Length }),
				RequireNonEmpty("FlashcardsJSON", func(in Input) string { return in.FlashcardsJSON }),
			},
		},
		{
			Name:    PromptTestGrade,
			Version: 1,
			Mode:    promptstyle.ModeJSONObject,
			System:  `You are a strict but fair grader for a Vertex Pharmaceuticals supply chain training test.`,
			User: `
Grade each answer. Be realistic - don't give full credit for partial answers.

QUESTIONS AND ANSWERS:
{{.AnsweredQuestions}}

For each answer, provide:
1. Score (0-100)
2. Is correct (boolean)
3. Specific feedback
4. What was missed (if anything)

Also provide:
- Overall score (weighted by difficulty: easy=1x, medium=1.5x, hard=2x)
- Category scores (average per category)
- Weak areas (categories below 70%)
- Study recommendations

GRADING STANDARDS:
- Multiple choice: 100 if correct, 0 if wrong
- Free text: Grade on completeness, accuracy, use of correct terminology
  - 90-100: Complete, accurate, uses proper terms
  - 70-89: Mostly correct, missing minor details
  - 50-69: Partially correct, missing key concepts
  - Below 50: Incorrect or too vague

CRITICAL - FEEDBACK REQUIREMENTS:
For ANY answer scoring below 90, provide THOROUGH educational feedback that:
1. Explains the correct answer in detail (2-3 sentences minimum)
2. Explains WHY this matters in a Vertex/pharma context
3. Provides a memory tip or real-world example to help remember
4. For free text: acknowledges what they got right before explaining what was missed

Example of GOOD feedback for a wrong answer:
"The correct answer is RAG (Retrieval-Augmented Generation). RAG works by first retrieving relevant documents from a vector database, then injecting that context into the prompt before the LLM generates a response. This is critical at Vertex because it allows AI systems to reference current SOPs and batch records without hallucinating outdated information. Memory tip: Think 'RAG = Research And Ground' - the AI researches first, then grounds its answer in real data."

Example of BAD feedback (too brief):
"Incorrect. The answer is RAG."

Return ONLY valid JSON:
{
  "overall_score": 85,
  "overall_grade": "B+",
  "total_correct": 15,
  "total_questions": 20,
  "time_analysis": {
    "average_seconds": 45,
    "rushed_answers": 2,
    "hesitant_answers": 3
  },
  "category_scores": {
    "Category Name": { "score": 85, "correct": 5, "total": 6 }
  },
  "weak_areas": ["Category 1", "Category 2"],
  "strong_areas": ["Category 3"],
  "answers": [
    {
      "question_id": 1,
      "score": 100,
      "is_correct": true,
      "feedback": "Correct!",
      "missed": null
    }
  ],
  "study_recommendations": [
    "Focus on X because...",
    "Review the concept of Y..."
  ],
  "mastery_level": {
    "score": 75,
    "feedback": "You show good knowledge but need to work on..."
  }
}`,
			Validators: []Validator{
				RequireNonEmpty("AnsweredQuestions", func(in Input) string { return in.AnsweredQuestions }),
			},
		},
		{
			Name:    PromptTeach,
			Version: 1,
			Mode:    promptstyle.ModeMarkdown,
			System:  `You are a helpful tutor for a Vertex Pharmaceuticals supply chain training program.`,
			User: `
The user is weak in: {{.Category}}
Specific concepts they struggled with: {{.ConceptsCSV}}

Relevant knowledge base:
{{.FlashcardsJSON}}

Provide a clear, concise teaching session that:
1. Explains the core concepts in simple terms
2. Uses analogies where helpful
3. Connects concepts to real Vertex business context
4. Provides memory tricks or frameworks
5. Ends with 2-3 quick self-check questions

Keep it conversational and encouraging. Format with markdown.`,
			Validators: []Validator{
				RequireNonEmpty("Category or ConceptsCSV", func(in Input) string { return in.Category + in.ConceptsCSV }),
			},
		},
	}
}
