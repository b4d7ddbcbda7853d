// Package prompts renders the deterministic instruction strings sent to the LLM.
package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/flightsim-backend/internal/simulator/refdata"
	"github.com/yungbote/flightsim-backend/internal/simulator/scenario"
	"github.com/yungbote/flightsim-backend/internal/simulator/testprep"
)

const (
	realTimeHeader = "=== REAL-TIME DATA ==="
	realTimeFooter = "=== END REAL-TIME DATA ==="
)

// Composer owns the compiled templates and the pre-rendered reference tables.
// It is immutable after New and safe for concurrent use.
type Composer struct {
	templates map[PromptName]Template
	reference string
}

// New compiles every prompt. It panics on a template error, which is a programming error.
func New(catalog *refdata.Catalog) *Composer {
	c := &Composer{
		templates: map[PromptName]Template{},
		reference: referenceData(catalog),
	}
	for _, s := range specs() {
		t, err := MakeTemplate(s)
		if err != nil {
			panic(err)
		}
		c.templates[t.Name()] = t
	}
	return c
}

func (c *Composer) build(name PromptName, in Input) (Prompt, error) {
	t, ok := c.templates[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", string(name))
	}
	return t.Render(in, true)
}

// Scenario renders the generation prompt. It has no validators and cannot fail.
func (c *Composer) Scenario(req scenario.Request) Prompt {
	p, _ := c.build(PromptScenarioGenerate, Input{
		ReferenceData: c.reference,
		Role:          string(req.Role),
		RoleLabel:     req.Role.Label(),
		Difficulty:    req.Difficulty.Upper(),
		HintCap:       hintCap(req.Difficulty),
		RealTimeData:  RenderFacts(req.RealTimeFacts),
	})
	return p
}

// Respond renders the continuation prompt. history must already end with the trainee's turn.
func (c *Composer) Respond(history []scenario.Turn, current json.RawMessage) (Prompt, error) {
	return c.build(PromptScenarioRespond, Input{
		ReferenceData: c.reference,
		ScenarioJSON:  indentRaw(current),
		Transcript:    Transcript(history),
	})
}

func (c *Composer) ScenarioGrade(history []scenario.Turn, checklist []string) (Prompt, error) {
	if checklist == nil {
		checklist = []string{}
	}
	return c.build(PromptScenarioGrade, Input{
		Transcript:    Transcript(history),
		ChecklistJSON: compactJSON(checklist),
	})
}

func (c *Composer) TestQuestions(cards []refdata.Flashcard, length int, format testprep.QuestionFormat) (Prompt, error) {
	var cardsJSON string
	if len(cards) > 0 {
		cardsJSON = indentJSON(cards)
	}
	return c.build(PromptTestQuestions, Input{
		Length:             length,
		FormatInstructions: format.Instructions(),
		FlashcardsJSON:     cardsJSON,
	})
}

func (c *Composer) TestGrade(questions []testprep.Question, answers []testprep.Answer) (Prompt, error) {
	return c.build(PromptTestGrade, Input{AnsweredQuestions: answeredQuestions(questions, answers)})
}

func (c *Composer) Teach(category string, concepts []string, cards []refdata.Flashcard) (Prompt, error) {
	if cards == nil {
		cards = []refdata.Flashcard{}
	}
	return c.build(PromptTeach, Input{
		Category:       strings.TrimSpace(category),
		ConceptsCSV:    strings.Join(concepts, ", "),
		FlashcardsJSON: indentJSON(cards),
	})
}

// RenderFacts returns the delimited real-time block, or "" when there are no facts.
// Facts keep call-site order.
func RenderFacts(facts []scenario.RealTimeFact) string {
	if len(facts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(realTimeHeader)
	for i, f := range facts {
		fmt.Fprintf(&b, "\n[%d] %s", i+1, f.SourceTool)
		if len(f.Arguments) > 0 {
			b.WriteString(" ")
			b.WriteString(compactJSON(f.Arguments))
		}
		b.WriteString("\n")
		if f.Failed() {
			b.WriteString("tool call failed: ")
			b.WriteString(f.Error)
		} else {
			b.WriteString(indentRaw(f.Result))
		}
	}
	b.WriteString("\n")
	b.WriteString(realTimeFooter)
	return b.String()
}

// Transcript flattens history into "User: ..." / "Assistant: ..." blocks.
func Transcript(history []scenario.Turn) string {
	parts := make([]string, 0, len(history))
	for _, t := range history {
		label := "User"
		if scenario.NormalizeTurnRole(t.Role) == scenario.TurnAssistant {
			label = "Assistant"
		}
		parts = append(parts, label+": "+t.Content)
	}
	return strings.Join(parts, "\n\n")
}

func answeredQuestions(questions []testprep.Question, answers []testprep.Answer) string {
	blocks := make([]string, 0, len(questions))
	for i, q := range questions {
		var b strings.Builder
		fmt.Fprintf(&b, "Question %d (%s, %s, weight %sx, Category: %s):\n%s\n",
			i+1, q.Type, q.Difficulty, weightLabel(q.Difficulty), q.Category, q.Question)
		if q.Type == testprep.TypeMultipleChoice {
			fmt.Fprintf(&b, "Options: %s\nCorrect Answer: %s\n", strings.Join(q.Options, ", "), q.CorrectAnswer)
		} else {
			fmt.Fprintf(&b, "Ideal Answer: %s\n", q.IdealAnswer)
		}
		answer, taken, confidence := "NO ANSWER", 0.0, "not rated"
		if i < len(answers) {
			if a := strings.TrimSpace(answers[i].Answer); a != "" {
				answer = a
			}
			taken = answers[i].TimeTaken
			if answers[i].Confidence != nil {
				confidence = fmt.Sprint(*answers[i].Confidence)
			}
		}
		fmt.Fprintf(&b, "\nUser's Answer: %s\nTime Taken: %g seconds\nConfidence: %s/5", answer, taken, confidence)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n---\n")
}

func weightLabel(difficulty string) string {
	return fmt.Sprintf("%g", testprep.DifficultyWeight(difficulty))
}

func hintCap(d scenario.Difficulty) int {
	if n := d.HintCap(); n > 0 {
		return n
	}
	return scenario.Beginner.HintCap()
}

func referenceData(catalog *refdata.Catalog) string {
	var b strings.Builder
	b.WriteString("Flight Data: ")
	b.WriteString(indentJSON(catalog.Flights()))
	b.WriteString("\nInventory Data: ")
	b.WriteString(indentJSON(catalog.Inventory()))
	b.WriteString("\nDemand Signals: ")
	b.WriteString(indentJSON(catalog.Demand()))
	b.WriteString("\nCryo Depots: ")
	b.WriteString(indentJSON(catalog.CryoDepots()))
	return b.String()
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(b)
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// indentRaw pretty-prints caller-supplied JSON, falling back to the raw text.
func indentRaw(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "null"
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}
