package prompts

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/yungbote/flightsim-backend/internal/simulator/refdata"
	"github.com/yungbote/flightsim-backend/internal/simulator/scenario"
	"github.com/yungbote/flightsim-backend/internal/simulator/testprep"
)

func composer(t *testing.T) *Composer {
	t.Helper()
	return New(refdata.MustLoad())
}

func TestScenarioPromptDeterministic(t *testing.T) {
	c := composer(t)
	req := scenario.Request{Role: scenario.RoleSupplyChainPlanner, Difficulty: scenario.Intermediate}
	a, b := c.Scenario(req), c.Scenario(req)
	if a.Text() != b.Text() || a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("prompt is not deterministic")
	}
	// a second composer over the same catalog renders identical text
	if other := composer(t).Scenario(req); other.Fingerprint() != a.Fingerprint() {
		t.Fatalf("fingerprint differs across composers")
	}
}

func TestScenarioPromptRoleAndDifficultyLiterals(t *testing.T) {
	p := composer(t).Scenario(scenario.Request{Role: scenario.RoleQualityEngineer, Difficulty: scenario.Expert})
	text := p.Text()
	for _, want := range []string{"QualityEngineer", "EXPERT", "VX-CGT-001", "CRITICAL|HIGH|MEDIUM", "IN_TRANSIT", "cryo_expiry_minutes", "at most 2 hints"} {
		if !strings.Contains(text, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if strings.Contains(text, "REAL-TIME DATA") {
		t.Fatalf("prompt without facts must not contain a real-time section")
	}
}

func TestScenarioPromptRealTimeSection(t *testing.T) {
	facts := []scenario.RealTimeFact{
		{SourceTool: "get_weather", Arguments: map[string]any{"city": "Chicago"}, Result: json.RawMessage(`{"temperature_c":-4}`)},
		{SourceTool: "search_news", Arguments: map[string]any{"q": "pharma"}, Error: "upstream unavailable: timeout"},
	}
	p := composer(t).Scenario(scenario.Request{
		Role:            scenario.RoleSupplyChainPlanner,
		Difficulty:      scenario.Beginner,
		UseRealTimeData: true,
		RealTimeFacts:   facts,
	})
	text := p.Text()
	if !strings.Contains(text, realTimeHeader) || !strings.Contains(text, realTimeFooter) {
		t.Fatalf("missing delimited real-time section")
	}
	weather := strings.Index(text, "[1] get_weather")
	news := strings.Index(text, "[2] search_news")
	if weather < 0 || news < 0 || weather > news {
		t.Fatalf("facts out of call-site order: %d %d", weather, news)
	}
	if !strings.Contains(text, "tool call failed: upstream unavailable: timeout") {
		t.Fatalf("failed fact not rendered verbatim")
	}
}

func TestRenderFactsEmpty(t *testing.T) {
	if got := RenderFacts(nil); got != "" {
		t.Fatalf("RenderFacts(nil) = %q", got)
	}
}

func TestTranscript(t *testing.T) {
	got := Transcript([]scenario.Turn{
		{Role: "user", Content: "Start"},
		{Role: "model", Content: "Alert!"},
		{Role: "user", Content: "Reroute"},
	})
	want := "User: Start\n\nAssistant: Alert!\n\nUser: Reroute"
	if got != want {
		t.Fatalf("Transcript = %q, want %q", got, want)
	}
}

func TestRespondPrompt(t *testing.T) {
	c := composer(t)
	p, err := c.Respond([]scenario.Turn{{Role: "user", Content: "Move cells to CHI-CRYO"}}, json.RawMessage(`{"alert_title":"Ice"}`))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.Contains(p.System, `"alert_title": "Ice"`) || !strings.Contains(p.User, "User: Move cells to CHI-CRYO") {
		t.Fatalf("respond prompt missing scenario or transcript:\n%s", p.Text())
	}
	if _, err := c.Respond(nil, nil); err == nil {
		t.Fatalf("empty transcript should fail validation")
	}
}

func TestScenarioGradePromptCarriesChecklist(t *testing.T) {
	p, err := composer(t).ScenarioGrade(
		[]scenario.Turn{{Role: "user", Content: "I would call QA"}},
		[]string{"Verify COI", "Notify QA"},
	)
	if err != nil {
		t.Fatalf("ScenarioGrade: %v", err)
	}
	if !strings.Contains(p.User, `["Verify COI","Notify QA"]`) {
		t.Fatalf("checklist missing: %s", p.User)
	}
}

func TestTestGradePromptWeights(t *testing.T) {
	conf := 4
	p, err := composer(t).TestGrade(
		[]testprep.Question{
			{ID: 1, Type: testprep.TypeMultipleChoice, Difficulty: "hard", Category: "AI & Data", Question: "What is RAG?", Options: []string{"A) x", "B) y"}, CorrectAnswer: "A"},
			{ID: 2, Type: testprep.TypeFreeText, Difficulty: "easy", Category: "Logistics", Question: "Define COI", IdealAnswer: "Chain of identity"},
		},
		[]testprep.Answer{{Answer: "A", TimeTaken: 12, Confidence: &conf}},
	)
	if err != nil {
		t.Fatalf("TestGrade: %v", err)
	}
	for _, want := range []string{"weight 2x", "weight 1x", "Correct Answer: A", "Confidence: 4/5", "NO ANSWER", "Ideal Answer: Chain of identity"} {
		if !strings.Contains(p.User, want) {
			t.Fatalf("grade prompt missing %q:\n%s", want, p.User)
		}
	}
}

func TestTestQuestionsPrompt(t *testing.T) {
	c := composer(t)
	cards := refdata.MustLoad().Flashcards()[:3]
	p, err := c.TestQuestions(cards, 3, testprep.FormatMultipleChoice)
	if err != nil {
		t.Fatalf("TestQuestions: %v", err)
	}
	if !strings.Contains(p.User, "generate 3 test questions") || !strings.Contains(p.System, "JSON array") {
		t.Fatalf("unexpected prompt:\n%s", p.Text())
	}
	if _, err := c.TestQuestions(nil, 3, testprep.FormatMixed); err == nil {
		t.Fatalf("no cards should fail validation")
	}
}

func TestTeachPromptIsMarkdown(t *testing.T) {
	p, err := composer(t).Teach("Logistics", []string{"cold chain", "COI"}, nil)
	if err != nil {
		t.Fatalf("Teach: %v", err)
	}
	if !strings.Contains(p.User, "cold chain, COI") || !strings.Contains(p.System, "markdown") {
		t.Fatalf("unexpected teach prompt:\n%s", p.Text())
	}
}

func TestMakeTemplateRejectsBadSpecs(t *testing.T) {
	if _, err := MakeTemplate(Spec{Name: "x"}); err == nil {
		t.Fatalf("missing version should fail")
	}
	if _, err := MakeTemplate(Spec{Name: "x", Version: 1, User: "{{.Broken"}); err == nil {
		t.Fatalf("bad template should fail")
	}
	if _, err := MakeTemplate(Spec{Name: "x", Version: 1, User: "{{.NoSuchField}}"}); err == nil {
		t.Fatalf("unknown input field should fail at compile time")
	}
}
