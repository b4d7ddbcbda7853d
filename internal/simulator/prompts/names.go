package prompts

type PromptName string

const (
	// Scenario flight
	PromptScenarioGenerate PromptName = "scenario_generate"
	PromptScenarioRespond  PromptName = "scenario_respond"
	PromptScenarioGrade    PromptName = "scenario_grade"

	// Test prep
	PromptTestQuestions PromptName = "test_questions"
	PromptTestGrade     PromptName = "test_grade"
	PromptTeach         PromptName = "teach"
)
