package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// Reference tables, pre-rendered as indented JSON
	ReferenceData string
	// Scenario generation
	Role         string
	RoleLabel    string
	Difficulty   string
	HintCap      int
	RealTimeData string
	// Conversation
	ScenarioJSON  string
	Transcript    string
	ChecklistJSON string
	// Test prep
	Length             int
	FormatInstructions string
	FlashcardsJSON     string
	AnsweredQuestions  string
	Category           string
	ConceptsCSV        string
}
