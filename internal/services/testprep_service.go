package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/flightsim-backend/internal/observability"
	"github.com/yungbote/flightsim-backend/internal/platform/apierr"
	"github.com/yungbote/flightsim-backend/internal/platform/ctxutil"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
	"github.com/yungbote/flightsim-backend/internal/simulator/grading"
	"github.com/yungbote/flightsim-backend/internal/simulator/prompts"
	"github.com/yungbote/flightsim-backend/internal/simulator/refdata"
	"github.com/yungbote/flightsim-backend/internal/simulator/testprep"
)

type TestPrepService interface {
	GenerateTest(ctx context.Context, in GenerateTestInput) ([]testprep.Question, error)
	GradeTest(ctx context.Context, questions []testprep.Question, answers []testprep.Answer) (*grading.TestGrade, error)
	Teach(ctx context.Context, category string, concepts []string) (string, error)
	Flashcards(category string) []refdata.Flashcard
	Categories() []string
}

type GenerateTestInput struct {
	Length     int
	Categories []string
	WeakAreas  []string
	Format     testprep.QuestionFormat
}

type testPrepService struct {
	log      *logger.Logger
	catalog  *refdata.Catalog
	composer *prompts.Composer
	selector *testprep.Selector
	llm      Generator
	metrics  *observability.Metrics
}

func NewTestPrepService(
	baseLog *logger.Logger,
	catalog *refdata.Catalog,
	composer *prompts.Composer,
	selector *testprep.Selector,
	llm Generator,
	metrics *observability.Metrics,
) TestPrepService {
	if selector == nil {
		selector = testprep.NewSelector(nil)
	}
	return &testPrepService{
		log:      baseLog.With("service", "TestPrepService"),
		catalog:  catalog,
		composer: composer,
		selector: selector,
		llm:      llm,
		metrics:  metrics,
	}
}

func (s *testPrepService) GenerateTest(ctx context.Context, in GenerateTestInput) ([]testprep.Question, error) {
	cards := s.selector.Select(s.catalog.Flashcards(), testprep.SelectOptions{
		Length:     in.Length,
		Categories: in.Categories,
		WeakAreas:  in.WeakAreas,
	})
	if len(cards) == 0 {
		return nil, apierr.BadRequest(errors.New("no flashcards match the requested categories"))
	}
	if in.Format == "" {
		in.Format = testprep.FormatMixed
	}

	// The question count follows the request, not the card count: the model may
	// write several questions per card.
	p, err := s.composer.TestQuestions(cards, testprep.ClampLength(in.Length), in.Format)
	if err != nil {
		return nil, err
	}
	raw, err := s.llm.Generate(ctx, requestFor(p))
	if err != nil {
		return nil, err
	}
	qs, err := testprep.ParseQuestions(raw)
	if err != nil {
		observeParseFailure(s.metrics, err)
		s.log.Warn("test question parse failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, err
	}
	s.log.Info("test generated", append(ctxutil.LogFields(ctx), "cards", len(cards), "requested", testprep.ClampLength(in.Length), "questions", len(qs), "format", in.Format)...)
	return qs, nil
}

// GradeTest grades answers and, when every question was graded, replaces the
// model's overall score with the difficulty-weighted one.
func (s *testPrepService) GradeTest(ctx context.Context, questions []testprep.Question, answers []testprep.Answer) (*grading.TestGrade, error) {
	if len(questions) == 0 {
		return nil, apierr.BadRequest(errors.New("questions are required"))
	}
	p, err := s.composer.TestGrade(questions, answers)
	if err != nil {
		return nil, apierr.BadRequest(err)
	}
	raw, err := s.llm.Generate(ctx, requestFor(p))
	if err != nil {
		return nil, err
	}
	g, err := grading.ParseTestGrade(raw, len(questions))
	if err != nil {
		observeParseFailure(s.metrics, err)
		s.log.Warn("test grade parse failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, err
	}
	if overall, ok := testprep.WeightedOverall(questions, g.Answers); ok {
		g.OverallScore = overall
		g.OverallGrade = grading.LetterFor(overall)
	}
	s.log.Info("test graded", append(ctxutil.LogFields(ctx), "questions", len(questions), "overall", g.OverallScore)...)
	return g, nil
}

func (s *testPrepService) Teach(ctx context.Context, category string, concepts []string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" && len(concepts) == 0 {
		return "", apierr.BadRequest(errors.New("category or concepts are required"))
	}
	cards := testprep.RelevantCards(s.catalog.Flashcards(), category, concepts)
	p, err := s.composer.Teach(category, concepts, cards)
	if err != nil {
		return "", apierr.BadRequest(err)
	}
	lesson, err := s.llm.Generate(ctx, requestFor(p))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(lesson), nil
}

// Flashcards returns the deck, or only the named category when one is given.
func (s *testPrepService) Flashcards(category string) []refdata.Flashcard {
	cards := s.catalog.Flashcards()
	category = strings.TrimSpace(category)
	if category == "" {
		return cards
	}
	out := make([]refdata.Flashcard, 0, len(cards))
	for _, c := range cards {
		if strings.EqualFold(c.Category, category) {
			out = append(out, c)
		}
	}
	return out
}

func (s *testPrepService) Categories() []string {
	return s.catalog.Categories()
}
