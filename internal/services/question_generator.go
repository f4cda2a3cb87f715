package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillsync/internal/interview"
	"github.com/yoockh/skillsync/internal/models"
	"github.com/yoockh/skillsync/internal/providers/llm"
)

const (
	aiSourceProvider = "provider"
	aiSourceFallback = "fallback"
)

type GenerateRequest struct {
	JobRole    string
	Skills     []string
	Difficulty models.Difficulty
	Count      int
}

type QuestionGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) []models.Question
}

type questionGenerator struct {
	provider llm.Provider // nil means fallback only
	parser   interview.QuestionParser
	timeout  time.Duration
	logger   *logrus.Logger
}

func NewQuestionGenerator(provider llm.Provider, parser interview.QuestionParser, timeout time.Duration, logger *logrus.Logger) QuestionGenerator {
	if parser == nil {
		parser = interview.NewLineParser()
	}
	return &questionGenerator{provider: provider, parser: parser, timeout: timeout, logger: logger}
}

// Generate never fails: provider problems are logged and replaced by the
// built-in question set.
func (g *questionGenerator) Generate(ctx context.Context, req GenerateRequest) []models.Question {
	opts := interview.ParseOptions{Difficulty: req.Difficulty, Count: req.Count}
	log := g.logger.WithFields(logrus.Fields{
		"job_role": req.JobRole,
		"count":    req.Count,
	})

	if g.provider != nil {
		text, err := g.ask(ctx, req)
		if err == nil {
			if qs := g.parser.Parse(text, opts); len(qs) > 0 {
				log.WithFields(logrus.Fields{"ai_source": aiSourceProvider, "provider": g.provider.Name()}).
					Debug("questions generated")
				return qs
			}
			err = fmt.Errorf("no questions in %d bytes of provider output", len(text))
		}
		log.WithError(err).WithFields(logrus.Fields{"ai_source": aiSourceFallback, "provider": g.provider.Name()}).
			Warn("question provider unavailable, using fallback")
	} else {
		log.WithField("ai_source", aiSourceFallback).Debug("no question provider configured")
	}

	return g.parser.Parse(FallbackQuestions(req.JobRole, req.Skills), opts)
}

func (g *questionGenerator) ask(ctx context.Context, req GenerateRequest) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.provider.Generate(ctx, buildPrompt(req))
}

func buildPrompt(req GenerateRequest) string {
	count := req.Count
	if count <= 0 {
		count = 10
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d interview questions for a %s candidate", count, req.JobRole)
	if len(req.Skills) > 0 {
		fmt.Fprintf(&b, " with skills in %s", strings.Join(req.Skills, ", "))
	}
	fmt.Fprintf(&b, ". Difficulty: %s.\n", req.Difficulty)
	b.WriteString("Mix technical and behavioral questions. Number each question (\"1.\", \"2.\", ...) ")
	b.WriteString("and put a one-line model answer starting with \"Answer:\" on the line after it.")
	return b.String()
}

// FallbackQuestions is the deterministic question set used when no provider
// output is available.
func FallbackQuestions(jobRole string, skills []string) string {
	skill := func(i int, def string) string {
		if i < len(skills) && strings.TrimSpace(skills[i]) != "" {
			return skills[i]
		}
		return def
	}
	if strings.TrimSpace(jobRole) == "" {
		jobRole = "this role"
	}

	lines := []string{
		"1. Describe a project where you applied " + skill(0, "your core technology") + " and the system design choices you made.",
		"Answer: Explain the problem, the architecture, the trade-offs and the measurable outcome.",
		"2. How do you debug a production issue in code you did not write?",
		"Answer: Reproduce it, read logs and metrics, narrow the scope, fix with a test and document the cause.",
		"3. What challenge did you face working with " + skill(1, "a new tool") + " and how did you overcome it?",
		"Answer: Describe the situation, what you tried, what worked and what you learned.",
		"4. How would you design a database schema for a feature with heavy reads?",
		"Answer: Model the access patterns first, index for the hot queries and consider caching.",
		"5. Tell me about a time you disagreed with a team member. How was the conflict resolved?",
		"Answer: Use the STAR method and focus on listening, shared goals and the result.",
		"6. Describe an experience where you had to learn something quickly under pressure.",
		"Answer: Show how you broke the topic down, found resources and delivered.",
		"7. Give an example of a leadership moment, even without a formal title.",
		"Answer: Describe how you aligned people, made a decision and followed through.",
		"8. Walk me through how you review code written by a teammate.",
		"Answer: Check correctness, readability and tests, and keep comments specific and kind.",
		"9. Why do you want to work as a " + jobRole + "?",
		"Answer: Connect your motivation and past work to what the role needs.",
		"10. Where do you see yourself in five years?",
		"Answer: Show a growth path that fits the position and the company.",
	}
	return strings.Join(lines, "\n")
}
