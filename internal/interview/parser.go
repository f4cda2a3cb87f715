package interview

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/yoockh/skillsync/internal/models"
)

// QuestionParser turns raw provider output into structured questions.
type QuestionParser interface {
	Parse(text string, opts ParseOptions) []models.Question
}

type ParseOptions struct {
	Difficulty models.Difficulty
	Count      int
}

var (
	numberedLine  = regexp.MustCompile(`^\d+\.`)
	numberedStrip = regexp.MustCompile(`^\d+\.\s*`)

	technicalWords  = []string{"code", "algorithm", "system", "database", "programming", "technical", "architecture"}
	behavioralWords = []string{"team", "conflict", "leadership", "challenge", "experience", "situation"}
)

const variationPrefix = "Variation: "

// LineParser reads free text line by line. Intn picks padding entries and
// defaults to math/rand; tests replace it to pin the output.
type LineParser struct {
	Intn  func(n int) int
	NewID func() string
}

func NewLineParser() *LineParser {
	return &LineParser{Intn: rand.IntN, NewID: uuid.NewString}
}

func (p *LineParser) Parse(text string, opts ParseOptions) []models.Question {
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	var (
		out     []models.Question
		current *models.Question
	)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lower := strings.ToLower(line)

		if numberedLine.MatchString(line) || strings.Contains(lower, "question") {
			if current != nil {
				out = append(out, *current)
			}
			current = &models.Question{
				ID:         p.newID(),
				Question:   strings.TrimSpace(numberedStrip.ReplaceAllString(line, "")),
				Type:       DetermineType(line),
				Difficulty: difficulty,
				KeyPoints:  []string{},
			}
			continue
		}

		if current != nil && (strings.Contains(lower, "answer") || strings.Contains(lower, "key points")) {
			current.ExpectedAnswer = line
		}
	}
	if current != nil {
		out = append(out, *current)
	}

	// Padding duplicates existing entries; the pool grows as it pads.
	for len(out) < opts.Count && len(out) > 0 {
		base := out[p.intn(len(out))]
		text := out[p.intn(len(out))].Question
		base.ID = p.newID()
		base.Question = variationPrefix + text
		base.KeyPoints = append([]string{}, base.KeyPoints...)
		out = append(out, base)
	}

	if opts.Count >= 0 && len(out) > opts.Count {
		out = out[:opts.Count]
	}
	return out
}

func (p *LineParser) intn(n int) int {
	if p.Intn == nil {
		return rand.IntN(n)
	}
	return p.Intn(n)
}

func (p *LineParser) newID() string {
	if p.NewID == nil {
		return uuid.NewString()
	}
	return p.NewID()
}

// DetermineType classifies a question line by keyword.
func DetermineType(line string) models.QuestionType {
	lower := strings.ToLower(line)
	if containsAny(lower, technicalWords) {
		return models.QuestionTechnical
	}
	if containsAny(lower, behavioralWords) {
		return models.QuestionBehavioral
	}
	return models.QuestionSituational
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
