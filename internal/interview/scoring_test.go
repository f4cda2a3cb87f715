package interview_test

import (
	"strings"
	"testing"

	"github.com/yoockh/skillsync/internal/interview"
	"github.com/yoockh/skillsync/internal/models"
)

func TestScore_ShortAnswersScoreZero(t *testing.T) {
	for _, ans := range []string{"", "   ", "too short", "  123456789  "} {
		q := models.Question{UserAnswer: ans, ExpectedAnswer: "", TimeSpent: 10}
		if got := interview.Score(q); got != 0 {
			t.Fatalf("%q: expected 0 got %d", ans, got)
		}
	}
}

func TestScore_Rules(t *testing.T) {
	cases := []struct {
		name string
		q    models.Question
		want int
	}{
		{
			name: "base only",
			q:    models.Question{UserAnswer: "just an answer", ExpectedAnswer: "zebra"},
			want: 5,
		},
		{
			name: "keyword match",
			q:    models.Question{UserAnswer: "I use Zebra stripes", ExpectedAnswer: "ZEBRA crossing"},
			want: 7,
		},
		{
			name: "empty expected answer matches",
			q:    models.Question{UserAnswer: "something long enough"},
			want: 7,
		},
		{
			name: "quick answer bonus",
			q:    models.Question{UserAnswer: "just an answer", ExpectedAnswer: "zebra", TimeSpent: 299},
			want: 6,
		},
		{
			name: "no bonus at 300 seconds",
			q:    models.Question{UserAnswer: "just an answer", ExpectedAnswer: "zebra", TimeSpent: 300},
			want: 5,
		},
		{
			name: "length over 100",
			q:    models.Question{UserAnswer: strings.Repeat("b", 101), ExpectedAnswer: "zebra"},
			want: 6,
		},
		{
			name: "length over 200 everything",
			q:    models.Question{UserAnswer: strings.Repeat("zebra ", 40), ExpectedAnswer: "zebra", TimeSpent: 30},
			want: 10,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := interview.Score(tc.q); got != tc.want {
				t.Fatalf("expected %d got %d", tc.want, got)
			}
		})
	}
}

func TestScore_AlwaysInRange(t *testing.T) {
	answers := []string{"", "short", strings.Repeat("x", 10), strings.Repeat("word ", 100)}
	expected := []string{"", "x", "word", "nothing matches"}
	times := []int{-5, 0, 1, 299, 300, 10000}
	for _, a := range answers {
		for _, e := range expected {
			for _, ts := range times {
				got := interview.Score(models.Question{UserAnswer: a, ExpectedAnswer: e, TimeSpent: ts})
				if got < 0 || got > interview.MaxScore {
					t.Fatalf("score out of range: %d", got)
				}
			}
		}
	}
}

func TestFeedback_FollowsScore(t *testing.T) {
	if interview.Feedback(0) == interview.Feedback(5) || interview.Feedback(5) == interview.Feedback(9) {
		t.Fatalf("each score band should get its own feedback")
	}
	if interview.Feedback(8) != interview.Feedback(10) {
		t.Fatalf("8 and 10 share the top band")
	}
}
