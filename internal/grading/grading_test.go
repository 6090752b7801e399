package grading

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aeroprep/aeroprep-backend/internal/model"
)

func mcq(id int64, correct string) model.Question {
	return model.Question{
		ID:            id,
		QuestionText:  "question",
		Options:       []string{"opt a", "opt b", "opt c", "opt d"},
		CorrectAnswer: correct,
		Category:      model.CategoryPilot,
		QuestionType:  model.QuestionTypeMath,
		Difficulty:    model.DifficultyEasy,
	}
}

func TestGradeConcreteScenario(t *testing.T) {
	// Q1 correct "B" answered "B", Q2 correct "A" answered "C", Q3 unanswered.
	questions := []model.Question{mcq(1, "B"), mcq(2, "A"), mcq(3, "D")}
	answers := map[int64]string{1: "B", 2: "C"}

	res, err := Grade(answers, questions)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}

	if res.Score.Correct != 1 || res.Score.Total != 2 || res.Score.Percentage != 50 {
		t.Errorf("score = %+v, want {correct:1 total:2 percentage:50}", res.Score)
	}
	if len(res.Questions) != 2 {
		t.Fatalf("got %d question results, want 2", len(res.Questions))
	}
	if !res.Questions[0].IsCorrect {
		t.Errorf("Q1 should be correct")
	}
	if res.Questions[1].IsCorrect {
		t.Errorf("Q2 should be incorrect")
	}
	for _, qr := range res.Questions {
		if qr.QuestionID == 3 {
			t.Errorf("unanswered Q3 must not appear in results")
		}
	}
}

func TestGradeDeterminism(t *testing.T) {
	questions := []model.Question{mcq(1, "A"), mcq(2, "B"), mcq(3, "C"), mcq(4, "D")}
	answers := map[int64]string{1: "A", 2: "C", 4: "D"}

	first, err := Grade(answers, questions)
	if err != nil {
		t.Fatalf("first Grade: %v", err)
	}
	second, err := Grade(answers, questions)
	if err != nil {
		t.Fatalf("second Grade: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("grading is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestGradeSkipsUnknownQuestionIDs(t *testing.T) {
	questions := []model.Question{mcq(1, "A")}
	answers := map[int64]string{1: "A", 999: "B"}

	res, err := Grade(answers, questions)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Score.Total != 1 {
		t.Errorf("total = %d, want 1 (unknown id must be skipped)", res.Score.Total)
	}
	if res.Score.Percentage != 100 {
		t.Errorf("percentage = %d, want 100", res.Score.Percentage)
	}
}

func TestGradeNoAnswers(t *testing.T) {
	questions := []model.Question{mcq(1, "A"), mcq(2, "B")}

	for name, answers := range map[string]map[int64]string{
		"empty map":        {},
		"only unknown ids": {42: "A", 43: "B"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Grade(answers, questions)
			if !errors.Is(err, ErrNoAnswers) {
				t.Errorf("err = %v, want ErrNoAnswers", err)
			}
		})
	}
}

func TestGradeExactEquality(t *testing.T) {
	// No case folding or normalization: "b" does not match "B".
	questions := []model.Question{mcq(1, "B")}
	res, err := Grade(map[int64]string{1: "b"}, questions)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Questions[0].IsCorrect {
		t.Errorf(`"b" must not match correct answer "B"`)
	}
}

func TestGradePercentageRounding(t *testing.T) {
	tests := []struct {
		correct, total int
		want           int
	}{
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{0, 7, 0},
		{7, 7, 100},
		{1, 8, 13}, // 12.5 rounds half-up
	}

	for _, tt := range tests {
		questions := make([]model.Question, tt.total)
		answers := make(map[int64]string, tt.total)
		for i := 0; i < tt.total; i++ {
			id := int64(i + 1)
			questions[i] = mcq(id, "A")
			if i < tt.correct {
				answers[id] = "A"
			} else {
				answers[id] = "B"
			}
		}

		res, err := Grade(answers, questions)
		if err != nil {
			t.Fatalf("Grade(%d/%d): %v", tt.correct, tt.total, err)
		}
		if res.Score.Percentage != tt.want {
			t.Errorf("%d/%d: percentage = %d, want %d", tt.correct, tt.total, res.Score.Percentage, tt.want)
		}
		if res.Score.Percentage < 0 || res.Score.Percentage > 100 {
			t.Errorf("%d/%d: percentage %d out of bounds", tt.correct, tt.total, res.Score.Percentage)
		}
	}
}
