package model

import "testing"

func TestValidateAnswerKey(t *testing.T) {
	q := Question{
		Options:       []string{"North", "South", "East"},
		CorrectAnswer: "B",
	}
	if err := q.ValidateAnswerKey(); err != nil {
		t.Errorf("letter key within range rejected: %v", err)
	}

	q.CorrectAnswer = "South" // literal option text also accepted
	if err := q.ValidateAnswerKey(); err != nil {
		t.Errorf("literal option rejected: %v", err)
	}

	q.CorrectAnswer = "D" // only three options
	if err := q.ValidateAnswerKey(); err != ErrAnswerKeyMismatch {
		t.Errorf("out-of-range key: err = %v, want ErrAnswerKeyMismatch", err)
	}

	q.CorrectAnswer = "West"
	if err := q.ValidateAnswerKey(); err != ErrAnswerKeyMismatch {
		t.Errorf("unknown literal: err = %v, want ErrAnswerKeyMismatch", err)
	}
}

func TestOptionKey(t *testing.T) {
	for i, want := range []string{"A", "B", "C", "D"} {
		if got := OptionKey(i); got != want {
			t.Errorf("OptionKey(%d) = %q, want %q", i, got, want)
		}
	}
	if got := OptionKey(4); got != "" {
		t.Errorf("OptionKey(4) = %q, want empty", got)
	}
	if got := OptionKey(-1); got != "" {
		t.Errorf("OptionKey(-1) = %q, want empty", got)
	}
}

func TestEnumValidators(t *testing.T) {
	for _, c := range []string{"pilot", "hostess", "amt"} {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false", c)
		}
	}
	if ValidCategory("navigator") {
		t.Error("unknown category accepted")
	}
	if !ValidQuestionType("mechanical") || ValidQuestionType("logic") {
		t.Error("question type validation wrong")
	}
	if !ValidDifficulty("hard") || ValidDifficulty("extreme") {
		t.Error("difficulty validation wrong")
	}
}
