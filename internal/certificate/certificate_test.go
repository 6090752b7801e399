package certificate

import (
	"errors"
	"testing"
)

func TestEncode(t *testing.T) {
	if got := Encode(42); got != "ET-00000042" {
		t.Errorf("Encode(42) = %q, want %q", got, "ET-00000042")
	}
	if got := Encode(0); got != "ET-00000000" {
		t.Errorf("Encode(0) = %q, want %q", got, "ET-00000000")
	}
	if got := Encode(99999999); got != "ET-99999999" {
		t.Errorf("Encode(99999999) = %q, want %q", got, "ET-99999999")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, id := range []int64{0, 1, 7, 42, 1000, 123456, 9999999, 99999999} {
		got, err := Decode(Encode(id))
		if err != nil {
			t.Fatalf("Decode(Encode(%d)): %v", id, err)
		}
		if got != id {
			t.Errorf("Decode(Encode(%d)) = %d", id, got)
		}
	}
}

func TestDecodeInvalidFormat(t *testing.T) {
	malformed := []string{
		"",
		"ET-",
		"00000042",     // missing prefix
		"XX-00000042",  // wrong prefix
		"ET-0000004",   // too short
		"ET-000000042", // too long
		"ET-0000004b",  // non-numeric
		"ET--0000042",  // sign is not a digit
		"ET-        ",  // whitespace
	}
	for _, number := range malformed {
		if _, err := Decode(number); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Decode(%q) err = %v, want ErrInvalidFormat", number, err)
		}
	}
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "A+"},
		{95, "A+"},
		{92, "A"},
		{90, "A"},
		{85, "B+"},
		{80, "B"},
		{75, "C+"},
		{70, "C"},
		{65, "D+"},
		{60, "D"},
		{59, "F"},
		{58, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		if got := GradeFor(tt.score); got != tt.want {
			t.Errorf("GradeFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestGradeForMonotonic(t *testing.T) {
	// Higher scores never map to a lower grade.
	order := map[string]int{"F": 0, "D": 1, "D+": 2, "C": 3, "C+": 4, "B": 5, "B+": 6, "A": 7, "A+": 8}
	prev := -1
	for score := 0; score <= 100; score++ {
		rank, ok := order[GradeFor(score)]
		if !ok {
			t.Fatalf("GradeFor(%d) returned unknown grade %q", score, GradeFor(score))
		}
		if rank < prev {
			t.Fatalf("grade staircase not monotonic at score %d", score)
		}
		prev = rank
	}
}
