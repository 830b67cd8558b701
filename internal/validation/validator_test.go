package validation

import (
	"testing"
	"time"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"valid lowercase", "appetizer", "appetizer", true},
		{"valid mixed case", "Appetizer", "appetizer", true},
		{"valid with spaces", "  DESSERT  ", "dessert", true},
		{"hyphenated value", "bread-bakes", "bread-bakes", true},
		{"numeric garbage", "4", "", false},
		{"empty", "", "", false},
		{"plural not in set", "Appetizers", "", false},
		{"unknown value", "brunch", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Category(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Category(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"easy", "Easy"},
		{"EASY", "Easy"},
		{"Medium", "Medium"},
		{"hard", "Hard"},
		{"", "Medium"},
		{"expert", "Medium"},
		{"  medium  ", "Medium"},
	}

	for _, tt := range tests {
		if got := Difficulty(tt.input); got != tt.want {
			t.Errorf("Difficulty(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRatingClamp(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{0.2, 1.0},
		{9.9, 5.0},
		{3.7, 3.7},
		{1.0, 1.0},
		{5.0, 5.0},
		{-2.5, 1.0},
	}

	for _, tt := range tests {
		if got := Rating(tt.input); got != tt.want {
			t.Errorf("Rating(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"3.7", 3.7},
		{"9.9", 5.0},
		{"0.2", 1.0},
		{"", 1.0},
		{"not-a-number", 1.0},
		{" 4.5 ", 4.5},
	}

	for _, tt := range tests {
		if got := ParseRating(tt.input); got != tt.want {
			t.Errorf("ParseRating(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"published", "published"},
		{"Draft", "draft"},
		{"ARCHIVED", "archived"},
		{"", "published"},
		{"pending", "published"},
	}

	for _, tt := range tests {
		if got := Status(tt.input); got != tt.want {
			t.Errorf("Status(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFeatured(t *testing.T) {
	truthy := []string{"1", "yes", "YES", "true", "True", "on", " on "}
	falsy := []string{"", "0", "no", "false", "off", "2", "enabled"}

	for _, v := range truthy {
		if !Featured(v) {
			t.Errorf("Featured(%q) = false, want true", v)
		}
	}
	for _, v := range falsy {
		if Featured(v) {
			t.Errorf("Featured(%q) = true, want false", v)
		}
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2024-03-10T12:30:00Z", time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)},
		{"sql datetime", "2024-03-10 12:30:00", time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)},
		{"date only", "2024-03-10", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"us date", "03/10/2024", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Timestamp(tt.input); !got.Equal(tt.want) {
				t.Errorf("Timestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimestampFallsBackToNow(t *testing.T) {
	for _, input := range []string{"", "not a date", "99/99/9999"} {
		before := time.Now()
		got := Timestamp(input)
		after := time.Now()
		if got.Before(before) || got.After(after) {
			t.Errorf("Timestamp(%q) = %v, want a value between %v and %v", input, got, before, after)
		}
	}
}

func TestPositiveInt(t *testing.T) {
	tests := []struct {
		input string
		def   int
		min   int
		want  int
	}{
		{"10", 0, 0, 10},
		{"-5", 0, 0, 0},
		{"", 7, 0, 7},
		{"abc", 7, 0, 7},
		{"0", 4, 1, 1},
	}

	for _, tt := range tests {
		if got := PositiveInt(tt.input, tt.def, tt.min); got != tt.want {
			t.Errorf("PositiveInt(%q, %d, %d) = %d, want %d", tt.input, tt.def, tt.min, got, tt.want)
		}
	}
}

func TestServings(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"6", 6},
		{"0", 1},
		{"-3", 1},
		{"", 4},
		{"lots", 4},
	}

	for _, tt := range tests {
		if got := Servings(tt.input); got != tt.want {
			t.Errorf("Servings(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
