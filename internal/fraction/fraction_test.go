package fraction

import (
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		want   float64
		wantOK bool
	}{
		{"rational", "3/4", 0.75, true},
		{"integer", "5", 5.0, true},
		{"decimal", "12.5", 12.5, true},
		{"negative", "-2", -2, true},
		{"negative rational", "-7/2", -3.5, true},
		{"padded", "  42 ", 42, true},
		{"padded rational", " 1 / 4 ", 0.25, true},
		{"text", "abc", 0, false},
		{"zero denominator", "4/0", 0, false},
		{"zero over zero", "0/0", 0, false},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
		{"two slashes", "1/2/3", 0, false},
		{"missing numerator", "/3", 0, false},
		{"missing denominator", "3/", 0, false},
		{"infinity", "Inf", 0, false},
		{"nan", "NaN", 0, false},
		{"trailing text", "12abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestMustParse(t *testing.T) {
	if got := MustParse("9/3"); got != 3 {
		t.Errorf("MustParse(9/3) = %v, want 3", got)
	}
	if got := MustParse("x"); !math.IsNaN(got) {
		t.Errorf("MustParse(x) = %v, want NaN", got)
	}
}
