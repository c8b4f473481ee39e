package counsellor

import (
	"reflect"
	"testing"
)

func TestNormalizeNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  interface{}
	}{
		{name: "plain number string", input: "3.8", want: 3.8},
		{name: "k suffix", input: "85k", want: 85000.0},
		{name: "k suffix small", input: "50k", want: 50000.0},
		{name: "k suffix zero", input: "0k", want: 0.0},
		{name: "already float", input: 42000.0, want: 42000.0},
		{name: "int input", input: 7, want: 7.0},
		{name: "whitespace trimmed", input: "  85k ", want: 85000.0},
		{name: "non-numeric kept verbatim", input: "around forty thousand", want: "around forty thousand"},
		{name: "bare k kept verbatim", input: "k", want: "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeNumeric(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeNumeric(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  []string
	}{
		{name: "comma separated", input: "USA, UK,Canada", want: []string{"USA", "UK", "Canada"}},
		{name: "single element", input: "Germany", want: []string{"Germany"}},
		{name: "empty elements dropped", input: "USA,, UK,", want: []string{"USA", "UK"}},
		{name: "interface slice", input: []interface{}{"USA", " UK "}, want: []string{"USA", "UK"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeList(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeList(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "In Progress", want: "in-progress"},
		{input: "COMPLETED", want: "completed"},
		{input: "  not started  ", want: "not-started"},
		{input: "not_started", want: "not-started"},
		{input: "Ready", want: "ready"},
		{input: "Draft", want: "draft"},
		// Unknown statuses pass through untouched.
		{input: "pending", want: "pending"},
		{input: "Waiting On Parents", want: "Waiting On Parents"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeStatus(tt.input); got != tt.want {
				t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeProfileValue(t *testing.T) {
	got := NormalizeProfileValue("budget_range_max", "85k")
	if got != 85000.0 {
		t.Errorf("budget_range_max = %v, want 85000", got)
	}

	countries := NormalizeProfileValue("preferred_countries", "USA, Canada")
	if !reflect.DeepEqual(countries, []string{"USA", "Canada"}) {
		t.Errorf("preferred_countries = %v", countries)
	}

	// GPA is stored as given even when a scale rides along.
	if got := NormalizeProfileValue("gpa", "8.6"); got != 8.6 {
		t.Errorf("gpa = %v, want 8.6", got)
	}
	if got := NormalizeProfileValue("gpa_scale", "10"); got != 10.0 {
		t.Errorf("gpa_scale = %v, want 10", got)
	}

	if got := NormalizeProfileValue("intended_degree", " Master's "); got != "Master's" {
		t.Errorf("intended_degree = %v", got)
	}
}
