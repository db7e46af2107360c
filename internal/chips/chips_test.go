package chips

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		amount Amount
		want   string
	}{
		{0, "$0.00"},
		{1, "$0.01"},
		{1001, "$10.01"},
		{123456, "$1234.56"},
		{-50, "-$0.50"},
	}
	for _, tt := range tests {
		if got := tt.amount.String(); got != tt.want {
			t.Errorf("Amount(%d).String() = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFromDollars(t *testing.T) {
	tests := []struct {
		dollars float64
		want    Amount
	}{
		{10.01, 1001},
		{0.1, 10},
		{20, 2000},
		{0.25, 25},
	}
	for _, tt := range tests {
		if got := FromDollars(tt.dollars); got != tt.want {
			t.Errorf("FromDollars(%v) = %d, want %d", tt.dollars, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"$12.34", 1234, false},
		{"12", 1200, false},
		{"0.5", 50, false},
		{".25", 25, false},
		{"-$1.00", -100, false},
		{"12.345", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(5, 3); got != 3 {
		t.Errorf("Min(5, 3) = %d", got)
	}
	if got := Max(5, 3); got != 5 {
		t.Errorf("Max(5, 3) = %d", got)
	}
}
