package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		on   Date
		want string
	}{
		{New(2024, 1, 10), "10/01/2024"},
		{New(2024, 12, 31), "31/12/2024"},
		{New(2024, 2, 30), "01/03/2024"}, // normalized
	}
	for _, tt := range tests {
		if got := tt.on.Label(); got != tt.want {
			t.Errorf("%v.Label() = %q, want %q", tt.on, got, tt.want)
		}
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		label   string
		want    Date
		wantErr bool
	}{
		{"10/01/2024", New(2024, 1, 10), false},
		{"1/2/2024", New(2024, 2, 1), false},
		{"2024-01-10", Date{}, true},
		{"", Date{}, true},
		{"Quantidade", Date{}, true},
	}
	for _, tt := range tests {
		got, err := ParseLabel(tt.label)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLabel(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLabel(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2024-01-10 23:59:59")
	if err != nil {
		t.Fatalf("ParseTimestamp() error = %v", err)
	}
	if day := Of(got); day != New(2024, 1, 10) {
		t.Errorf("Of(ParseTimestamp()) = %v, want 2024-01-10", day)
	}
	if got.Hour() != 23 || got.Minute() != 59 {
		t.Errorf("ParseTimestamp() = %v, lost the time of day", got)
	}

	if _, err := ParseTimestamp("2024-01-10"); err != nil {
		t.Errorf("ParseTimestamp(bare date) error = %v", err)
	}
	if _, err := ParseTimestamp("10/01/2024 12:00"); err == nil {
		t.Errorf("ParseTimestamp(invalid) expected an error")
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2024, 1, 10), New(2024, 1, 11)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare is not consistent for %v and %v", a, b)
	}
	if !Of(time.Date(2024, 1, 10, 22, 0, 0, 0, time.UTC)).Add(1).After(a) {
		t.Errorf("Add(1) should be after the original day")
	}
}
