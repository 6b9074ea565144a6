package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "plain day", input: "2024-03-09", want: Date{2024, time.March, 9}},
		{name: "leap day", input: "2024-02-29", want: Date{2024, time.February, 29}},
		{name: "not a leap year", input: "2023-02-29", wantErr: true},
		{name: "time component", input: "2024-03-09T10:00:00Z", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	t.Run("add days crosses month and year", func(t *testing.T) {
		d := MustParseDate("2023-12-30")
		if got := d.AddDays(3).String(); got != "2024-01-02" {
			t.Errorf("expected 2024-01-02, got %s", got)
		}
		if got := d.AddDays(-30).String(); got != "2023-11-30" {
			t.Errorf("expected 2023-11-30, got %s", got)
		}
	})

	t.Run("dst change does not skip or repeat days", func(t *testing.T) {
		// 2024-03-10 is the US spring-forward day
		d := MustParseDate("2024-03-09")
		seen := map[Date]bool{}
		for i := 0; i < 3; i++ {
			seen[d.AddDays(i)] = true
		}
		if len(seen) != 3 {
			t.Errorf("expected 3 distinct days, got %d", len(seen))
		}
	})

	t.Run("ordering", func(t *testing.T) {
		a, b := MustParseDate("2024-01-01"), MustParseDate("2024-01-02")
		if !a.Before(b) || b.Before(a) || !b.After(a) {
			t.Error("expected 2024-01-01 before 2024-01-02")
		}
	})
}

func TestStartOfWeek(t *testing.T) {
	// 2024-06-12 is a Wednesday
	wed := MustParseDate("2024-06-12")

	tests := []struct {
		weekStart time.Weekday
		want      string
	}{
		{time.Sunday, "2024-06-09"},
		{time.Monday, "2024-06-10"},
		{time.Wednesday, "2024-06-12"},
		{time.Thursday, "2024-06-06"},
	}
	for _, tt := range tests {
		t.Run(tt.weekStart.String(), func(t *testing.T) {
			if got := wed.StartOfWeek(tt.weekStart).String(); got != tt.want {
				t.Errorf("StartOfWeek(%s) = %s, want %s", tt.weekStart, got, tt.want)
			}
		})
	}
}

func TestDateAsJSONKey(t *testing.T) {
	in := map[Date]bool{MustParseDate("2024-06-12"): true}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"2024-06-12":true}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var out map[Date]bool
	if err := json.Unmarshal([]byte(`{"2024-06-12":true,"2024-06-13":false}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out[MustParseDate("2024-06-12")] || len(out) != 2 {
		t.Errorf("unexpected map: %v", out)
	}

	if err := json.Unmarshal([]byte(`{"June 12":true}`), &out); err == nil {
		t.Error("expected error for malformed date key")
	}
}
