package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone America/New_York", timezone: "America/New_York"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestDayOfUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	ts := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	if got := DayOf(ts, time.UTC); got != "2026-03-01" {
		t.Errorf("DayOf(UTC) = %s", got)
	}
	if got := DayOf(ts, tokyo); got != "2026-03-02" {
		t.Errorf("DayOf(Tokyo) = %s, want next day", got)
	}
}

func TestAddDaysAndDaysBetween(t *testing.T) {
	got, err := AddDays("2026-03-01", -1)
	if err != nil || got != "2026-02-28" {
		t.Errorf("AddDays = %s, %v", got, err)
	}
	got, _ = AddDays("2024-02-28", 1)
	if got != "2024-02-29" {
		t.Errorf("leap day: got %s", got)
	}

	n, err := DaysBetween("2026-01-01", "2026-01-31")
	if err != nil || n != 30 {
		t.Errorf("DaysBetween = %d, %v", n, err)
	}
	if _, err := AddDays("nope", 1); err == nil {
		t.Error("expected error for invalid day")
	}
}

func TestWindow(t *testing.T) {
	start, end, err := Window("2026-10-19", 7)
	if err != nil {
		t.Fatal(err)
	}
	if start != "2026-10-13" || end != "2026-10-19" {
		t.Errorf("Window = %s..%s", start, end)
	}

	prevStart, prevEnd, err := PreviousWindow(start, end)
	if err != nil {
		t.Fatal(err)
	}
	if prevStart != "2026-10-06" || prevEnd != "2026-10-12" {
		t.Errorf("PreviousWindow = %s..%s", prevStart, prevEnd)
	}

	if _, _, err := Window("2026-10-19", 0); err == nil {
		t.Error("expected error for empty window")
	}
}

func TestCombineDateAndTime(t *testing.T) {
	got, err := CombineDateAndTime("2026-05-04", "07:45", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 5, 4, 7, 45, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := CombineDateAndTime("2026-05-04", "7pm", time.UTC); err == nil {
		t.Error("expected error for bad time")
	}
}

func TestValidateTimeAndZone(t *testing.T) {
	if !ValidateTimeFormat("13:30") {
		t.Error("13:30 should be valid")
	}
	if ValidateTimeFormat("24:00") {
		t.Error("24:00 should be invalid")
	}
	if !ValidateTimezone("Local") || ValidateTimezone("Mars/Base") {
		t.Error("ValidateTimezone mismatch")
	}
}
