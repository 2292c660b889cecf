package timeutil

import (
	"testing"
	"time"
)

func TestParseSlot(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"10:00", 600, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"10:60", 0, true},
		{"1000", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseSlot(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseSlot(%q): esperado erro, veio %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSlot(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseSlot(%q) = %d, esperado %d", c.in, got, c.want)
		}
	}
}

func TestMinuteOfDayRespectsLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	// 12:30 UTC == 09:30 BRT
	utc := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	if got := MinuteOfDay(utc, loc); got != 9*60+30 {
		t.Fatalf("MinuteOfDay = %d, esperado %d", got, 9*60+30)
	}
}

func TestAtMinuteOfDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	ref := time.Date(2025, 3, 10, 18, 45, 12, 0, loc)
	got := AtMinuteOfDay(ref, 600, loc) // 10:00
	want := time.Date(2025, 3, 10, 10, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("AtMinuteOfDay = %v, esperado %v", got, want)
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := DaysSince(now.AddDate(0, 0, -8), now); got != 8 {
		t.Fatalf("DaysSince = %v, esperado 8", got)
	}
	if got := DaysSince(now.Add(12*time.Hour), now); got != -0.5 {
		t.Fatalf("DaysSince futuro = %v, esperado -0.5", got)
	}
}
