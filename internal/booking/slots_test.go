package booking

import (
	"reflect"
	"testing"
)

func TestFreeSlots_FullWindow(t *testing.T) {
	got, err := FreeSlots("09:00", "11:00", 30, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeSlots = %v, want %v", got, want)
	}
}

func TestFreeSlots_RemovesOccupied(t *testing.T) {
	got, err := FreeSlots("09:00", "11:00", 30, []string{"09:30", "10:30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"09:00", "10:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeSlots = %v, want %v", got, want)
	}
}

func TestFreeSlots_NoTrailingPartialSlot(t *testing.T) {
	// 09:00-10:45 with 30 minute slots: 10:30 would run past the window end.
	got, err := FreeSlots("09:00", "10:45", 30, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"09:00", "09:30", "10:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeSlots = %v, want %v", got, want)
	}
}

func TestFreeSlots_ExactFit(t *testing.T) {
	got, err := FreeSlots("09:00", "10:00", 60, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"09:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeSlots = %v, want %v", got, want)
	}
}

func TestFreeSlots_SlotLongerThanWindow(t *testing.T) {
	got, err := FreeSlots("09:00", "09:30", 45, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FreeSlots = %v, want empty", got)
	}
	if got == nil {
		t.Error("FreeSlots returned nil, want empty non-nil slice")
	}
}

func TestFreeSlots_FullyBooked(t *testing.T) {
	got, err := FreeSlots("09:00", "10:00", 30, []string{"09:00", "09:30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FreeSlots = %v, want empty", got)
	}
	if got == nil {
		t.Error("FreeSlots returned nil, want empty non-nil slice")
	}
}

// An occupied time that is not on the slot grid removes nothing. The
// comparison is an exact start-time match, not an interval-overlap test.
func TestFreeSlots_OffGridOccupiedIgnored(t *testing.T) {
	got, err := FreeSlots("09:00", "10:30", 30, []string{"09:15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"09:00", "09:30", "10:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeSlots = %v, want %v", got, want)
	}
}

func TestFreeSlots_OccupiedSeconds(t *testing.T) {
	// "09:30:00" is not the slot string "09:30"; callers normalize to HH:MM
	// before handing times in, so the raw value matches nothing.
	got, err := FreeSlots("09:00", "10:00", 30, []string{"09:30:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"09:00", "09:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeSlots = %v, want %v", got, want)
	}
}

func TestFreeSlots_Deterministic(t *testing.T) {
	occupied := []string{"13:00", "14:20", "15:40"}
	first, err := FreeSlots("12:00", "18:00", 20, occupied)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := FreeSlots("12:00", "18:00", 20, occupied)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed: %v vs %v", i, first, again)
		}
	}
}

func TestFreeSlots_Errors(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		minutes int
	}{
		{"zero duration", "09:00", "10:00", 0},
		{"negative duration", "09:00", "10:00", -15},
		{"bad start", "9am", "10:00", 30},
		{"bad end", "09:00", "banana", 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FreeSlots(tt.start, tt.end, tt.minutes, nil); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
