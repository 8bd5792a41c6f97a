package cache

import (
	"testing"
	"time"
)

func TestSlotEmptyByDefault(t *testing.T) {
	slot := NewSlot(time.Minute)

	if _, ok := slot.Get(); ok {
		t.Error("empty slot reported a hit")
	}
}

func TestSlotSetAndGet(t *testing.T) {
	slot := NewSlot(time.Minute)
	slot.Set("payload")

	value, ok := slot.Get()
	if !ok {
		t.Fatal("slot miss right after Set")
	}
	if value.(string) != "payload" {
		t.Errorf("value = %v, expected payload", value)
	}
}

func TestSlotExpires(t *testing.T) {
	slot := NewSlot(20 * time.Millisecond)
	slot.Set("payload")

	time.Sleep(40 * time.Millisecond)

	if _, ok := slot.Get(); ok {
		t.Error("slot still serving after TTL elapsed")
	}
}

func TestSlotSetRestartsTTL(t *testing.T) {
	slot := NewSlot(50 * time.Millisecond)
	slot.Set("first")

	time.Sleep(30 * time.Millisecond)
	slot.Set("second")
	time.Sleep(30 * time.Millisecond)

	// 60ms after the first Set but only 30ms after the second.
	value, ok := slot.Get()
	if !ok {
		t.Fatal("slot expired although the TTL was restarted")
	}
	if value.(string) != "second" {
		t.Errorf("value = %v, expected second", value)
	}
}

func TestSlotInvalidate(t *testing.T) {
	slot := NewSlot(time.Minute)
	slot.Set("payload")
	slot.Invalidate()

	if _, ok := slot.Get(); ok {
		t.Error("slot served a value after Invalidate")
	}
}
