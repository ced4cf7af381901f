package main

import (
	"fmt"
	"testing"
	"time"
)

func TestTradeLogEvictsOldest(t *testing.T) {
	l := NewTradeLog(10)
	for i := 1; i <= 12; i++ {
		l.Append(TradeLogEntry{
			Timestamp: time.Now(),
			Text:      fmt.Sprintf("entry-%d", i),
			Outcome:   OutcomeSignalOnly,
		})
	}

	if l.Len() != 10 {
		t.Fatalf("Expected 10 entries after 12 appends, got %d", l.Len())
	}

	all := l.Snapshot(0)
	if all[0].Text != "entry-3" {
		t.Errorf("Expected oldest surviving entry to be entry-3, got %s", all[0].Text)
	}
	if all[len(all)-1].Text != "entry-12" {
		t.Errorf("Expected newest entry to be entry-12, got %s", all[len(all)-1].Text)
	}

	// 相对顺序保持不变
	for i, e := range all {
		expected := fmt.Sprintf("entry-%d", i+3)
		if e.Text != expected {
			t.Errorf("Position %d: expected %s, got %s", i, expected, e.Text)
		}
	}
}

func TestTradeLogSnapshotN(t *testing.T) {
	l := NewTradeLog(10)
	for i := 1; i <= 5; i++ {
		l.Append(TradeLogEntry{Text: fmt.Sprintf("entry-%d", i)})
	}

	recent := l.Snapshot(3)
	if len(recent) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(recent))
	}
	if recent[0].Text != "entry-3" || recent[2].Text != "entry-5" {
		t.Errorf("Expected entries 3..5 oldest-first, got %v", recent)
	}

	// n 超过当前数量时返回全部
	if got := l.Snapshot(100); len(got) != 5 {
		t.Errorf("Expected all 5 entries, got %d", len(got))
	}
}

func TestTradeLogSnapshotIsCopy(t *testing.T) {
	l := NewTradeLog(10)
	l.Append(TradeLogEntry{Text: "original"})

	snap := l.Snapshot(0)
	snap[0].Text = "mutated"

	if l.Snapshot(0)[0].Text != "original" {
		t.Error("Snapshot must not share backing storage with the log")
	}
}

func TestTradeLogDefaultCapacity(t *testing.T) {
	l := NewTradeLog(0)
	for i := 0; i < defaultTradeLogCapacity+5; i++ {
		l.Append(TradeLogEntry{Text: fmt.Sprintf("e%d", i)})
	}
	if l.Len() != defaultTradeLogCapacity {
		t.Errorf("Expected default capacity %d, got %d", defaultTradeLogCapacity, l.Len())
	}
}
