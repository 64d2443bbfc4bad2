package keypad

import (
	"errors"
	"testing"
)

func pushAll(n *NumberEntry, keys string) (int, bool, error) {
	var (
		v    int
		done bool
		err  error
	)
	for _, k := range keys {
		v, done, err = n.Push(k)
		if done || err != nil {
			return v, done, err
		}
	}
	return v, done, err
}

func TestNumberEntryAccepts(t *testing.T) {
	n := NewNumberEntry(1, 12)
	v, done, err := pushAll(n, "12E")
	if err != nil || !done || v != 12 {
		t.Errorf("got v=%d done=%v err=%v, want 12", v, done, err)
	}
}

func TestNumberEntryRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		keys string
		min  int
		max  int
	}{
		{"13E", 1, 12},
		{"0E", 1, 12},
		{"60E", 0, 59},
		{"E", 0, 59}, // empty entry
	}
	for _, tt := range tests {
		n := NewNumberEntry(tt.min, tt.max)
		_, done, err := pushAll(n, tt.keys)
		if done {
			t.Errorf("%q: accepted out-of-range value", tt.keys)
		}
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%q: expected ErrOutOfRange, got %v", tt.keys, err)
		}
		if n.Text() != "" {
			t.Errorf("%q: accumulator not cleared: %q", tt.keys, n.Text())
		}
	}
}

func TestNumberEntryRetryAfterReject(t *testing.T) {
	n := NewNumberEntry(0, 59)
	if _, _, err := pushAll(n, "75E"); err == nil {
		t.Fatal("expected rejection")
	}
	v, done, err := pushAll(n, "45E")
	if err != nil || !done || v != 45 {
		t.Errorf("retry: got v=%d done=%v err=%v", v, done, err)
	}
}

func TestNumberEntryCapsDigits(t *testing.T) {
	n := NewNumberEntry(0, 99999)
	pushAll(n, "1234567")
	if n.Text() != "12345" {
		t.Errorf("Text: got %q, want 12345", n.Text())
	}
	v, done, err := n.Push(KeyConfirm)
	if err != nil || !done || v != 12345 {
		t.Errorf("got v=%d done=%v err=%v", v, done, err)
	}
}

func TestNumberEntryIgnoresLetters(t *testing.T) {
	n := NewNumberEntry(0, 99)
	pushAll(n, "4AB2CDF")
	if n.Text() != "42" {
		t.Errorf("Text: got %q, want 42", n.Text())
	}
}
