package pin

import (
	"errors"
	"testing"
)

func TestHash(t *testing.T) {
	// sha256("1234")
	want := "03ac674216f3e15c761ee1a5e255f067953623c8b388b4459e13f978d7c846f4"
	if got := Hash("1234"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestVerify(t *testing.T) {
	stored := Hash("2468")
	if !Verify("2468", stored) {
		t.Errorf("expected correct pin to verify")
	}
	if Verify("1357", stored) {
		t.Errorf("expected wrong pin to fail")
	}
	if Verify("", "") {
		t.Errorf("empty stored hash must never verify")
	}
}

func TestConfirm(t *testing.T) {
	if _, err := Confirm("", ""); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if _, err := Confirm("1111", "1112"); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
	h, err := Confirm("1111", "1111")
	if err != nil || h != Hash("1111") {
		t.Errorf("unexpected result %q, %v", h, err)
	}
}
