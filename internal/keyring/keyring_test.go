package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetPassword(t *testing.T) {
	gokeyring.MockInit()

	if err := SetPassword("jdoe", "s3cret"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}

	got, err := GetPassword("jdoe")
	if err != nil {
		t.Fatalf("GetPassword() failed: %v", err)
	}
	if got != "s3cret" {
		t.Errorf("GetPassword() = %q, want %q", got, "s3cret")
	}
}

func TestSetPasswordValidation(t *testing.T) {
	gokeyring.MockInit()

	if err := SetPassword("", "x"); err == nil {
		t.Error("SetPassword with empty user should fail")
	}
	if err := SetPassword("jdoe", ""); err == nil {
		t.Error("SetPassword with empty password should fail")
	}
}

func TestGetPasswordNotFound(t *testing.T) {
	gokeyring.MockInit()

	if _, err := GetPassword("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPassword() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := GetPassword(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPassword(\"\") error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeletePassword(t *testing.T) {
	gokeyring.MockInit()

	if err := SetPassword("jdoe", "s3cret"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if err := DeletePassword("jdoe"); err != nil {
		t.Fatalf("DeletePassword() failed: %v", err)
	}
	if err := DeletePassword("jdoe"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeletePassword() error = %v, want %v", err, ErrNotFound)
	}
}

func TestResolvePassword(t *testing.T) {
	gokeyring.MockInit()
	if err := SetPassword("jdoe", "from-keyring"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}

	if got, _ := ResolvePassword("jdoe", "from-env"); got != "from-env" {
		t.Errorf("explicit password should win, got %q", got)
	}
	if got, _ := ResolvePassword("jdoe", ""); got != "from-keyring" {
		t.Errorf("expected keyring fallback, got %q", got)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring should be available")
	}
}
