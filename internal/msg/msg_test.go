package msg

import (
	"errors"
	"testing"
)

func TestToast(t *testing.T) {
	got := Toast("Saved", LongToast)().(ToastMsg)
	if got.Message != "Saved" || got.Duration != LongToast || got.IsError {
		t.Errorf("Toast = %+v", got)
	}
}

func TestFailed(t *testing.T) {
	got := Failed("Copy", errors.New("no clipboard"))().(ToastMsg)
	if got.Message != "Copy failed: no clipboard" {
		t.Errorf("Message = %q", got.Message)
	}
	if !got.IsError || got.Duration != ShortToast {
		t.Errorf("Failed = %+v", got)
	}
}
