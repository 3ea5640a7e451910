package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "geomet.items",
		Kind: KindRequest,
		Err:  fmt.Errorf("fetching page: %w", root),
	}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}

	var got *OpError
	if !errors.As(err, &got) {
		t.Fatalf("expected errors.As to match OpError")
	}
	if got.Kind != KindRequest {
		t.Fatalf("expected kind %s", KindRequest)
	}
}

func TestIsKindForOpError(t *testing.T) {
	err := &OpError{
		Op:   "config.load",
		Kind: KindInvalidConfig,
		Err:  ErrInvalidConfig,
	}

	if !IsKind(err, KindInvalidConfig) {
		t.Fatalf("expected IsKind to match op error")
	}
	if IsKind(err, KindNotFound) {
		t.Fatalf("expected IsKind to reject other kinds")
	}
}

func TestIsKindPlainError(t *testing.T) {
	if IsKind(errors.New("plain"), KindRequest) {
		t.Fatalf("expected IsKind to reject non OpError values")
	}
}

func TestOpErrorStringIncludesPath(t *testing.T) {
	err := &OpError{
		Op:   "csvfile.write",
		Kind: KindExecution,
		Path: "/tmp/out.csv",
		Err:  errors.New("disk full"),
	}
	msg := err.Error()
	for _, want := range []string{"csvfile.write", "execution", "/tmp/out.csv", "disk full"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in error string, got %q", want, msg)
		}
	}
}
