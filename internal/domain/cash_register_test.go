package domain

import (
	"errors"
	"testing"
)

func TestRegisterLifecycle(t *testing.T) {
	first := &RegisterOpening{ID: "op-1"}
	second := &RegisterOpening{ID: "op-2"}
	closeFirst := &RegisterClosing{ID: "cl-1", OpeningID: "op-1"}

	tests := []struct {
		name     string
		opening  *RegisterOpening
		closing  *RegisterClosing
		state    RegisterState
		openErr  error
		closeErr error
	}{
		{name: "never opened", state: RegisterNeverOpened, closeErr: ErrRegisterNotOpen},
		{name: "open", opening: first, state: RegisterOpen, openErr: ErrRegisterAlreadyOpen},
		{name: "closed", opening: first, closing: closeFirst, state: RegisterClosed, closeErr: ErrRegisterAlreadyClosed},
		{name: "reopened after close", opening: second, closing: closeFirst, state: RegisterOpen, openErr: ErrRegisterAlreadyOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := StateOf(tt.opening, tt.closing)
			if state != tt.state {
				t.Fatalf("expected %s, got %s", tt.state, state)
			}

			if err := CanOpen(state); !errors.Is(err, tt.openErr) {
				t.Errorf("open: expected %v, got %v", tt.openErr, err)
			}

			if err := CanClose(state); !errors.Is(err, tt.closeErr) {
				t.Errorf("close: expected %v, got %v", tt.closeErr, err)
			}
		})
	}
}
