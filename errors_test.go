package uci

import (
	"errors"
	"fmt"
	"testing"
)

var sentinels = []struct {
	name string
	err  error
}{
	{"ErrLaunch", ErrLaunch},
	{"ErrProtocol", ErrProtocol},
	{"ErrUnknownOption", ErrUnknownOption},
	{"ErrTimeout", ErrTimeout},
	{"ErrTerminated", ErrTerminated},
	{"ErrClosed", ErrClosed},
	{"ErrInvalidCommand", ErrInvalidCommand},
}

func TestSentinelErrors_Wrapping(t *testing.T) {
	for _, tt := range sentinels {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("%w: detail", tt.err)
			if !errors.Is(wrapped, tt.err) {
				t.Fatalf("wrapped error should match %s via errors.Is", tt.name)
			}
		})
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a.err, b.err) {
				t.Errorf("%s should not match %s", a.name, b.name)
			}
		}
	}
}

func TestProtocolError(t *testing.T) {
	err := fmt.Errorf("set EvalFile: %w", &ProtocolError{
		Command:  "setoption name EvalFile value bad.nnue",
		Messages: []string{"network not loaded", "bad.nnue missing"},
	})
	if !errors.Is(err, ErrProtocol) {
		t.Fatal("errors.Is(err, ErrProtocol) = false")
	}
	if errors.Is(err, ErrTerminated) {
		t.Fatal("ProtocolError should not match ErrTerminated")
	}
	msgs := ProtocolMessages(err)
	if len(msgs) != 2 || msgs[0] != "network not loaded" {
		t.Fatalf("ProtocolMessages = %q", msgs)
	}
	want := "set EvalFile: uci: setoption name EvalFile value bad.nnue: network not loaded\nbad.nnue missing"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestProtocolMessages_None(t *testing.T) {
	if got := ProtocolMessages(ErrTimeout); got != nil {
		t.Errorf("ProtocolMessages(ErrTimeout) = %q, want nil", got)
	}
	if got := ProtocolMessages(nil); got != nil {
		t.Errorf("ProtocolMessages(nil) = %q, want nil", got)
	}
}
