package redis

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }

func succeeding() error { return nil }

func TestCircuitBreaker_StartsClosed(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Second)
	if cb.CurrentState() != StateClosed {
		t.Errorf("expected closed, got %s", cb.CurrentState())
	}
	if err := cb.Execute(succeeding); err != nil {
		t.Errorf("closed breaker must pass calls through: %v", err)
	}
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Second)
	for i := 0; i < 3; i++ {
		if err := cb.Execute(failing); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: expected the underlying error, got %v", i, err)
		}
	}
	if cb.CurrentState() != StateOpen {
		t.Fatalf("expected open after 3 failures, got %s", cb.CurrentState())
	}
	if err := cb.Execute(succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("open breaker must reject immediately, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Second)
	cb.Execute(failing)
	cb.Execute(failing)
	cb.Execute(succeeding)
	cb.Execute(failing)
	cb.Execute(failing)
	if cb.CurrentState() != StateClosed {
		t.Errorf("interleaved successes must keep the breaker closed, got %s", cb.CurrentState())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)
	cb.Execute(failing)
	if cb.CurrentState() != StateOpen {
		t.Fatalf("expected open, got %s", cb.CurrentState())
	}

	time.Sleep(20 * time.Millisecond)
	if err := cb.Execute(succeeding); err != nil {
		t.Fatalf("probe after timeout must run: %v", err)
	}
	if cb.CurrentState() != StateClosed {
		t.Errorf("successful probe must close the breaker, got %s", cb.CurrentState())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)
	cb.Execute(failing)
	time.Sleep(20 * time.Millisecond)
	if err := cb.Execute(failing); !errors.Is(err, errBoom) {
		t.Fatalf("probe must run the call: %v", err)
	}
	if cb.CurrentState() != StateOpen {
		t.Errorf("failed probe must reopen the breaker, got %s", cb.CurrentState())
	}
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Second)
	var transitions []string
	cb.OnStateChange = func(from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	}
	cb.Execute(failing)
	if len(transitions) != 1 || transitions[0] != "closed->open" {
		t.Errorf("unexpected transitions: %v", transitions)
	}
}
