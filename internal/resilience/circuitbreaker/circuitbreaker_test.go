package circuitbreaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"intelwatch/internal/resilience/circuitbreaker"
)

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("test"))

	result, err := cb.Execute(func() (interface{}, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want %q", result, "ok")
	}
	if cb.IsOpen() {
		t.Error("breaker open after a single success")
	}
}

func TestCircuitBreaker_PassesThroughError(t *testing.T) {
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("test"))
	boom := errors.New("boom")

	_, err := cb.Execute(func() (interface{}, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Execute() error = %v, want %v", err, boom)
	}
}

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	cfg := circuitbreaker.Config{
		Name:             "trip-test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      4,
	}
	cb := circuitbreaker.New(cfg)

	boom := errors.New("down")
	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, boom
		})
	}

	if !cb.IsOpen() {
		t.Fatalf("breaker state = %v, want open after repeated failures", cb.State())
	}

	_, err := cb.Execute(func() (interface{}, error) {
		return "should not run", nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Execute() on open breaker error = %v, want ErrOpenState", err)
	}
}

func TestCircuitBreaker_BelowMinRequestsStaysClosed(t *testing.T) {
	cfg := circuitbreaker.DefaultConfig("min-test")
	cfg.MinRequests = 10
	cb := circuitbreaker.New(cfg)

	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, errors.New("down")
		})
	}
	if cb.IsOpen() {
		t.Error("breaker tripped below the minimum request count")
	}
}

func TestCircuitBreaker_Name(t *testing.T) {
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("named"))
	if cb.Name() != "named" {
		t.Errorf("Name() = %q, want %q", cb.Name(), "named")
	}
}
