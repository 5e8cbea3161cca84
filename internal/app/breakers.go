package app

import (
	"github.com/DANIELMWENDWA9451/Daniels-Library/config"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/circuitbreaker"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/metrics"
)

// newBreakerConfig builds a breaker config whose transitions are exported as metrics.
func newBreakerConfig(cfg config.CircuitBreakerConfig, name string, isFailure func(error) bool) circuitbreaker.Config {
	return circuitbreaker.Config{
		FailureThreshold: cfg.FailureThreshold,
		SuccessThreshold: cfg.SuccessThreshold,
		Timeout:          cfg.Timeout,
		Name:             name,
		IsFailure:        isFailure,
		OnStateChange:    recordBreakerState,
	}
}

func recordBreakerState(name string, _, to circuitbreaker.State) {
	metrics.SetCircuitBreakerState(name, int(to))
}
