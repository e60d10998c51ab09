package serper

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/corkapps/grounding-gateway/internal/infrastructure/metrics"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig defines circuit breaker behavior. The zero value is disabled.
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int           // consecutive failures before opening
	SuccessThreshold int           // successes needed to close from half-open
	Cooldown         time.Duration // how long to stay open before probing
	MaxHalfOpenCalls int
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 2
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
	if c.MaxHalfOpenCalls <= 0 {
		c.MaxHalfOpenCalls = 1
	}
	return c
}

// CircuitBreaker skips calls to a provider that keeps failing.
type CircuitBreaker struct {
	name string
	cfg  BreakerConfig
	log  zerolog.Logger
	now  func() time.Time

	mu              sync.Mutex
	state           CircuitState
	failures        int
	successes       int
	lastFailureTime time.Time
	halfOpenCalls   int
}

func NewCircuitBreaker(name string, cfg BreakerConfig, log zerolog.Logger) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:  name,
		cfg:   cfg.withDefaults(),
		log:   log,
		now:   time.Now,
		state: StateClosed,
	}
	cb.publish()
	return cb
}

// Allow reports whether a call may proceed.
func (cb *CircuitBreaker) Allow() bool {
	if cb == nil || !cb.cfg.Enabled {
		return true
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.cfg.Cooldown {
			return false
		}
		cb.log.Info().Str("provider", cb.name).Msg("circuit breaker transitioning to half-open")
		cb.state = StateHalfOpen
		cb.successes = 0
		cb.halfOpenCalls = 1
		cb.publish()
		return true
	case StateHalfOpen:
		if cb.halfOpenCalls < cb.cfg.MaxHalfOpenCalls {
			cb.halfOpenCalls++
			return true
		}
		return false
	default:
		return false
	}
}

// Record updates the state with the outcome of an allowed call.
func (cb *CircuitBreaker) Record(err error) {
	if cb == nil || !cb.cfg.Enabled {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		cb.successes = 0
		cb.lastFailureTime = cb.now()

		switch {
		case cb.state == StateHalfOpen:
			cb.log.Warn().Str("provider", cb.name).Msg("circuit breaker reopening after half-open failure")
			cb.state = StateOpen
			cb.halfOpenCalls = 0
		case cb.state == StateClosed && cb.failures >= cb.cfg.FailureThreshold:
			cb.log.Warn().Str("provider", cb.name).Int("failures", cb.failures).Msg("circuit breaker opening")
			cb.state = StateOpen
		}
		cb.publish()
		return
	}

	switch cb.state {
	case StateHalfOpen:
		cb.successes++
		if cb.halfOpenCalls > 0 {
			cb.halfOpenCalls--
		}
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.log.Info().Str("provider", cb.name).Msg("circuit breaker closing")
			cb.state = StateClosed
			cb.failures = 0
			cb.successes = 0
			cb.halfOpenCalls = 0
		}
	case StateClosed:
		cb.failures = 0
	}
	cb.publish()
}

// State returns the current state. A disabled breaker is always closed.
func (cb *CircuitBreaker) State() CircuitState {
	if cb == nil || !cb.cfg.Enabled {
		return StateClosed
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// publish must be called with mu held or before the breaker is shared.
func (cb *CircuitBreaker) publish() {
	value := 1.0
	switch cb.state {
	case StateOpen:
		value = 0
	case StateHalfOpen:
		value = 0.5
	}
	metrics.SetBreakerState(cb.name, value)
}
