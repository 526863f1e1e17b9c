package resolve

import (
	"context"
	"regexp"
	"time"

	"github.com/firefly-engineering/firefly-outpost/internal/errors"
	"github.com/firefly-engineering/firefly-outpost/internal/logging"
)

// Retry budget for the full strategy chain.
const (
	DefaultRounds = 10
	DefaultDelay  = 5 * time.Second
)

// ipv4Pattern matches a dotted-quad token inside arbitrary tool output.
var ipv4Pattern = regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)

// Strategy is one way of discovering the target's address. Lookup returns
// an empty string when the strategy has nothing to offer; strategies never
// abort the chain.
type Strategy struct {
	Name   string
	Lookup func(ctx context.Context) string
}

// Resolver tries an ordered list of strategies until one yields a valid
// address, retrying the whole chain up to a fixed round budget.
type Resolver struct {
	target     string
	strategies []Strategy
	rounds     int
	delay      time.Duration
	sleep      func(time.Duration)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRounds sets the number of retry rounds.
func WithRounds(rounds int) Option {
	return func(r *Resolver) {
		r.rounds = rounds
	}
}

// WithDelay sets the delay between rounds.
func WithDelay(delay time.Duration) Option {
	return func(r *Resolver) {
		r.delay = delay
	}
}

// WithSleep replaces the inter-round sleep, for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(r *Resolver) {
		r.sleep = sleep
	}
}

// New creates a Resolver for a target with the given strategy chain.
func New(target string, strategies []Strategy, opts ...Option) *Resolver {
	r := &Resolver{
		target:     target,
		strategies: strategies,
		rounds:     DefaultRounds,
		delay:      DefaultDelay,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the strategy chain until a valid address appears or the
// round budget is exhausted. The first valid candidate from any strategy
// in any round wins; later strategies in that round are not consulted.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	for round := 1; round <= r.rounds; round++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		for _, strategy := range r.strategies {
			candidate := strategy.Lookup(ctx)
			if Valid(candidate) {
				logging.Debug("address resolved",
					"target", r.target, "strategy", strategy.Name,
					"address", candidate, "round", round)
				return candidate, nil
			}
			logging.Debug("strategy yielded no address",
				"target", r.target, "strategy", strategy.Name, "round", round)
		}

		if round < r.rounds {
			r.sleep(r.delay)
		}
	}

	return "", errors.AddressNotFound(r.target, r.rounds)
}

// Valid reports whether a candidate address passes the validity filter:
// non-empty, not the "null" sentinel some tools print for unset outputs,
// not loopback, and shaped like an IPv4 dotted quad.
func Valid(addr string) bool {
	if addr == "" || addr == "null" {
		return false
	}
	if addr == "127.0.0.1" {
		return false
	}
	return ipv4Pattern.MatchString(addr) && ipv4Pattern.FindString(addr) == addr
}

// ExtractIPv4 returns the first non-loopback IPv4 token in a blob of tool
// output, or empty when there is none.
func ExtractIPv4(output string) string {
	for _, match := range ipv4Pattern.FindAllString(output, -1) {
		if match != "127.0.0.1" {
			return match
		}
	}
	return ""
}
