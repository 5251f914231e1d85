package ratelimit

import "time"

// LimitConfig is one window/max pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps scopes to the limits enforced for them. A request is allowed
// only if every limit of every applicable scope holds.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// PolicyBuilder assembles a Policy from individual scope limits.
type PolicyBuilder struct {
	limits map[Scope][]LimitConfig
}

// NewPolicyBuilder returns an empty builder.
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{limits: map[Scope][]LimitConfig{}}
}

// AddLimit records a max/window pair for the scope and returns the builder
// for chaining.
func (b *PolicyBuilder) AddLimit(scope Scope, max int64, window time.Duration) *PolicyBuilder {
	b.limits[scope] = append(b.limits[scope], LimitConfig{Window: window, Max: max})
	return b
}

// Build returns the assembled Policy.
func (b *PolicyBuilder) Build() *Policy {
	return &Policy{Limits: b.limits}
}

// DefaultPolicy returns the baseline policy: a broad global ceiling, a
// relaxed read budget for link views, and a stricter write budget for
// deposits.
func DefaultPolicy() *Policy {
	return &Policy{
		Limits: map[Scope][]LimitConfig{
			ScopeGlobal: {
				{Window: time.Minute, Max: 2000},
			},
			ScopeRead: {
				{Window: time.Minute, Max: 600},
			},
			ScopeWrite: {
				{Window: time.Minute, Max: 30},
				{Window: time.Hour, Max: 300},
			},
		},
	}
}
