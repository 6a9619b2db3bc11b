package keymap

import "github.com/keycanon/keycanon/key"

// Option controls encoding and decoding.
type Option func(*config)

type config struct {
	policy    key.FloatPolicy
	normalize bool
}

func newConfig(opts []Option) *config {
	cfg := &config{
		policy: key.RejectFloats(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithFloatPolicy sets the float policy. The default is
// key.RejectFloats. Decoding a key requires the policy it was encoded
// under.
func WithFloatPolicy(p key.FloatPolicy) Option {
	return func(cfg *config) {
		cfg.policy = p
	}
}

// WithNormalize makes Encode return the normalized form of the result,
// as if by Key.Normalize. Off by default; normalization is an explicit
// step so that callers who never compare protocol-built maps across
// insertion orders do not pay for the sort.
func WithNormalize() Option {
	return func(cfg *config) {
		cfg.normalize = true
	}
}
