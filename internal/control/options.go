package control

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMinSpeed is the desired-speed threshold below which the frame
	// is held instead of rebuilt.
	DefaultMinSpeed = 1e-6

	// DefaultTolerance bounds the orthonormality error of the frame.
	DefaultTolerance = 1e-6
)

type options struct {
	minSpeed  float64
	tolerance float64
	rng       *rand.Rand
	logger    *zap.Logger
}

func defaultOptions() options {
	return options{
		minSpeed:  DefaultMinSpeed,
		tolerance: DefaultTolerance,
		logger:    zap.NewNop(),
	}
}

// Option configures a PassiveDS at construction.
type Option func(*options)

// WithMinSpeed sets the gate threshold on the desired speed.
func WithMinSpeed(v float64) Option {
	return func(o *options) { o.minSpeed = v }
}

// WithTolerance sets the orthonormality tolerance.
func WithTolerance(v float64) Option {
	return func(o *options) { o.tolerance = v }
}

// WithSeed seeds the random initial frame.
func WithSeed(seed int64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand draws the initial frame from r.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func (o *options) random() *rand.Rand {
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o.rng
}
