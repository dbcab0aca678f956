package simulator

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MinSpeed = 0.25
	MaxSpeed = 3.0

	// BaseInterval is the tick interval at speed 1.
	BaseInterval = 500 * time.Millisecond
)

// Config controls a simulation.
type Config struct {
	Runs           int     `validate:"min=1"`
	MaxStepsPerRun int     `validate:"min=1"`
	Speed          float64 `validate:"gte=0.25,lte=3"`
	// FastMode makes Start run the whole simulation at once.
	FastMode bool
}

// DefaultConfig returns 20 runs of at most 200 steps at normal speed.
func DefaultConfig() Config {
	return Config{Runs: 20, MaxStepsPerRun: 200, Speed: 1}
}

var validate = validator.New()

// Validate checks the bounds of every field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SetSpeed stores v clamped to [MinSpeed, MaxSpeed].
func (c *Config) SetSpeed(v float64) {
	c.Speed = ClampSpeed(v)
}

// ClampSpeed limits v to [MinSpeed, MaxSpeed]. NaN maps to 1.
func ClampSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return math.Min(MaxSpeed, math.Max(MinSpeed, v))
}

// Interval returns the tick interval for the configured speed, rounded to
// whole milliseconds.
func (c Config) Interval() time.Duration {
	speed := c.Speed
	if speed <= 0 {
		speed = 1
	}
	ms := math.Round(float64(BaseInterval/time.Millisecond) / speed)
	return time.Duration(ms) * time.Millisecond
}
