package impulse

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Params carries the runtime-settable tuning of a Space. DistanceTol,
// VelocityTol and CollisionAccuracy are consumed by the contact detection
// layer; they are validated and stored here so one document configures the
// whole pipeline. SmallVelocity is the resolver's own quiescence tolerance,
// the starting point for panic relaxation.
type Params struct {
	CollisionHandling CollisionHandling `yaml:"collisionHandling"`
	DistanceTol       float64           `yaml:"distanceTol"`
	VelocityTol       float64           `yaml:"velocityTol"`
	CollisionAccuracy float64           `yaml:"collisionAccuracy"`
	SmallVelocity     float64           `yaml:"smallVelocity"`
	RandomSeed        int64             `yaml:"randomSeed"`
	Panic             bool              `yaml:"panic"`
}

func DefaultParams() Params {
	return Params{
		CollisionHandling: HANDLING_HYBRID,
		DistanceTol:       0.01,
		VelocityTol:       0.5,
		CollisionAccuracy: 0.6,
		SmallVelocity:     1e-5,
		RandomSeed:        1,
		Panic:             true,
	}
}

func (params Params) Validate() error {
	h := params.CollisionHandling
	if h < HANDLING_SIMULTANEOUS || h > HANDLING_SERIAL_GROUPED_LASTPASS {
		return fmt.Errorf("%w: collisionHandling %d", ErrInvalidParam, int(h))
	}
	if params.DistanceTol <= 0 {
		return fmt.Errorf("%w: distanceTol %g must be positive", ErrInvalidParam, params.DistanceTol)
	}
	if params.VelocityTol <= 0 {
		return fmt.Errorf("%w: velocityTol %g must be positive", ErrInvalidParam, params.VelocityTol)
	}
	if params.CollisionAccuracy <= 0 || params.CollisionAccuracy > 1 {
		return fmt.Errorf("%w: collisionAccuracy %g must be in (0, 1]", ErrInvalidParam, params.CollisionAccuracy)
	}
	if params.SmallVelocity <= 0 {
		return fmt.Errorf("%w: smallVelocity %g must be positive", ErrInvalidParam, params.SmallVelocity)
	}
	return nil
}

// ParamsFromYAML decodes a parameter document over the defaults, so a partial
// document only overrides what it names. The result is validated.
func ParamsFromYAML(data []byte) (Params, error) {
	params := DefaultParams()
	if err := yaml.Unmarshal(data, &params); err != nil {
		return Params{}, fmt.Errorf("decoding params: %w", err)
	}
	if err := params.Validate(); err != nil {
		return Params{}, err
	}
	return params, nil
}

func ParseCollisionHandling(name string) (CollisionHandling, error) {
	for h := HANDLING_SIMULTANEOUS; h <= HANDLING_SERIAL_GROUPED_LASTPASS; h++ {
		if h.String() == name {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: collisionHandling %q", ErrInvalidParam, name)
}

func (h CollisionHandling) MarshalYAML() (interface{}, error) {
	return h.String(), nil
}

func (h *CollisionHandling) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseCollisionHandling(name)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
