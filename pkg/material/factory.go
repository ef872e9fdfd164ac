package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// Kind names a material variant in scene descriptions
type Kind string

const (
	KindLambertian Kind = "lambertian"
	KindMetal      Kind = "metal"
	KindDielectric Kind = "dielectric"
)

// ErrUnknownMaterial is returned for a material kind with no constructor
var ErrUnknownMaterial = errors.New("unknown material")

// Params holds the union of material parameters; each kind reads only its own fields
type Params struct {
	Albedo          core.Color
	Fuzz            float64
	RefractiveIndex float64
}

// NewMaterial builds the material variant named by kind
func NewMaterial(kind Kind, params Params) (Material, error) {
	switch kind {
	case KindLambertian:
		return NewLambertian(params.Albedo), nil
	case KindMetal:
		return NewMetal(params.Albedo, params.Fuzz), nil
	case KindDielectric:
		if params.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("dielectric refractive index must be positive, got %g", params.RefractiveIndex)
		}
		return NewDielectric(params.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, kind)
	}
}
