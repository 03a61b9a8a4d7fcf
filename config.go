package bhi

import (
	"fmt"

	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/poincare"
	"gopkg.in/yaml.v3"
)

// Params configures an Estimator.
type Params struct {
	// Window length in seconds
	Wind float64 `yaml:"wind"`
	// Sampling rate (Hz) of the shared time grid
	Fs float64 `yaml:"fs"`
	// CSI/CVI scaling, "tenfold" (default) or "classic". Only used
	// when CSI/CVI are derived from the IBI record.
	Scale string `yaml:"scale,omitempty"`
}

// DefaultParams returns the standard configuration: 15 s windows on a
// 4 Hz grid.
func DefaultParams() Params {
	return Params{Wind: 15, Fs: 4}
}

// ParamsFromYAML parses a yaml parameter document. Missing fields
// take their defaults.
func ParamsFromYAML(data []byte) (Params, error) {
	p := DefaultParams()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("parse params: %w", err)
	}
	if p.Wind <= 0 {
		return Params{}, fmt.Errorf("parse params: wind must be positive, got %v", p.Wind)
	}
	if p.Fs <= 0 {
		return Params{}, fmt.Errorf("parse params: fs must be positive, got %v", p.Fs)
	}
	if _, err := p.scaleMode(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func (p Params) scaleMode() (poincare.ScaleMode, error) {
	switch p.Scale {
	case "", "tenfold":
		return poincare.ScaleTenfold, nil
	case "classic":
		return poincare.ScaleClassic, nil
	}
	return 0, fmt.Errorf("unknown scale mode %q", p.Scale)
}
