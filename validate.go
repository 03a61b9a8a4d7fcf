package bhi

import (
	"fmt"

	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/gonumext"
)

// validate checks every shape and range invariant before any windowed
// computation starts.
func validate(in Inputs, ws int) error {
	if ws < 1 {
		return &InputValidationError{Series: "wind", Reason: "window is below one sample"}
	}
	t := len(in.Time)
	if t == 0 {
		return &InputValidationError{Series: "time", Reason: "empty"}
	}
	if gonumext.SliceNaNOrInf(in.Time) {
		return &InputValidationError{Series: "time", Reason: "contains NaN or Inf"}
	}
	if !gonumext.StrictlyIncreasing(in.Time) {
		return &InputValidationError{Series: "time", Reason: "not strictly increasing"}
	}
	if t <= 2*ws {
		return &InputValidationError{
			Series: "time",
			Reason: fmt.Sprintf("%d samples cannot hold two %d sample windows", t, ws),
		}
	}

	if in.Power == nil {
		return &InputValidationError{Series: "band power", Reason: "missing"}
	}
	if _, cols := in.Power.Dims(); cols != t {
		return &InputValidationError{
			Series: "band power",
			Reason: fmt.Sprintf("%d columns, time grid has %d samples", cols, t),
		}
	}
	if gonumext.NaNOrInf(in.Power) {
		return &InputValidationError{Series: "band power", Reason: "contains NaN or Inf"}
	}

	if in.IBI.Len() == 0 {
		return &InputValidationError{Series: "IBI", Reason: "empty"}
	}
	if len(in.IBI.Time) != in.IBI.Len() {
		return &InputValidationError{Series: "IBI", Reason: "timestamp and duration lengths differ"}
	}
	if gonumext.SliceNaNOrInf(in.IBI.Time) || gonumext.SliceNaNOrInf(in.IBI.Duration) {
		return &InputValidationError{Series: "IBI", Reason: "contains NaN or Inf"}
	}
	if !gonumext.StrictlyIncreasing(in.IBI.Time) {
		return &InputValidationError{Series: "IBI", Reason: "timestamps not strictly increasing"}
	}
	for _, d := range in.IBI.Duration {
		if d <= 0 {
			return &InputValidationError{Series: "IBI", Reason: "non-positive duration"}
		}
	}

	// CSI and CVI are optional but only as a pair.
	if (in.CSI == nil) != (in.CVI == nil) {
		return &InputValidationError{Series: "CSI/CVI", Reason: "supplied without its counterpart"}
	}
	if in.CSI != nil {
		if len(in.CSI) != t {
			return &InputValidationError{Series: "CSI", Reason: "length differs from time grid"}
		}
		if len(in.CVI) != t {
			return &InputValidationError{Series: "CVI", Reason: "length differs from time grid"}
		}
		if gonumext.SliceNaNOrInf(in.CSI) {
			return &InputValidationError{Series: "CSI", Reason: "contains NaN or Inf"}
		}
		if gonumext.SliceNaNOrInf(in.CVI) {
			return &InputValidationError{Series: "CVI", Reason: "contains NaN or Inf"}
		}
	}
	return nil
}
