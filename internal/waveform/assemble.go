package waveform

import (
	"errors"
	"fmt"
)

// Leads is the number of lead waveforms that make up a feature vector.
const Leads = 12

// FeatureLength is the size of a complete feature vector.
const FeatureLength = Leads * Length

// Policy decides what happens to a lead that produced no waveform.
type Policy string

const (
	// PolicyZeroPad fills the missing lead's slots with zeros.
	PolicyZeroPad Policy = "zero-pad"

	// PolicyFail rejects the feature vector.
	PolicyFail Policy = "fail"
)

var (
	// ErrMissingLead is returned under PolicyFail when any lead is missing.
	ErrMissingLead = errors.New("lead waveform missing")

	// ErrEmptyFeatureVector is returned when no lead produced a waveform.
	ErrEmptyFeatureVector = errors.New("no lead produced a waveform")

	// ErrVectorLength is returned for a lead vector that is not Length long.
	ErrVectorLength = errors.New("lead waveform has wrong length")
)

// ParsePolicy converts a configuration string to a Policy.
// The empty string selects PolicyZeroPad.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyZeroPad:
		return PolicyZeroPad, nil
	case PolicyFail:
		return PolicyFail, nil
	}
	return "", fmt.Errorf("unknown missing lead policy %q", s)
}

// Features is an assembled model input.
type Features struct {
	// Values holds lead 1 samples first, then lead 2, up to lead 12.
	Values []float64

	// Missing lists the 1-based indices of leads that were zero-padded.
	Missing []int
}

// Assembler concatenates lead waveforms into a feature vector.
type Assembler struct {
	Policy Policy
}

// Assemble builds the feature vector from Leads lead vectors in lead order.
// A nil entry marks a lead without a waveform.
//
// The result is always FeatureLength long. Missing leads are handled
// according to the policy, and a vector with every lead missing is rejected
// with ErrEmptyFeatureVector regardless of policy.
func (a Assembler) Assemble(vectors []Vector) (Features, error) {
	if len(vectors) != Leads {
		return Features{}, fmt.Errorf("expected %d lead vectors, got %d", Leads, len(vectors))
	}

	feats := Features{Values: make([]float64, FeatureLength)}
	for i, v := range vectors {
		lead := i + 1
		if v == nil {
			feats.Missing = append(feats.Missing, lead)
			continue
		}
		if len(v) != Length {
			return Features{}, fmt.Errorf("lead %d: %w: %d", lead, ErrVectorLength, len(v))
		}
		copy(feats.Values[i*Length:], v)
	}

	if len(feats.Missing) == Leads {
		return Features{}, ErrEmptyFeatureVector
	}
	if len(feats.Missing) > 0 && a.Policy == PolicyFail {
		return Features{}, fmt.Errorf("leads %v: %w", feats.Missing, ErrMissingLead)
	}
	return feats, nil
}

// Position maps a feature index to its 1-based lead index and 0-based
// sample index.
func Position(i int) (lead, sample int) {
	return i/Length + 1, i % Length
}
