package waveform

import (
	"errors"
	"testing"
)

// createVectors returns Leads vectors where lead i holds the constant i/100.
func createVectors() []Vector {
	vectors := make([]Vector, Leads)
	for i := range vectors {
		v := make(Vector, Length)
		for j := range v {
			v[j] = float64(i+1) / 100
		}
		vectors[i] = v
	}
	return vectors
}

func TestAssemble_LeadOrder(t *testing.T) {
	feats, err := Assembler{Policy: PolicyZeroPad}.Assemble(createVectors())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(feats.Values) != FeatureLength {
		t.Fatalf("length: got %d, want %d", len(feats.Values), FeatureLength)
	}
	if len(feats.Missing) != 0 {
		t.Errorf("Missing: got %v, want none", feats.Missing)
	}

	for i, v := range feats.Values {
		lead, _ := Position(i)
		if want := float64(lead) / 100; v != want {
			t.Fatalf("index %d (lead %d): got %v, want %v", i, lead, v, want)
		}
	}
}

func TestAssemble_MissingLeads(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		missing []int
		wantErr error
	}{
		{"zero-pad one lead", PolicyZeroPad, []int{5}, nil},
		{"zero-pad several", PolicyZeroPad, []int{1, 12}, nil},
		{"fail policy", PolicyFail, []int{3}, ErrMissingLead},
		{"all missing zero-pad", PolicyZeroPad, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, ErrEmptyFeatureVector},
		{"all missing fail", PolicyFail, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, ErrEmptyFeatureVector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vectors := createVectors()
			for _, lead := range tt.missing {
				vectors[lead-1] = nil
			}

			feats, err := Assembler{Policy: tt.policy}.Assemble(vectors)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Assemble failed: %v", err)
			}
			if len(feats.Values) != FeatureLength {
				t.Errorf("length: got %d, want %d", len(feats.Values), FeatureLength)
			}
			if len(feats.Missing) != len(tt.missing) {
				t.Errorf("Missing: got %v, want %v", feats.Missing, tt.missing)
			}
			for _, lead := range tt.missing {
				for j := 0; j < Length; j++ {
					if v := feats.Values[(lead-1)*Length+j]; v != 0 {
						t.Fatalf("lead %d sample %d: got %v, want 0", lead, j, v)
					}
				}
			}
		})
	}
}

func TestAssemble_BadInput(t *testing.T) {
	if _, err := (Assembler{}).Assemble(createVectors()[:11]); err == nil {
		t.Error("expected error for 11 vectors")
	}

	vectors := createVectors()
	vectors[2] = vectors[2][:10]
	if _, err := (Assembler{}).Assemble(vectors); !errors.Is(err, ErrVectorLength) {
		t.Errorf("expected ErrVectorLength, got %v", err)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyZeroPad, false},
		{"zero-pad", PolicyZeroPad, false},
		{"fail", PolicyFail, false},
		{"skip", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		index, lead, sample int
	}{
		{0, 1, 0},
		{254, 1, 254},
		{255, 2, 0},
		{FeatureLength - 1, 12, 254},
	}
	for _, tt := range tests {
		lead, sample := Position(tt.index)
		if lead != tt.lead || sample != tt.sample {
			t.Errorf("Position(%d) = (%d, %d), want (%d, %d)", tt.index, lead, sample, tt.lead, tt.sample)
		}
	}
}
