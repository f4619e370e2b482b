package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrArtifactMissing is returned when an artifact path is empty or does
	// not exist.
	ErrArtifactMissing = errors.New("model artifact missing")

	// ErrLoad is returned when an artifact exists but cannot be decoded or
	// describes an inconsistent model.
	ErrLoad = errors.New("model artifact invalid")

	// ErrShapeMismatch is returned when a vector does not have the length a
	// model expects.
	ErrShapeMismatch = errors.New("model shape mismatch")
)

// Artifact kinds understood by the loaders.
const (
	KindPCA = "pca"
	KindLDA = "lda"
)

// ProjectionArtifact is the on-disk form of a PCA projection.
// JSON files are accepted too, since the YAML decoder reads them unchanged.
type ProjectionArtifact struct {
	Kind              string      `yaml:"kind" json:"kind"`
	Mean              []float64   `yaml:"mean" json:"mean"`
	Components        [][]float64 `yaml:"components" json:"components"`
	ExplainedVariance []float64   `yaml:"explained_variance,omitempty" json:"explained_variance,omitempty"`
	Whiten            bool        `yaml:"whiten,omitempty" json:"whiten,omitempty"`
}

// ClassifierArtifact is the on-disk form of a linear discriminant.
type ClassifierArtifact struct {
	Kind      string      `yaml:"kind" json:"kind"`
	Classes   []int       `yaml:"classes" json:"classes"`
	Coef      [][]float64 `yaml:"coef" json:"coef"`
	Intercept []float64   `yaml:"intercept" json:"intercept"`
}

// LoadProjection reads a projection artifact from path.
func LoadProjection(path string) (Projection, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	p, err := DecodeProjection(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// DecodeProjection parses a projection artifact.
func DecodeProjection(data []byte) (Projection, error) {
	var a ProjectionArtifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if a.Kind != "" && a.Kind != KindPCA {
		return nil, fmt.Errorf("%w: unsupported projection kind %q", ErrLoad, a.Kind)
	}
	return NewPCA(a.Mean, a.Components, a.ExplainedVariance, a.Whiten)
}

// LoadClassifier reads a classifier artifact from path.
func LoadClassifier(path string) (Classifier, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	c, err := DecodeClassifier(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// DecodeClassifier parses a classifier artifact.
func DecodeClassifier(data []byte) (Classifier, error) {
	var a ClassifierArtifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if a.Kind != "" && a.Kind != KindLDA {
		return nil, fmt.Errorf("%w: unsupported classifier kind %q", ErrLoad, a.Kind)
	}
	return NewLDA(a.Classes, a.Coef, a.Intercept)
}

// SaveArtifact writes a projection or classifier artifact as YAML.
func SaveArtifact(path string, artifact interface{}) error {
	data, err := yaml.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

// ConvertArtifact checks that the artifact at in builds a model and writes it
// to out as YAML. The artifact kind is taken from its kind field.
func ConvertArtifact(in, out string) (string, error) {
	data, err := readArtifact(in)
	if err != nil {
		return "", err
	}
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoad, err)
	}

	var artifact interface{}
	switch head.Kind {
	case KindPCA:
		var a ProjectionArtifact
		if err := yaml.Unmarshal(data, &a); err != nil {
			return "", fmt.Errorf("%w: %v", ErrLoad, err)
		}
		if _, err := NewPCA(a.Mean, a.Components, a.ExplainedVariance, a.Whiten); err != nil {
			return "", fmt.Errorf("%s: %w", in, err)
		}
		artifact = a
	case KindLDA:
		var a ClassifierArtifact
		if err := yaml.Unmarshal(data, &a); err != nil {
			return "", fmt.Errorf("%w: %v", ErrLoad, err)
		}
		if _, err := NewLDA(a.Classes, a.Coef, a.Intercept); err != nil {
			return "", fmt.Errorf("%s: %w", in, err)
		}
		artifact = a
	default:
		return "", fmt.Errorf("%w: %s: unknown artifact kind %q", ErrLoad, in, head.Kind)
	}
	return head.Kind, SaveArtifact(out, artifact)
}

func readArtifact(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrArtifactMissing)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrLoad, path, err)
	}
	return data, nil
}
