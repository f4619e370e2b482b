package model

import "sync"

// Store hands out the process-wide projection and classifier, loading each
// artifact on first use. A failed load is not cached, so a missing artifact
// that appears later is picked up by the next call.
type Store struct {
	projectionPath string
	classifierPath string

	mu         sync.Mutex
	projection Projection
	classifier Classifier
}

// NewStore creates a store that loads artifacts from the given paths.
func NewStore(projectionPath, classifierPath string) *Store {
	return &Store{projectionPath: projectionPath, classifierPath: classifierPath}
}

// NewStaticStore creates a store around already built models.
func NewStaticStore(p Projection, c Classifier) *Store {
	return &Store{projection: p, classifier: c}
}

// Projection returns the projection model, loading it if needed.
func (s *Store) Projection() (Projection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.projection == nil {
		p, err := LoadProjection(s.projectionPath)
		if err != nil {
			return nil, err
		}
		s.projection = p
	}
	return s.projection, nil
}

// Classifier returns the classifier model, loading it if needed.
func (s *Store) Classifier() (Classifier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.classifier == nil {
		c, err := LoadClassifier(s.classifierPath)
		if err != nil {
			return nil, err
		}
		s.classifier = c
	}
	return s.classifier, nil
}

// Models returns both models, or the first load error.
func (s *Store) Models() (Projection, Classifier, error) {
	p, err := s.Projection()
	if err != nil {
		return nil, nil, err
	}
	c, err := s.Classifier()
	if err != nil {
		return nil, nil, err
	}
	return p, c, nil
}

// Paths returns the configured artifact paths.
func (s *Store) Paths() (projection, classifier string) {
	return s.projectionPath, s.classifierPath
}
