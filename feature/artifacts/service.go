package artifacts

import (
	"context"
	"fmt"
	"regexp"

	"pipeline-storage/core/pipeline"

	"go.uber.org/zap"
)

// Service exposes a pipeline namespace and its children to the HTTP layer.
type Service struct {
	root   *pipeline.Namespace
	logger *zap.Logger
}

// NewService creates a new artifacts service over root.
func NewService(root *pipeline.Namespace, logger *zap.Logger) *Service {
	return &Service{root: root, logger: logger}
}

// Match is one find result.
type Match struct {
	Key    string            `json:"key"`
	Groups map[string]string `json:"groups"`
}

// FindRequest describes a find call against a child namespace.
type FindRequest struct {
	Namespace   string
	Pattern     string
	BaseDir     string
	FieldFilter map[string]string
	MaxResults  int
}

// FindResult holds the matches and the last progress update of a find call.
type FindResult struct {
	Matches  []Match           `json:"matches"`
	Progress pipeline.Progress `json:"progress"`
}

// Namespace returns the child namespace name, or the root namespace when name is empty.
func (s *Service) Namespace(ctx context.Context, name string) (*pipeline.Namespace, error) {
	return s.root.Child(ctx, name)
}

// Find runs a find call and materializes its matches.
func (s *Service) Find(ctx context.Context, req FindRequest) (*FindResult, error) {
	pattern, err := regexp.Compile(req.Pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrInvalidPattern, err)
	}

	ns, err := s.Namespace(ctx, req.Namespace)
	if err != nil {
		return nil, err
	}

	result := &FindResult{Matches: []Match{}}
	track := func(p pipeline.Progress) {
		result.Progress = p
	}

	seq, err := ns.Find(ctx, pattern, pipeline.FindOptions{
		BaseDir:     req.BaseDir,
		FieldFilter: req.FieldFilter,
		MaxResults:  req.MaxResults,
		Progress:    track,
	})
	if err != nil {
		return nil, err
	}

	for key, groups := range seq {
		result.Matches = append(result.Matches, Match{Key: key, Groups: groups})
	}
	return result, nil
}

// Get returns the raw content of key, or ok == false when it cannot be read.
func (s *Service) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	ns, err := s.Namespace(ctx, namespace)
	if err != nil {
		return nil, false, err
	}
	data, ok := ns.Get(ctx, key)
	return data, ok, nil
}

// GetText returns the content of key decoded with encoding.
func (s *Service) GetText(ctx context.Context, namespace, key, encoding string) (string, bool, error) {
	ns, err := s.Namespace(ctx, namespace)
	if err != nil {
		return "", false, err
	}
	text, ok := ns.GetText(ctx, key, encoding)
	return text, ok, nil
}

// Put stores body under key. With an encoding, body is read as UTF-8 text and
// re-encoded; otherwise it is stored as-is.
func (s *Service) Put(ctx context.Context, namespace, key string, body []byte, encoding string) (pipeline.WriteResult, error) {
	ns, err := s.Namespace(ctx, namespace)
	if err != nil {
		return pipeline.WriteResult{}, err
	}
	if encoding != "" {
		return ns.SetText(ctx, key, string(body), encoding), nil
	}
	return ns.Set(ctx, key, body), nil
}

// Has reports whether key exists.
func (s *Service) Has(ctx context.Context, namespace, key string) (bool, error) {
	ns, err := s.Namespace(ctx, namespace)
	if err != nil {
		return false, err
	}
	return ns.Has(ctx, key)
}

// Delete removes key.
func (s *Service) Delete(ctx context.Context, namespace, key string) error {
	ns, err := s.Namespace(ctx, namespace)
	if err != nil {
		return err
	}
	return ns.Delete(ctx, key)
}

// Clear removes every object of the namespace.
func (s *Service) Clear(ctx context.Context, namespace string) error {
	ns, err := s.Namespace(ctx, namespace)
	if err != nil {
		return err
	}
	return ns.Clear(ctx)
}

// Keys lists the keys of the namespace. No backend supports it yet.
func (s *Service) Keys(ctx context.Context, namespace string) ([]string, error) {
	ns, err := s.Namespace(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return ns.Keys(ctx)
}
