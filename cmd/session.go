package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"pipeline-storage/core/backend"
	"pipeline-storage/core/config"
	"pipeline-storage/core/logger"
	"pipeline-storage/core/pipeline"

	"go.uber.org/zap"
)

// openBackend is swapped in tests to share one in-memory backend across commands.
var openBackend = backend.Open

// session is the state every storage command starts from.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	backend pipeline.Backend
	root    *pipeline.Namespace
}

// openSession opens the configured backend and its root namespace, creating
// the container when it is missing.
func openSession(ctx context.Context) (*session, error) {
	s, err := openBackendSession()
	if err != nil {
		return nil, err
	}

	s.root, err = pipeline.New(ctx, s.backend, pipeline.Options{
		RootPrefix: s.cfg.Pipeline.RootPrefix,
		Encoding:   s.cfg.Pipeline.Encoding,
		Logger:     s.logger.With(zap.String("backend", s.cfg.Pipeline.Backend)),
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// openBackendSession opens the configured backend without touching its container.
func openBackendSession() (*session, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	b, err := openBackend(cfg.Pipeline, cfg.Storage, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Pipeline.Backend, err)
	}

	return &session{cfg: cfg, logger: logg, backend: b}, nil
}

// namespace returns the namespace selected by --namespace.
func (s *session) namespace(ctx context.Context) (*pipeline.Namespace, error) {
	return s.root.Child(ctx, namespaceFlag)
}

// confirmDestructiveAction prompts for confirmation unless assumeYes is set.
func confirmDestructiveAction(in io.Reader, out io.Writer, action string, assumeYes bool) bool {
	if assumeYes {
		return true
	}

	fmt.Fprintf(out, "Type 'yes' to %s: ", action)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
