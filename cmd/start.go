package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pipeline-storage/core/loader"
	"pipeline-storage/core/logger"
	"pipeline-storage/core/middleware/auth"
	"pipeline-storage/core/middleware/rayid"
	"pipeline-storage/feature/artifacts"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "pipeline-storage/docs/swagger"
)

// @title Pipeline Storage API
// @version 1.0
// @description API for storing and discovering pipeline artifacts.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the pipeline storage server",
	Long:  `Opens the configured backend and serves the artifacts API until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		logg := s.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !s.cfg.Server.IsValidPort() {
			return fmt.Errorf("invalid server port %q", s.cfg.Server.Port)
		}

		app := newApp(s)

		go func() {
			logg.Info("Starting server",
				zap.String("port", s.cfg.Server.Port),
				zap.String("backend", s.cfg.Pipeline.Backend),
				zap.String("root_prefix", s.root.Root()),
			)
			if err := app.Listen(s.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

// newApp builds the fiber application serving the root namespace of s.
func newApp(s *session) *fiber.App {
	logg := s.logger

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             s.cfg.Server.BodyLimit(),
		Immutable:             true,
	})

	// RayID first so every log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Public
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.New(auth.Config{ApiKey: s.cfg.Server.ApiKey}))

	mgr := loader.NewManager()
	mgr.Register(artifacts.NewFeature(s.root, logg))
	if err := mgr.LoadAll(app); err != nil {
		logg.Fatal("Failed to load features", zap.Error(err))
	}

	return app
}

func init() {
	RootCmd.AddCommand(startCmd)
}
