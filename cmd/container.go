package cmd

import (
	"errors"
	"fmt"

	"pipeline-storage/core/database"
	"pipeline-storage/core/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	containerForce bool
	containerYes   bool
)

// containerCmd is the parent command for backend container management.
var containerCmd = &cobra.Command{
	Use:   "container",
	Short: "Manage the backend container (bucket or database partition)",
}

// containerStatusCmd reports whether the container exists.
var containerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the container exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openBackendSession()
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		exists, err := s.backend.ContainerExists(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", pipeline.ErrStorageUnavailable, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "backend: %s\nexists: %t\n", s.cfg.Pipeline.Backend, exists)

		store, ok := s.backend.(*database.ObjectStore)
		if !ok || !exists {
			return nil
		}

		missing, err := store.VerifySchema(ctx)
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if len(missing) > 0 {
			s.logger.Warn("Missing Columns", zap.Strings("columns", missing))
			return fmt.Errorf("object table is missing %d columns", len(missing))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema: ok")
		return nil
	},
}

// containerCreateCmd creates the container when it is missing.
var containerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the container if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		if err := s.root.CreateContainer(ctx); err != nil {
			return err
		}
		s.logger.Info("Container ready", zap.String("backend", s.cfg.Pipeline.Backend))
		return nil
	},
}

// containerDeleteCmd deletes the container.
var containerDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the container (--force removes its objects first)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openBackendSession()
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		exists, err := s.backend.ContainerExists(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", pipeline.ErrStorageUnavailable, err)
		}
		if !exists {
			s.logger.Info("Container does not exist, nothing to delete")
			return nil
		}

		if !confirmDestructiveAction(cmd.InOrStdin(), cmd.OutOrStdout(), "delete the container", containerYes) {
			s.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		if err := s.backend.DeleteContainer(ctx, containerForce); err != nil {
			if errors.Is(err, pipeline.ErrContainerNotEmpty) {
				return fmt.Errorf("%w (use --force to remove its objects)", err)
			}
			return fmt.Errorf("%w: %w", pipeline.ErrStorageUnavailable, err)
		}
		s.logger.Info("Container deleted", zap.Bool("force", containerForce))
		return nil
	},
}

func init() {
	containerDeleteCmd.Flags().BoolVar(&containerForce, "force", false, "Remove every object before deleting the container")
	containerDeleteCmd.Flags().BoolVar(&containerYes, "yes", false, "Auto-confirm (non-interactive)")

	containerCmd.AddCommand(containerStatusCmd, containerCreateCmd, containerDeleteCmd)
	RootCmd.AddCommand(containerCmd)
}
