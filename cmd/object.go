package cmd

import (
	"fmt"
	"io"
	"os"

	"pipeline-storage/core/pipeline"

	"github.com/spf13/cobra"
)

var (
	objectEncoding string
	objectBinary   bool
	objectFile     string
	clearYes       bool
)

// getCmd prints the content of a key.
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the content stored under a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		ns, err := s.namespace(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if objectBinary {
			data, ok := ns.Get(ctx, args[0])
			if !ok {
				return fmt.Errorf("key %q could not be read", args[0])
			}
			_, err = out.Write(data)
			return err
		}

		text, ok := ns.GetText(ctx, args[0], objectEncoding)
		if !ok {
			return fmt.Errorf("key %q could not be read", args[0])
		}
		_, err = io.WriteString(out, text)
		return err
	},
}

// setCmd stores a value under a key.
var setCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Store a value (or a file with --file) under a key",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var data []byte
		switch {
		case objectFile != "" && len(args) == 2:
			return fmt.Errorf("pass either a value or --file, not both")
		case objectFile != "":
			content, err := os.ReadFile(objectFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", objectFile, err)
			}
			data = content
		case len(args) == 2:
			data = []byte(args[1])
		default:
			return fmt.Errorf("a value or --file is required")
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		ns, err := s.namespace(ctx)
		if err != nil {
			return err
		}

		var result pipeline.WriteResult
		if objectEncoding != "" {
			result = ns.SetText(ctx, args[0], string(data), objectEncoding)
		} else {
			result = ns.Set(ctx, args[0], data)
		}
		if !result.Persisted() {
			return fmt.Errorf("key %q was not persisted: %w", result.Key, result.Err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Address)
		return nil
	},
}

// hasCmd reports whether a key exists.
var hasCmd = &cobra.Command{
	Use:   "has <key>",
	Short: "Report whether a key exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		ns, err := s.namespace(ctx)
		if err != nil {
			return err
		}

		exists, err := ns.Has(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), exists)
		return nil
	},
}

// deleteCmd removes a key.
var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		ns, err := s.namespace(ctx)
		if err != nil {
			return err
		}
		return ns.Delete(ctx, args[0])
	},
}

// clearCmd removes every key of the namespace.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every key of the namespace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		ns, err := s.namespace(ctx)
		if err != nil {
			return err
		}

		action := fmt.Sprintf("clear namespace %q", ns.Root())
		if !confirmDestructiveAction(cmd.InOrStdin(), cmd.OutOrStdout(), action, clearYes) {
			s.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		return ns.Clear(ctx)
	},
}

func init() {
	getCmd.Flags().StringVar(&objectEncoding, "encoding", "", "Text encoding (defaults to the configured encoding)")
	getCmd.Flags().BoolVar(&objectBinary, "binary", false, "Print raw bytes without decoding")
	setCmd.Flags().StringVar(&objectEncoding, "encoding", "", "Encode the value with this text encoding")
	setCmd.Flags().StringVarP(&objectFile, "file", "f", "", "Read the value from a file")
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Auto-confirm (non-interactive)")

	RootCmd.AddCommand(getCmd, setCmd, hasCmd, deleteCmd, clearCmd)
}
