package keytoolcli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/neuroplastio/keyinfo/pkg/keytool"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	cmd := NewRootCmd(defaultConfigPath())
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "keytool", "keytool.yml")
}

type toolProvider func() *keytool.Tool

func NewRootCmd(configPath string) *cobra.Command {
	var overrides keytool.Overrides
	rootCmd := &cobra.Command{
		Use:           "keytool",
		Short:         "Key label resolver",
		Long:          `keytool resolves key labels such as "Enter", "ArrowUp" or "a" to KeyboardEvent codes and legacy virtual key codes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	var t *keytool.Tool
	provider := func() *keytool.Tool {
		return t
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", configPath, "config file (.yml or .toml)")
	rootCmd.PersistentFlags().StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&overrides.Output, "output", "o", "", "output format (text, json, yaml)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		t, err = keytool.NewTool(configPath, overrides, cmd.ErrOrStderr())
		return err
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return t.Close()
	}
	rootCmd.AddCommand(NewResolve(provider))
	rootCmd.AddCommand(NewTable(provider))
	rootCmd.AddCommand(NewVersion())
	return rootCmd
}

func NewResolve(tool toolProvider) *cobra.Command {
	var (
		stdin  bool
		strict bool
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "resolve [label...]",
		Short: "Resolve key labels",
		Long:  `Resolve key labels given as arguments, or one per line from stdin with --stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case stdin && len(args) > 0:
				return fmt.Errorf("labels cannot be combined with --stdin")
			case !stdin && len(args) == 0:
				return fmt.Errorf("usage: resolve <label...> or resolve --stdin")
			case watch && !stdin:
				return fmt.Errorf("--watch requires --stdin")
			}
			if stdin {
				return tool().ResolveStream(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), strict, watch)
			}
			return tool().ResolveLabels(args, cmd.OutOrStdout(), strict)
		},
	}
	cmd.Flags().BoolVar(&stdin, "stdin", false, "read labels from stdin, one per line")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on labels that are not mapped")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload aliases when the config file changes")
	return cmd
}

func NewTable(tool toolProvider) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the key label table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tool().Entries(cmd.OutOrStdout(), group)
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "only print one group (e.g. modifier, media-browser)")
	return cmd
}

func NewVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "keytool %s\n", version)
		},
	}
}
