// Package commands implements the pinctrl-ctl command tree.
package commands

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/client"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/version"
)

var (
	// Build information, set with -ldflags.
	Version   = "dev"
	GitCommit = "unknown"
)

// Defaults for the global flags.
const (
	DefaultAddress = "127.0.0.1:4191"
	DefaultNetwork = "tcp"
	DefaultTimeout = 5 * time.Second
)

// Options are the global flags shared by every command.
type Options struct {
	Address string
	Network string
	Timeout time.Duration
	NoColor bool

	// dial connects to the responder. Replaced in tests.
	dial func(ctx context.Context, network, address string) (*client.Client, error)
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &Options{dial: client.Dial}

	rootCmd := &cobra.Command{
		Use:   "pinctrl-ctl",
		Short: "Pin control protocol client",
		Long: `pinctrl-ctl sends pin control commands to a responder over one agent channel.

Resources are addressed as <kind>/<id or name>, for example pin/3,
group/grp_gpio_i2c0 or function/f_uart.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.NoColor {
				color.NoColor = true
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.Address, "addr", "a", DefaultAddress, "responder channel address")
	flags.StringVarP(&opts.Network, "network", "n", DefaultNetwork, "channel network (tcp, unix)")
	flags.DurationVarP(&opts.Timeout, "timeout", "t", DefaultTimeout, "command timeout")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewAttrsCommand(opts))
	rootCmd.AddCommand(NewListCommand(opts))
	rootCmd.AddCommand(NewInspectCommand(opts))
	rootCmd.AddCommand(NewRequestCommand(opts))
	rootCmd.AddCommand(NewReleaseCommand(opts))
	rootCmd.AddCommand(NewConfigureCommand(opts))
	rootCmd.AddCommand(NewPermissionCommand(opts, true))
	rootCmd.AddCommand(NewPermissionCommand(opts, false))
	rootCmd.AddCommand(NewDiscoverCommand())

	return rootCmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pinctrl-ctl version: %s\n", Version)
			fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "Protocol version: %s\n", version.Current)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		},
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// session dials the channel and returns a client with the command timeout
// applied.
func (o *Options) session(cmd *cobra.Command) (context.Context, *client.Client, func(), error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
	cl, err := o.dial(ctx, o.Network, o.Address)
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("connect %s: %w", o.Address, err)
	}
	cl.SetTimeout(o.Timeout)
	return ctx, cl, func() {
		_ = cl.Close()
		cancel()
	}, nil
}
