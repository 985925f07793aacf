package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/client"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/inspect"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// NewRequestCommand creates the request command.
func NewRequestCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "request <path>",
		Short: "Take exclusive ownership of a pin or group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withResource(cmd, args[0], func(ctx context.Context, cl *client.Client, sel wire.Selector, id uint16) error {
				return cl.Request(ctx, sel, id)
			})
		},
	}
}

// NewReleaseCommand creates the release command.
func NewReleaseCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "release <path>",
		Short: "Give up ownership of a pin or group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withResource(cmd, args[0], func(ctx context.Context, cl *client.Client, sel wire.Selector, id uint16) error {
				return cl.Release(ctx, sel, id)
			})
		},
	}
}

// NewConfigureCommand creates the configure command.
func NewConfigureCommand(opts *Options) *cobra.Command {
	var function string

	cmd := &cobra.Command{
		Use:   "configure <path> [type=value ...]",
		Short: "Select a function and write configs on an owned pin or group",
		Long: `Select a function and write configs on an owned pin or group.

Configs are given as type=value pairs, separately or comma-separated. A bare
type sets the value 1. The function is left unchanged unless --function is
given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := inspect.ParseConfigs(strings.Join(args[1:], ","))
			if err != nil {
				return err
			}
			if function == "" && len(configs) == 0 {
				return errors.New("nothing to configure: give --function or configs")
			}
			return opts.withResource(cmd, args[0], func(ctx context.Context, cl *client.Client, sel wire.Selector, id uint16) error {
				fn, err := resolveFunction(ctx, cl, function)
				if err != nil {
					return err
				}
				return cl.SettingsConfigure(ctx, sel, id, fn, configs)
			})
		},
	}
	cmd.Flags().StringVarP(&function, "function", "f", "", "function name or id to select")
	return cmd
}

// NewPermissionCommand creates the grant or revoke command.
func NewPermissionCommand(opts *Options, allow bool) *cobra.Command {
	use, short := "revoke", "Deny an agent access to a pin, group or function"
	if allow {
		use, short = "grant", "Allow an agent access to a pin, group or function"
	}
	return &cobra.Command{
		Use:   use + " <agent-id> <path>",
		Short: short,
		Long:  short + ".\n\nOnly privileged agents may change permissions.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := strconv.ParseUint(args[0], 0, 32)
			if err != nil {
				return fmt.Errorf("invalid agent id %q", args[0])
			}
			return opts.withResource(cmd, args[1], func(ctx context.Context, cl *client.Client, sel wire.Selector, id uint16) error {
				return cl.SetPermissions(ctx, uint32(agent), sel, id, allow)
			})
		},
	}
}

// withResource connects, resolves the path to an identifier and runs fn,
// printing the resulting status.
func (o *Options) withResource(cmd *cobra.Command, arg string, fn func(ctx context.Context, cl *client.Client, sel wire.Selector, id uint16) error) error {
	path, err := inspect.ParsePath(arg)
	if err != nil {
		return err
	}
	if path.IsPartial {
		return inspect.ErrPartialPath
	}
	ctx, cl, done, err := o.session(cmd)
	if err != nil {
		return err
	}
	defer done()

	id := path.ID
	if path.Name != "" {
		info, err := inspect.NewRemoteInspector(cl).Inspect(ctx, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		id = info.ID
	}

	err = fn(ctx, cl, path.Selector, id)
	var se *client.StatusError
	if err == nil || errors.As(err, &se) {
		printStatus(cmd, client.StatusOf(err))
	}
	return err
}

// resolveFunction accepts an id, "none", or a name looked up over the
// channel.
func resolveFunction(ctx context.Context, session inspect.Session, s string) (uint32, error) {
	fn, err := inspect.ResolveFunction(nil, s)
	if !errors.Is(err, inspect.ErrUnknownName) {
		return fn, err
	}
	functions, err := inspect.NewRemoteInspector(session).List(ctx, wire.SelectorFunction)
	if err != nil {
		return 0, err
	}
	for _, f := range functions {
		if f.Name == s {
			return uint32(f.ID), nil
		}
	}
	return 0, fmt.Errorf("%w: function %q", inspect.ErrUnknownName, s)
}

func printStatus(cmd *cobra.Command, st wire.Status) {
	if st.IsError() {
		fmt.Fprintln(cmd.OutOrStdout(), color.RedString(st.String()))
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("OK"))
}
