package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/inspect"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/version"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// NewAttrsCommand creates the attrs command.
func NewAttrsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "attrs",
		Short: "Show protocol version, resource counts and supported messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cl, done, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer done()

			v, err := cl.ProtocolVersion(ctx)
			if err != nil {
				return err
			}
			counts, err := cl.ProtocolAttributes(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version:   %s\n", version.FromWire(v))
			fmt.Fprintf(out, "Pins:      %d\n", counts.Pins)
			fmt.Fprintf(out, "Groups:    %d\n", counts.Groups)
			fmt.Fprintf(out, "Functions: %d\n", counts.Functions)
			fmt.Fprintln(out, "Messages:")
			for _, id := range wire.MessageIDs {
				_, err := cl.MessageAttributes(ctx, id)
				switch {
				case err == nil:
					fmt.Fprintf(out, "  0x%02x %-22s %s\n", uint8(id), id, color.GreenString("supported"))
				case errors.Is(err, wire.ErrNotFound):
					fmt.Fprintf(out, "  0x%02x %-22s %s\n", uint8(id), id, color.YellowString("not supported"))
				default:
					return err
				}
			}
			return nil
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:       "list <pins|groups|functions>",
		Short:     "List the resources visible to the agent",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pins", "groups", "functions"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseKind(args[0])
			if err != nil {
				return err
			}
			ctx, cl, done, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer done()

			resources, err := inspect.NewRemoteInspector(cl).List(ctx, sel)
			if err != nil {
				return err
			}
			if len(resources) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No %ss visible\n", sel)
				return nil
			}
			return remoteFormatter().WriteTable(cmd.OutOrStdout(), resources)
		},
	}
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>",
		Short: "Show one resource with its members and settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := inspect.ParsePath(args[0])
			if err != nil {
				return err
			}
			ctx, cl, done, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer done()

			info, err := inspect.NewRemoteInspector(cl).Inspect(ctx, path)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), remoteFormatter().FormatResource(info))
			return nil
		},
	}
}

// remoteFormatter omits what an agent cannot observe over its channel.
func remoteFormatter() *inspect.Formatter {
	f := inspect.NewFormatter(nil)
	f.ShowOwner = false
	f.ShowPermissions = false
	return f
}

// parseKind parses a resource kind such as "pins" or "group".
func parseKind(s string) (wire.Selector, error) {
	sel, ok := wire.ParseSelector(strings.ToLower(s))
	if !ok {
		return 0, fmt.Errorf("%w: %q", inspect.ErrUnknownSelector, s)
	}
	return sel, nil
}
