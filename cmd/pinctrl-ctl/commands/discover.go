package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/discovery"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/version"
)

// NewDiscoverCommand creates the discover command.
func NewDiscoverCommand() *cobra.Command {
	var (
		timeout time.Duration
		iface   string
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Browse for responder channels advertised over mDNS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			browser := discovery.NewMDNSBrowser(discovery.BrowserConfig{Interface: iface})
			defer browser.Stop()

			results, err := browser.BrowseChannels(ctx)
			if err != nil {
				return err
			}
			return writeChannels(cmd, results)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to browse")
	cmd.Flags().StringVar(&iface, "interface", "", "network interface (default: all)")
	return cmd
}

func writeChannels(cmd *cobra.Command, results <-chan *discovery.ChannelService) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RESPONDER\tAGENT\tADDRESS\tVERSION")

	n := 0
	for svc := range results {
		fmt.Fprintf(tw, "%s\t%s(%d)\t%s\t%s\n", svc.InstanceName, svc.AgentName, svc.AgentID, svc.Address(), version.FromWire(svc.Version))
		n++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Found %d channel(s)\n", n)
	return nil
}
