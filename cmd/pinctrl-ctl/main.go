// Command pinctrl-ctl talks to a pin control responder over one agent
// channel.
//
// Examples:
//
//	# Resources visible to the agent on the default channel
//	pinctrl-ctl list groups
//
//	# Claim a group and select a function on it
//	pinctrl-ctl request group/grp_gpio_i2c0
//	pinctrl-ctl configure group/grp_gpio_i2c0 --function f_i2c bias-pull-up drive-strength=8
//
//	# Grant agent 1 access to pin 8 from the privileged channel
//	pinctrl-ctl --addr 127.0.0.1:4190 grant 1 pin/8
//
//	# Find advertised channels on the local network
//	pinctrl-ctl discover --timeout 3s
package main

import (
	"os"

	"github.com/scmi-pinctrl/pinctrl-go/cmd/pinctrl-ctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
