// Package interactive provides the operator console of the pin control
// responder.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/driver"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/inspect"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/service"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// Board exposes the simulated pin state behind the responder.
type Board interface {
	PinState(pin uint16) (driver.PinState, bool)
}

// Console handles interactive mode for pinctrl-responder.
type Console struct {
	resp      *service.Responder
	board     Board
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	rl        *readline.Instance
	out       io.Writer
}

// New creates a console on the terminal. board may be nil.
func New(resp *service.Responder, board Board) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pinctrl> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := newConsole(resp, board, rl.Stdout())
	c.rl = rl
	resp.OnEvent(c.handleEvent)
	return c, nil
}

func newConsole(resp *service.Responder, board Board, out io.Writer) *Console {
	insp := inspect.NewInspector(resp.Table())
	return &Console{
		resp:      resp,
		board:     board,
		inspector: insp,
		formatter: inspect.NewFormatter(insp.Catalog()),
		out:       out,
	}
}

func completer() *readline.PrefixCompleter {
	kinds := func() []readline.PrefixCompleterInterface {
		return []readline.PrefixCompleterInterface{
			readline.PcItem("pin/"), readline.PcItem("group/"), readline.PcItem("function/"),
		}
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("status"),
		readline.PcItem("agents"),
		readline.PcItem("list", readline.PcItem("pins"), readline.PcItem("groups"), readline.PcItem("functions")),
		readline.PcItem("inspect", kinds()...),
		readline.PcItem("owners"),
		readline.PcItem("grant"),
		readline.PcItem("revoke"),
		readline.PcItem("release", kinds()...),
		readline.PcItem("reset"),
		readline.PcItem("pin"),
		readline.PcItem("quit"),
	)
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.out
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if !c.Execute(line) {
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns false when the console should
// exit.
func (c *Console) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
	case "status":
		c.cmdStatus()
	case "agents", "a":
		c.cmdAgents()
	case "list", "ls":
		c.cmdList(args)
	case "inspect", "i":
		c.cmdInspect(args)
	case "owners", "o":
		c.cmdOwners(args)
	case "grant":
		c.cmdPermission(args, true)
	case "revoke":
		c.cmdPermission(args, false)
	case "release":
		c.cmdRelease(args)
	case "reset":
		c.cmdReset(args)
	case "pin":
		c.cmdPin(args)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Pin Control Responder Commands:
  Inspection:
    status                 - Show responder status
    agents                 - List agents and connections
    list <kind>            - List pins, groups or functions
    inspect <path>         - Show one resource
    owners [agent]         - Show owned pins and groups
    pin <id>               - Show simulated pin state

  Administration:
    grant <agent> <path>   - Allow an agent to use a resource
    revoke <agent> <path>  - Revoke access (releases it if owned)
    release <path>         - Force release of a pin or group
    reset <agent>          - Release everything an agent owns

  General:
    help                   - Show this help
    quit                   - Exit responder

  Path Format:
    kind/resource - e.g., group/grp_gpio0, pin/3, function/f_uart`)
}

func (c *Console) cmdStatus() {
	fmt.Fprintf(c.out, "State:       %s\n", c.resp.State())
	fmt.Fprintf(c.out, "Connections: %d\n", c.resp.ConnectionCount())
	for _, a := range c.resp.Registry().List() {
		if addr, err := c.resp.Addr(a.ID); err == nil {
			fmt.Fprintf(c.out, "Channel:     %s -> %s\n", a.String(), addr)
		}
	}
	for _, info := range c.resp.Advertised() {
		fmt.Fprintf(c.out, "Advertised:  %s port %d\n", info.InstanceName(), info.Port)
	}
}

func (c *Console) cmdAgents() {
	snap := c.resp.Table().Snapshot()
	for _, a := range c.resp.Registry().List() {
		role := "agent"
		if a.Privileged {
			role = "privileged"
		}
		pins, groups := snap.Owned(a.ID)
		seen := "never"
		if !a.LastSeen.IsZero() {
			seen = a.LastSeen.Format(time.TimeOnly)
		}
		fmt.Fprintf(c.out, "  %-16s %-10s conns=%d owns=%dp/%dg last=%s\n",
			a.String(), role, a.Connections, len(pins), len(groups), seen)
	}
}

func (c *Console) cmdList(args []string) {
	kind := "pins"
	if len(args) > 0 {
		kind = args[0]
	}
	path, err := inspect.ParsePath(kind)
	if err != nil || !path.IsPartial {
		fmt.Fprintln(c.out, "Usage: list <pins|groups|functions>")
		return
	}
	if err := c.formatter.WriteTable(c.out, c.inspector.List(path.Selector)); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func (c *Console) cmdInspect(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: inspect <path>")
		return
	}
	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	if path.IsPartial {
		c.cmdList(args)
		return
	}
	info, err := c.inspector.Inspect(path)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(c.out, c.formatter.FormatResource(info))
}

func (c *Console) cmdOwners(args []string) {
	var owned []inspect.ResourceInfo
	if len(args) > 0 {
		id, err := c.agentID(args[0])
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
		owned = c.inspector.Owned(id)
	} else {
		tree := c.inspector.InspectTable()
		for _, r := range append(tree.Pins, tree.Groups...) {
			if _, ok := r.Owner.Agent(); ok {
				owned = append(owned, r)
			}
		}
	}
	if len(owned) == 0 {
		fmt.Fprintln(c.out, "No owned resources")
		return
	}
	for _, r := range owned {
		fmt.Fprintf(c.out, "  %-8s %-20s %s\n", r.Selector, r.Name, r.Owner)
	}
}

func (c *Console) cmdPermission(args []string, allow bool) {
	if len(args) < 2 {
		fmt.Fprintln(c.out, "Usage: grant|revoke <agent> <path>")
		return
	}
	id, err := c.agentID(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	path, ok := c.resolve(args[1])
	if !ok {
		return
	}
	st := c.resp.Table().SetPermission(path.Selector, path.ID, id, allow)
	c.printStatus(st)
}

func (c *Console) cmdRelease(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: release <path>")
		return
	}
	path, ok := c.resolve(args[0])
	if !ok {
		return
	}
	table := c.resp.Table()
	owner, st := table.Owner(path.Selector, path.ID)
	if st.IsError() {
		c.printStatus(st)
		return
	}
	agent, owned := owner.Agent()
	if !owned {
		fmt.Fprintln(c.out, "Not owned")
		return
	}
	c.printStatus(table.Release(path.Selector, path.ID, agent))
}

func (c *Console) cmdReset(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: reset <agent>")
		return
	}
	id, err := c.agentID(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	n := c.resp.Table().ReleaseAll(id)
	fmt.Fprintf(c.out, "Released %d resources\n", n)
}

func (c *Console) cmdPin(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: pin <id|name>")
		return
	}
	path, ok := c.resolve("pin/" + args[0])
	if !ok {
		return
	}
	if c.board == nil {
		fmt.Fprintln(c.out, "No simulated board")
		return
	}
	state, ok := c.board.PinState(path.ID)
	if !ok {
		fmt.Fprintln(c.out, "Pin never configured")
		return
	}
	fmt.Fprintf(c.out, "function:  %s\n", inspectFunction(c.inspector, state.Function))
	fmt.Fprintf(c.out, "direction: %d\n", state.Direction)
	fmt.Fprintf(c.out, "level:     %d\n", state.Level)
	for ct := wire.ConfigType(0); ct <= wire.ConfigSlewRate; ct++ {
		if v, ok := state.Configs[ct]; ok {
			fmt.Fprintf(c.out, "  %s=%d\n", ct, v)
		}
	}
}

func inspectFunction(insp *inspect.Inspector, fn uint32) string {
	r := inspect.ResourceInfo{Function: fn}
	return r.FunctionName(insp.Catalog())
}

// resolve parses a path naming one resource.
func (c *Console) resolve(s string) (*inspect.Path, bool) {
	path, err := inspect.ParsePath(s)
	if err == nil && path.IsPartial {
		err = inspect.ErrPartialPath
	}
	if err == nil {
		err = path.Resolve(c.inspector.Catalog())
	}
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return nil, false
	}
	return path, true
}

// agentID resolves an agent name or id.
func (c *Console) agentID(s string) (uint32, error) {
	reg := c.resp.Registry()
	if id, ok := reg.Lookup(s); ok {
		return id, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || !reg.Has(uint32(n)) {
		return 0, fmt.Errorf("unknown agent %q", s)
	}
	return uint32(n), nil
}

func (c *Console) printStatus(st wire.Status) {
	if st.IsError() {
		fmt.Fprintf(c.out, "Failed: %s\n", st)
		return
	}
	fmt.Fprintln(c.out, "OK")
}

func (c *Console) handleEvent(event service.Event) {
	switch event.Type {
	case service.EventConnected:
		fmt.Fprintf(c.out, "[EVENT] Agent %d connected\n", event.AgentID)
	case service.EventDisconnected:
		fmt.Fprintf(c.out, "[EVENT] Agent %d disconnected\n", event.AgentID)
	case service.EventOwnershipChanged:
		fmt.Fprintf(c.out, "[EVENT] %s\n", event.Transition)
	case service.EventResourcesReleased:
		fmt.Fprintf(c.out, "[EVENT] Released %d resources of agent %d\n", event.Released, event.AgentID)
	}
}
