// Command pinctrl-responder serves the pin control protocol for a board.
//
// The responder loads a resource catalog, binds one listener per agent
// channel and routes every command to the shared ownership table. Pins are
// driven by simulated in-memory controllers.
//
// Usage:
//
//	pinctrl-responder [flags]
//
// Flags:
//
//	-config string        Configuration file path
//	-catalog string       Catalog file (overrides config)
//	-state string         Permission state file (overrides config)
//	-log-level string     Log level: debug, info, warn, error
//	-log-format string    Log format: text, json
//	-protocol-log string  Write protocol events to this CBOR file
//	-mdns                 Advertise TCP channels over mDNS
//	-interactive          Enable the operator console
//	-write-config string  Write the effective configuration and exit
//
// Examples:
//
//	# Reference catalog on the default loopback channels
//	pinctrl-responder -interactive
//
//	# Board configuration with protocol logging
//	pinctrl-responder -config /etc/pinctrl/board0.yaml -protocol-log /var/log/pinctrl.cbor
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/scmi-pinctrl/pinctrl-go/cmd/pinctrl-responder/interactive"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/config"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/driver"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/log"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/persistence"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/service"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/version"
)

// Flags holds the command line. Set flags override the config file.
type Flags struct {
	ConfigFile  string
	Catalog     string
	State       string
	LogLevel    string
	LogFormat   string
	ProtocolLog string
	MDNS        bool
	Interactive bool
	WriteConfig string
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.Catalog, "catalog", "", "Catalog file (overrides config)")
	flag.StringVar(&flags.State, "state", "", "Permission state file (overrides config)")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&flags.LogFormat, "log-format", "", "Log format: text, json")
	flag.StringVar(&flags.ProtocolLog, "protocol-log", "", "Write protocol events to this CBOR file")
	flag.BoolVar(&flags.MDNS, "mdns", false, "Advertise TCP channels over mDNS")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Enable the operator console")
	flag.StringVar(&flags.WriteConfig, "write-config", "", "Write the effective configuration and exit")
}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if flags.WriteConfig != "" {
		if err := config.Save(flags.WriteConfig, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, or the defaults, and applies the
// flags that were set.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if flags.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(flags.ConfigFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "catalog":
			cfg.Catalog = flags.Catalog
		case "state":
			cfg.State = flags.State
		case "log-level":
			cfg.Log.Level = flags.LogLevel
		case "log-format":
			cfg.Log.Format = flags.LogFormat
		case "protocol-log":
			cfg.Log.ProtocolLog = flags.ProtocolLog
		case "mdns":
			cfg.MDNS.Enabled = flags.MDNS
		}
	})
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := config.ParseLevel(cfg.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// board is the set of simulated pin controllers.
type board struct {
	catalog *catalog.Catalog
	drivers []*driver.Memory
}

func newBoard(c *catalog.Catalog) *board {
	n := 0
	for _, p := range c.Pins {
		n = max(n, int(p.Driver)+1)
	}
	b := &board{catalog: c}
	for i := range n {
		b.drivers = append(b.drivers, driver.NewMemory(fmt.Sprintf("ctrl%d", i)))
	}
	return b
}

// PinState implements interactive.Board.
func (b *board) PinState(pin uint16) (driver.PinState, bool) {
	if int(pin) >= len(b.catalog.Pins) {
		return driver.PinState{}, false
	}
	return b.drivers[b.catalog.Pins[pin].Driver].State(pin)
}

func (b *board) bank() (*driver.Bank, error) {
	ds := make([]driver.Driver, len(b.drivers))
	for i, d := range b.drivers {
		ds[i] = d
	}
	return driver.NewBank(b.catalog, ds...)
}

// logSink is a writer whose target can change after loggers are built.
type logSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *logSink) redirect(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

func run(cfg *config.Config) error {
	sink := &logSink{w: os.Stderr}
	logger := newLogger(cfg, sink)

	cat, err := cfg.LoadCatalog()
	if err != nil {
		return err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	table, err := ownership.New(cat, registry.Count())
	if err != nil {
		return err
	}

	var store *persistence.PermissionStore
	var saved *persistence.PermissionState
	if cfg.State != "" {
		store = persistence.NewPermissionStore(cfg.State)
		if saved, err = store.Load(); err != nil {
			return fmt.Errorf("load permission state: %w", err)
		}
		if err := persistence.Restore(table, saved); err != nil {
			return fmt.Errorf("restore permission state: %w", err)
		}
		if !saved.Empty() {
			logger.Info("restored permissions", "pins", len(saved.Pins), "groups", len(saved.Groups), "functions", len(saved.Functions), "saved_at", saved.SavedAt)
		}
	}
	savePermissions := func() {
		if store == nil {
			return
		}
		current := persistence.Capture(table)
		if current.Equal(saved) {
			return
		}
		if err := store.Save(current); err != nil {
			logger.Warn("save permission state", "error", err)
			return
		}
		saved = current
	}

	sim := newBoard(cat)
	bank, err := sim.bank()
	if err != nil {
		return err
	}
	if err := bank.Init(); err != nil {
		return fmt.Errorf("init drivers: %w", err)
	}
	defer bank.Close()
	table.SetApplier(bank)

	svcConfig, err := cfg.ServiceConfig()
	if err != nil {
		return err
	}
	svcConfig.Logger = logger

	var fileLog *log.FileLogger
	if cfg.Log.ProtocolLog != "" {
		if fileLog, err = log.NewFileLogger(cfg.Log.ProtocolLog); err != nil {
			return fmt.Errorf("protocol log: %w", err)
		}
		defer fileLog.Close()
		svcConfig.ProtocolLogger = log.NewMultiLogger(fileLog, log.NewSlogAdapter(logger))
	} else {
		svcConfig.ProtocolLogger = log.NewSlogAdapter(logger)
	}

	resp, err := service.NewResponder(table, registry, svcConfig)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var console *interactive.Console
	if flags.Interactive {
		if console, err = interactive.New(resp, sim); err != nil {
			return err
		}
		// Route log output through readline so it does not break the prompt.
		sink.redirect(console.Stdout())
	} else {
		resp.OnEvent(func(e service.Event) { logEvent(logger, e) })
	}

	if err := resp.Start(ctx); err != nil {
		return fmt.Errorf("start responder: %w", err)
	}
	logger.Info("responder started",
		"name", svcConfig.Name,
		"version", version.Supported()[0].String(),
		"pins", len(cat.Pins), "groups", len(cat.Groups), "functions", len(cat.Functions),
		"agents", registry.Count())
	for _, a := range registry.List() {
		if addr, err := resp.Addr(a.ID); err == nil {
			logger.Info("channel", "agent", a.String(), "addr", addr.String())
		}
	}

	if console != nil {
		go console.Run(ctx, cancel)
	}

	// Housekeeping: flush the protocol log and persist permission changes.
	housekeeping := make(chan struct{})
	go func() {
		defer close(housekeeping)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if fileLog != nil {
					_ = fileLog.Flush()
				}
				savePermissions()
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := resp.Stop(stopCtx); err != nil {
		logger.Warn("stop responder", "error", err)
	}
	cancel()
	<-housekeeping
	savePermissions()
	if fileLog != nil && fileLog.Dropped() > 0 {
		logger.Warn("protocol log dropped events", "count", fileLog.Dropped())
	}
	return nil
}

func logEvent(logger *slog.Logger, event service.Event) {
	switch event.Type {
	case service.EventConnected, service.EventDisconnected:
		logger.Info("agent "+event.Type.String(), "agent", event.AgentID)
	case service.EventResourcesReleased:
		logger.Info("released agent resources", "agent", event.AgentID, "count", event.Released)
	case service.EventOwnershipChanged:
		logger.Debug("ownership", "change", event.Transition.String())
	}
}
