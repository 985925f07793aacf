package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu      sync.Mutex
	servers map[uint32]*zeroconf.Server // keyed by agent id
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) *MDNSAdvertiser {
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	return &MDNSAdvertiser{
		config:  config,
		servers: make(map[uint32]*zeroconf.Server),
	}
}

// AdvertiseChannel registers the channel as an instance of ServiceType.
func (a *MDNSAdvertiser) AdvertiseChannel(ctx context.Context, info *ChannelInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if server, exists := a.servers[info.AgentID]; exists {
		server.Shutdown()
		delete(a.servers, info.AgentID)
	}

	server, err := zeroconf.Register(
		info.InstanceName(),
		ServiceType,
		Domain,
		int(info.Port),
		TXTRecordsToStrings(EncodeChannelTXT(info)),
		interfaces(a.config.Interface),
		zeroconf.TTL(uint32(a.config.TTL.Seconds())),
	)
	if err != nil {
		return fmt.Errorf("failed to register channel of agent %d: %w", info.AgentID, err)
	}

	a.servers[info.AgentID] = server
	return nil
}

// StopChannel withdraws one agent's advertisement.
func (a *MDNSAdvertiser) StopChannel(agentID uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	server, exists := a.servers[agentID]
	if !exists {
		return ErrNotFound
	}
	server.Shutdown()
	delete(a.servers, agentID)
	return nil
}

// StopAll withdraws every advertisement.
func (a *MDNSAdvertiser) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for id, server := range a.servers {
		server.Shutdown()
		delete(a.servers, id)
	}
}

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig

	mu      sync.Mutex
	cancels []context.CancelFunc
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) *MDNSBrowser {
	return &MDNSBrowser{config: config}
}

// BrowseChannels searches for responder channels. Entries seen on several
// interfaces are merged into one service per instance name.
func (b *MDNSBrowser) BrowseChannels(ctx context.Context) (<-chan *ChannelService, error) {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancels = append(b.cancels, cancel)
	b.mu.Unlock()

	out := make(chan *ChannelService)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	var opts []zeroconf.ClientOption
	if ifaces := interfaces(b.config.Interface); ifaces != nil {
		opts = append(opts, zeroconf.SelectIfaces(ifaces))
	}

	go func() {
		defer close(out)

		services := make(map[string]*ChannelService)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToChannel(entry)
				if svc == nil {
					continue
				}
				if existing, found := services[svc.InstanceName]; found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
					continue
				}
				services[svc.InstanceName] = svc
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				if existing, found := services[entry.Instance]; found {
					existing.Addresses = removeAddresses(existing.Addresses, entry)
					if len(existing.Addresses) == 0 {
						delete(services, entry.Instance)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// FindAgent browses until a channel serving agentID shows up.
func (b *MDNSBrowser) FindAgent(ctx context.Context, agentID uint32) (*ChannelService, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results, err := b.BrowseChannels(ctx)
	if err != nil {
		return nil, err
	}
	for svc := range results {
		if svc.AgentID == agentID {
			return svc, nil
		}
	}
	if ctx.Err() == context.DeadlineExceeded {
		return nil, ErrBrowseTimeout
	}
	return nil, ErrNotFound
}

// Stop stops all active browsing operations.
func (b *MDNSBrowser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
}

// interfaces resolves a configured interface name. Nil means all.
func interfaces(name string) []net.Interface {
	if name == "" {
		return nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// entryToChannel converts a zeroconf entry, dropping entries whose TXT
// records do not describe a channel.
func entryToChannel(entry *zeroconf.ServiceEntry) *ChannelService {
	svc, err := DecodeChannelTXT(StringsToTXTRecords(entry.Text))
	if err != nil {
		return nil
	}

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	svc.InstanceName = entry.Instance
	svc.Host = entry.HostName
	svc.Port = uint16(entry.Port)
	svc.Addresses = addrs
	return svc
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, added []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}
	for _, addr := range added {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes the addresses of a zeroconf entry from the list.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	gone := make(map[string]bool)
	for _, ip := range entry.AddrIPv4 {
		gone[ip.String()] = true
	}
	for _, ip := range entry.AddrIPv6 {
		gone[ip.String()] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !gone[addr] {
			result = append(result, addr)
		}
	}
	return result
}

var (
	_ Advertiser = (*MDNSAdvertiser)(nil)
	_ Browser    = (*MDNSBrowser)(nil)
)
