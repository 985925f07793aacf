package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeChannelTXT creates the TXT records of a channel.
func EncodeChannelTXT(info *ChannelInfo) TXTRecordMap {
	proto := info.Protocol
	if proto == 0 {
		proto = wire.ProtocolID
	}
	ver := info.Version
	if ver == 0 {
		ver = wire.ProtocolVersion
	}

	txt := TXTRecordMap{
		TXTKeyProtocol: fmt.Sprintf("0x%x", proto),
		TXTKeyVersion:  fmt.Sprintf("0x%x", ver),
		TXTKeyAgent:    strconv.FormatUint(uint64(info.AgentID), 10),
	}
	if info.AgentName != "" {
		txt[TXTKeyName] = info.AgentName
	}
	return txt
}

// DecodeChannelTXT parses the TXT records of a channel. Host, port and
// addresses are left for the caller.
func DecodeChannelTXT(txt TXTRecordMap) (*ChannelService, error) {
	svc := &ChannelService{}

	s, ok := txt[TXTKeyProtocol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyProtocol)
	}
	proto, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, TXTKeyProtocol, s)
	}
	svc.Protocol = uint8(proto)

	s, ok = txt[TXTKeyVersion]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}
	ver, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, TXTKeyVersion, s)
	}
	svc.Version = uint32(ver)

	s, ok = txt[TXTKeyAgent]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyAgent)
	}
	agent, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, TXTKeyAgent, s)
	}
	svc.AgentID = uint32(agent)

	svc.AgentName = txt[TXTKeyName]
	return svc, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, found := strings.Cut(s, "=")
		if !found && k == "" {
			continue
		}
		txt[k] = v
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}

// instanceName builds "<responder>-a<agent>", shortening the responder
// part so the label stays within MaxInstanceNameLen.
func instanceName(responder string, agent uint32) string {
	suffix := "-a" + strconv.FormatUint(uint64(agent), 10)
	if responder == "" {
		responder = "pinctrl"
	}
	if limit := MaxInstanceNameLen - len(suffix); len(responder) > limit {
		responder = responder[:limit]
	}
	return responder + suffix
}

func joinHostPort(host string, port uint16) string {
	return net.JoinHostPort(strings.TrimSuffix(host, "."), strconv.Itoa(int(port)))
}
