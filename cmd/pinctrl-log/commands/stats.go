package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/log"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByLayer    map[log.Layer]int
	EventsByCategory map[log.Category]int
	Messages         map[wire.MessageID]*MessageStats
	Agents           map[uint32]*AgentStats
	Connections      int
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// MessageStats counts one message id.
type MessageStats struct {
	Count    int
	Failures map[wire.Status]int
	Total    time.Duration
}

// AgentStats holds statistics for a single agent.
type AgentStats struct {
	Messages    int
	Failures    int
	Acquired    int
	Released    int
	Connections map[string]bool
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats, err := collectStats(reader)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(reader *log.Reader) (*Stats, error) {
	stats := &Stats{
		EventsByLayer:    make(map[log.Layer]int),
		EventsByCategory: make(map[log.Category]int),
		Messages:         make(map[wire.MessageID]*MessageStats),
		Agents:           make(map[uint32]*AgentStats),
	}
	conns := make(map[string]bool)

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}
		if event.ConnectionID != "" {
			conns[event.ConnectionID] = true
		}

		var agent *AgentStats
		if event.AgentID != nil {
			agent = stats.Agents[*event.AgentID]
			if agent == nil {
				agent = &AgentStats{Connections: make(map[string]bool)}
				stats.Agents[*event.AgentID] = agent
			}
			if event.ConnectionID != "" {
				agent.Connections[event.ConnectionID] = true
			}
		}

		if m := event.Message; m != nil {
			ms := stats.Messages[m.MessageID]
			if ms == nil {
				ms = &MessageStats{Failures: make(map[wire.Status]int)}
				stats.Messages[m.MessageID] = ms
			}
			ms.Count++
			if m.ProcessingTime != nil {
				ms.Total += *m.ProcessingTime
			}
			failed := m.Status != nil && m.Status.IsError()
			if failed {
				ms.Failures[*m.Status]++
			}
			if agent != nil {
				agent.Messages++
				if failed {
					agent.Failures++
				}
			}
		}

		if o := event.Ownership; o != nil && agent != nil {
			if o.Kind == ownership.Acquired.String() {
				agent.Acquired++
			} else {
				agent.Released++
			}
		}

		if event.Error != nil {
			stats.Errors++
		}
	}
	stats.Connections = len(conns)
	return stats, nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Pin Control Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Connections:  %d\n", stats.Connections)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerProtocol, log.LayerService} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryOwnership, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}

	if len(stats.Messages) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Messages:")
		ids := make([]wire.MessageID, 0, len(stats.Messages))
		for id := range stats.Messages {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			ms := stats.Messages[id]
			avg := time.Duration(0)
			if ms.Count > 0 {
				avg = ms.Total / time.Duration(ms.Count)
			}
			fmt.Fprintf(w, "  %-30s %6d  avg %s\n", id.String(), ms.Count, formatDuration(avg))
			statuses := make([]wire.Status, 0, len(ms.Failures))
			for st := range ms.Failures {
				statuses = append(statuses, st)
			}
			sort.Slice(statuses, func(i, j int) bool { return statuses[i] > statuses[j] })
			for _, st := range statuses {
				fmt.Fprintf(w, "    %-28s %6d\n", st.String(), ms.Failures[st])
			}
		}
	}

	if len(stats.Agents) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Agents:")
		ids := make([]uint32, 0, len(stats.Agents))
		for id := range stats.Agents {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			a := stats.Agents[id]
			fmt.Fprintf(w, "  [agent %d] %d messages, %d failed, %d acquired, %d released, %d connections\n",
				id, a.Messages, a.Failures, a.Acquired, a.Released, len(a.Connections))
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
