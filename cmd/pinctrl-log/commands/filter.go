package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the view and filter
// commands. Empty fields match everything.
type FilterOptions struct {
	ConnID     string
	Agent      int
	Message    string
	TimeStart  string
	TimeEnd    string
	Layer      string
	Direction  string
	Category   string
	OnlyErrors bool
}

// Build converts the options into a log filter. A negative Agent matches
// every agent.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{ConnectionID: o.ConnID, OnlyErrors: o.OnlyErrors}

	if o.Agent >= 0 {
		filter.AgentID = log.Agent(uint32(o.Agent))
	}
	if o.Message != "" {
		id, err := ParseMessageFlag(o.Message)
		if err != nil {
			return log.Filter{}, err
		}
		filter.MessageID = &id
	}
	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}
	if o.Layer != "" {
		l, err := ParseLayerFlag(o.Layer)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Layer = &l
	}
	if o.Direction != "" {
		d, err := ParseDirectionFlag(o.Direction)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Direction = &d
	}
	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}
	return filter, nil
}

// RunFilter copies the events of path matching filter to output and
// returns how many were written.
func RunFilter(path, output string, filter log.Filter) (int, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	writer, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			writer.Close()
			return count, fmt.Errorf("failed to read event: %w", err)
		}
		writer.Log(event)
		count++
	}
	if err := writer.Close(); err != nil {
		return count, fmt.Errorf("failed to write output: %w", err)
	}
	return count, nil
}
