package inspect

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowPermissions includes the permission mask column
	ShowPermissions bool

	// ShowIDs includes numeric IDs alongside names
	ShowIDs bool

	// ShowOwner includes the owning agent. Owners are not visible over a
	// channel.
	ShowOwner bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int

	// Catalog resolves member and function names. Optional.
	Catalog *catalog.Catalog
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter(c *catalog.Catalog) *Formatter {
	return &Formatter{
		ShowPermissions: true,
		ShowIDs:         true,
		ShowOwner:       true,
		IndentWidth:     2,
		Catalog:         c,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", depth*width) + content
}

// FormatConfigs formats settings as "type=value" pairs.
func FormatConfigs(configs []wire.ConfigPair) string {
	if len(configs) == 0 {
		return "-"
	}
	parts := make([]string, len(configs))
	for i, c := range configs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// FormatMembers formats member identifiers, with names when the member
// kind can be resolved.
func (f *Formatter) FormatMembers(sel wire.Selector, members []uint16) string {
	if len(members) == 0 {
		return "-"
	}
	memberSel := wire.SelectorPin
	if sel == wire.SelectorFunction {
		memberSel = wire.SelectorGroup
	}
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = f.name(memberSel, m)
	}
	return strings.Join(parts, ",")
}

func (f *Formatter) name(sel wire.Selector, id uint16) string {
	if f.Catalog != nil {
		if n, ok := f.Catalog.Name(sel, id); ok {
			if f.ShowIDs {
				return fmt.Sprintf("%s(%d)", n, id)
			}
			return n
		}
	}
	return strconv.Itoa(int(id))
}

// FormatResource formats one resource as an indented block.
func (f *Formatter) FormatResource(r *ResourceInfo) string {
	var sb strings.Builder
	title := r.Name
	if f.ShowIDs || title == "" {
		title = fmt.Sprintf("%s [%s %d]", r.Name, r.Selector, r.ID)
	}
	sb.WriteString(strings.TrimSpace(title) + "\n")

	if r.Selector != wire.SelectorPin {
		sb.WriteString(f.Indent(1, "members:  "+f.FormatMembers(r.Selector, r.Members)) + "\n")
	}
	if r.Selector != wire.SelectorFunction {
		if f.ShowOwner {
			sb.WriteString(f.Indent(1, "owner:    "+r.Owner.String()) + "\n")
		}
		sb.WriteString(f.Indent(1, "function: "+r.FunctionName(f.Catalog)) + "\n")
		sb.WriteString(f.Indent(1, "configs:  "+FormatConfigs(r.Configs)) + "\n")
	}
	if f.ShowPermissions {
		sb.WriteString(f.Indent(1, "allowed:  "+formatAgents(r)) + "\n")
	}
	return sb.String()
}

// WriteTable writes resources as aligned columns.
func (f *Formatter) WriteTable(w io.Writer, resources []ResourceInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	functions := len(resources) > 0 && resources[0].Selector == wire.SelectorFunction
	header := []string{"ID", "NAME"}
	switch {
	case functions:
		header = append(header, "GROUPS")
	case f.ShowOwner:
		header = append(header, "OWNER", "FUNCTION", "CONFIGS")
	default:
		header = append(header, "FUNCTION", "CONFIGS")
	}
	if f.ShowPermissions {
		header = append(header, "ALLOWED")
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i := range resources {
		r := &resources[i]
		row := []string{strconv.Itoa(int(r.ID)), r.Name}
		switch {
		case r.Selector == wire.SelectorFunction:
			row = append(row, f.FormatMembers(r.Selector, r.Members))
		case f.ShowOwner:
			row = append(row, r.Owner.String(), r.FunctionName(f.Catalog), FormatConfigs(r.Configs))
		default:
			row = append(row, r.FunctionName(f.Catalog), FormatConfigs(r.Configs))
		}
		if f.ShowPermissions {
			row = append(row, formatAgents(r))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// formatAgents lists the permitted agents followed by the raw mask.
func formatAgents(r *ResourceInfo) string {
	agents := r.Permissions.Agents()
	if len(agents) == 0 {
		return "none"
	}
	parts := make([]string, len(agents))
	for i, a := range agents {
		parts[i] = strconv.FormatUint(uint64(a), 10)
	}
	return strings.Join(parts, ",") + " (" + r.Permissions.String() + ")"
}
