package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vango-dev/ticketdesk/pkg/vdom"
)

var (
	styleTag   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	styleProp  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleEvent = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleText  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func treeCmd() *cobra.Command {
	var (
		opts    viewOptions
		noStyle bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the built node tree",
		Long: `Build the tracker once and print its node tree: tags, props,
hydration IDs and the events each node listens for.

Examples:
  ticketdesk tree --demo
  ticketdesk tree --policy=allowlist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := opts.app(cmd)
			if err != nil {
				return err
			}
			root, err := renderRoot(app)
			if err != nil {
				return err
			}
			p := treePrinter{w: cmd.OutOrStdout(), plain: noStyle}
			p.print(root, 0)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&noStyle, "plain", false, "Print without colors")

	return cmd
}

type treePrinter struct {
	w     io.Writer
	plain bool
}

func (p treePrinter) paint(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func (p treePrinter) print(n *vdom.VNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Kind == vdom.KindText {
		fmt.Fprintf(p.w, "%s%s\n", indent, p.paint(styleText, fmt.Sprintf("%q", n.Text)))
		return
	}

	line := indent + p.paint(styleTag, "<"+n.Tag+">")
	if props := formatProps(n.Props); props != "" {
		line += " " + p.paint(styleProp, props)
	}
	if n.HID != "" {
		events := n.Events()
		sort.Strings(events)
		line += " " + p.paint(styleEvent, n.HID+" on:"+strings.Join(events, ","))
	}
	fmt.Fprintln(p.w, line)

	for _, c := range n.Children {
		p.print(c, depth+1)
	}
}

// formatProps lists printable props in key order. Callables and children
// are left out.
func formatProps(props vdom.Props) string {
	keys := make([]string, 0, len(props))
	for k, v := range props {
		if k == "children" || vdom.IsCallable(v) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, props[k]))
	}
	return strings.Join(parts, " ")
}
