package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/ticketdesk/internal/tickets"
	"github.com/vango-dev/ticketdesk/internal/ui"
	"github.com/vango-dev/ticketdesk/pkg/render"
)

type viewOptions struct {
	configPath string
	variant    string
	policy     string
	demo       bool
}

func (o *viewOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "ticketdesk.jsonc", "Path to the configuration file")
	cmd.Flags().StringVar(&o.variant, "variant", "", "Layout: classic or threaded")
	cmd.Flags().StringVar(&o.policy, "policy", "", "Event binding policy: generic or allowlist")
	cmd.Flags().BoolVar(&o.demo, "demo", false, "Render the sample tickets instead of an empty tracker")
}

// app loads settings and builds the app over the requested state.
func (o *viewOptions) app(cmd *cobra.Command) (*ui.App, bool, error) {
	cfg, err := loadConfig(o.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, false, err
	}
	if o.variant != "" {
		cfg.UI.Variant = o.variant
	}
	if o.policy != "" {
		cfg.UI.EventPolicy = o.policy
	}
	opts, err := uiOptions(cfg.UI)
	if err != nil {
		return nil, false, err
	}
	return ui.New(tickets.NewStore(initialState(o.demo)), opts), cfg.UI.Pretty, nil
}

func renderCmd() *cobra.Command {
	var (
		opts   viewOptions
		pretty bool
		page   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the rendered HTML",
		Long: `Build the tracker once and print the HTML the server would send.

By default only the children of the root container are printed, exactly
as in a Render frame. --page prints the full document without the client.

Examples:
  ticketdesk render --demo --pretty
  ticketdesk render --variant=threaded --page`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cfgPretty, err := opts.app(cmd)
			if err != nil {
				return err
			}
			root, err := renderRoot(app)
			if err != nil {
				return err
			}

			r := render.NewRenderer(render.RendererConfig{Pretty: pretty || cfgPretty})
			w := cmd.OutOrStdout()
			if page {
				return r.RenderPage(w, render.PageData{
					Body:     root,
					Title:    app.Title(),
					Styles:   []string{ui.Stylesheet},
					NoScript: true,
				})
			}
			html, err := r.RenderChildren(root)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, html)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the output")
	cmd.Flags().BoolVar(&page, "page", false, "Print a complete HTML document")

	return cmd
}
