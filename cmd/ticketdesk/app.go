package main

import (
	"github.com/vango-dev/ticketdesk/internal/config"
	"github.com/vango-dev/ticketdesk/internal/errors"
	"github.com/vango-dev/ticketdesk/internal/tickets"
	"github.com/vango-dev/ticketdesk/internal/ui"
	"github.com/vango-dev/ticketdesk/pkg/vdom"
)

// uiOptions resolves the layout and binding policy from the ui settings.
func uiOptions(cfg config.UIConfig) (ui.Options, error) {
	variant, err := ui.ParseVariant(cfg.Variant)
	if err != nil {
		return ui.Options{}, errors.New("T122").Wrap(err)
	}
	policy, ok := vdom.PolicyByName(cfg.EventPolicy)
	if !ok {
		return ui.Options{}, errors.New("T123").WithDetail("unknown policy " + cfg.EventPolicy)
	}
	return ui.Options{
		Title:   cfg.Title,
		Variant: variant,
		Builder: vdom.NewBuilder(policy),
	}, nil
}

// initialState returns the sample tickets or an empty tracker.
func initialState(demo bool) tickets.State {
	if demo {
		return tickets.Demo()
	}
	return tickets.State{}
}

// renderRoot builds app into a fresh root container with HIDs assigned.
func renderRoot(app *ui.App) (*vdom.VNode, error) {
	root := vdom.Container("div", "root")
	if err := vdom.Render(root, app.Render); err != nil {
		return nil, errors.New("T201").Wrap(err)
	}
	vdom.AssignHIDs(root, vdom.NewHIDGenerator())
	return root, nil
}
