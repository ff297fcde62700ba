// Package ui describes the ticket tracker screen as vdom trees.
//
// Two layouts are available. Classic lists tickets above the new-ticket form
// and always shows each ticket's comments. Threaded puts the form first and
// uses the status button to open and close a ticket's comment panel.
package ui

import (
	"fmt"

	"github.com/vango-dev/ticketdesk/internal/tickets"
	"github.com/vango-dev/ticketdesk/pkg/vdom"
)

// Variant selects a layout.
type Variant string

const (
	Classic  Variant = "classic"
	Threaded Variant = "threaded"
)

// ParseVariant validates a variant name.
func ParseVariant(name string) (Variant, error) {
	switch Variant(name) {
	case Classic, Threaded:
		return Variant(name), nil
	case "":
		return Classic, nil
	}
	return "", fmt.Errorf("ui: unknown variant %q", name)
}

// Options configures an App.
type Options struct {
	// Title is shown in the header. Defaults to "Tickets".
	Title string

	// Variant selects the layout. Defaults to Classic.
	Variant Variant

	// Builder materializes descriptors. Defaults to vdom.DefaultBuilder.
	Builder *vdom.Builder
}

// App renders the ticket tracker for one store.
type App struct {
	store   *tickets.Store
	title   string
	variant Variant
	b       *vdom.Builder
}

// New creates an App reading from and writing to store.
func New(store *tickets.Store, opts Options) *App {
	if opts.Title == "" {
		opts.Title = "Tickets"
	}
	if opts.Variant == "" {
		opts.Variant = Classic
	}
	if opts.Builder == nil {
		opts.Builder = vdom.DefaultBuilder
	}
	return &App{
		store:   store,
		title:   opts.Title,
		variant: opts.Variant,
		b:       opts.Builder,
	}
}

// Title returns the header text.
func (a *App) Title() string { return a.title }

// Variant returns the layout in use.
func (a *App) Variant() Variant { return a.variant }


// Render builds the whole screen from the current state. It has the
// vdom.View signature so it can be passed straight to vdom.Render.
func (a *App) Render() (*vdom.VNode, error) {
	state := a.store.State()
	s := a.b.Scope()
	root := s.El("div", vdom.Props{"className": "ticketdesk"},
		s.El(a.header, nil),
		s.El(a.main, vdom.Props{"tickets": state.Tickets}),
	)
	return s.Result(root)
}

func (a *App) header(vdom.Props) (*vdom.VNode, error) {
	s := a.b.Scope()
	return s.Result(s.El("header", nil, s.El("h1", nil, a.title)))
}

func (a *App) main(p vdom.Props) (*vdom.VNode, error) {
	list := vdom.Props{"tickets": p["tickets"]}
	s := a.b.Scope()
	var node *vdom.VNode
	if a.variant == Threaded {
		node = s.El("main", nil, s.El(a.ticketForm, nil), s.El(a.ticketList, list))
	} else {
		node = s.El("main", nil, s.El(a.ticketList, list), s.El(a.ticketForm, nil))
	}
	return s.Result(node)
}

func (a *App) ticketList(p vdom.Props) (*vdom.VNode, error) {
	ts, _ := p["tickets"].([]tickets.Ticket)
	s := a.b.Scope()
	if len(ts) == 0 && a.variant == Classic {
		return s.Result(s.El("div", vdom.Props{"className": "no-tickets"}, "No tickets"))
	}
	items := vdom.Range(ts, func(t tickets.Ticket, _ int) *vdom.VNode {
		return s.El(a.ticketItem, vdom.Props{"ticket": t, "key": t.ID})
	})
	return s.Result(s.El("ul", vdom.Props{"id": "ticket-list"}, items))
}

func (a *App) ticketItem(p vdom.Props) (*vdom.VNode, error) {
	t, ok := p["ticket"].(tickets.Ticket)
	if !ok {
		return nil, fmt.Errorf("ui: ticketItem needs a ticket prop, got %T", p["ticket"])
	}
	id := t.ID
	toggle := func(*vdom.Event) error {
		return a.store.Apply(func(s tickets.State) (tickets.State, error) {
			return tickets.Toggle(s, id)
		})
	}

	s := a.b.Scope()
	if a.variant == Threaded {
		label := "Show comments"
		if t.Status == tickets.StatusOpen {
			label = "Hide comments"
		}
		panel := vdom.When(t.Status == tickets.StatusOpen, func() *vdom.VNode {
			return s.El("div", vdom.Props{"id": "comments"},
				s.El(a.commentForm, vdom.Props{"ticketID": id}),
				s.El(a.commentList, vdom.Props{"comments": t.Comments}),
			)
		})
		return s.Result(s.El("li", vdom.Props{"data-ticket": id},
			s.El("div", vdom.Props{"className": "title"}, t.Title),
			s.El("div", vdom.Props{"className": "description"}, t.Description),
			s.El("button", vdom.Props{"className": "status", "onClick": toggle}, label),
			panel,
		))
	}

	return s.Result(s.El("li", vdom.Props{"data-ticket": id},
		s.El("div", vdom.Props{"className": "title"}, t.Title),
		s.El("div", vdom.Props{"className": "description"}, t.Description),
		s.El("button", vdom.Props{"className": "status", "onClick": toggle}, t.Status.Label()),
		s.El(a.commentList, vdom.Props{"comments": t.Comments}),
		s.El(a.commentForm, vdom.Props{"ticketID": id}),
	))
}

func (a *App) commentList(p vdom.Props) (*vdom.VNode, error) {
	cs, _ := p["comments"].([]tickets.Comment)
	s := a.b.Scope()

	if a.variant == Threaded {
		items := vdom.Range(cs, func(c tickets.Comment, _ int) *vdom.VNode {
			return s.El("div", vdom.Props{"className": "comment-item", "key": c.ID}, c.Text)
		})
		return s.Result(s.El("div", vdom.Props{"className": "comment-list"}, items))
	}

	if len(cs) == 0 {
		return s.Result(s.El("div", vdom.Props{"className": "no-comments"}, "No comments"))
	}
	items := vdom.Range(cs, func(c tickets.Comment, _ int) *vdom.VNode {
		return s.El("li", vdom.Props{"key": c.ID}, s.El("div", vdom.Props{"className": "text"}, c.Text))
	})
	return s.Result(s.El("ul", vdom.Props{"id": "comment-list"}, items))
}
