package ui

import (
	"github.com/vango-dev/ticketdesk/internal/tickets"
	"github.com/vango-dev/ticketdesk/pkg/vdom"
)

// Form and field names the thin client submits.
const (
	TicketFormID  = "add-ticket-form"
	CommentFormID = "add-comment-form"

	FieldTitle       = "title"
	FieldDescription = "description"
	FieldText        = "text"
)

func (a *App) ticketForm(vdom.Props) (*vdom.VNode, error) {
	submit := func(e *vdom.Event) error {
		e.PreventDefault()
		draft := tickets.Draft{
			Title:       e.FormValue(FieldTitle),
			Description: e.FormValue(FieldDescription),
		}
		return a.store.Apply(func(s tickets.State) (tickets.State, error) {
			return tickets.AddTicket(s, draft), nil
		})
	}

	s := a.b.Scope()
	return s.Result(s.El("form", vdom.Props{"id": TicketFormID, "onSubmit": submit},
		s.El("div", nil,
			s.El("label", vdom.Props{"htmlFor": "ticket-title"}, "Title"),
			s.El("input", vdom.Props{"type": "text", "name": FieldTitle, "id": "ticket-title", "placeholder": "Title"}),
		),
		s.El("div", nil,
			s.El("label", vdom.Props{"htmlFor": "ticket-description"}, "Description"),
			s.El("textarea", vdom.Props{"name": FieldDescription, "id": "ticket-description", "placeholder": "Description"}),
		),
		s.El("button", vdom.Props{"type": "submit", "id": "add-ticket"}, "Add Ticket"),
	))
}

func (a *App) commentForm(p vdom.Props) (*vdom.VNode, error) {
	id, _ := p["ticketID"].(int)
	submit := func(e *vdom.Event) error {
		e.PreventDefault()
		text := e.FormValue(FieldText)
		return a.store.Apply(func(s tickets.State) (tickets.State, error) {
			return tickets.AddComment(s, id, text)
		})
	}

	label := "Comment"
	if a.variant == Threaded {
		label = "Add a comment"
	}

	s := a.b.Scope()
	return s.Result(s.El("form", vdom.Props{"id": CommentFormID, "onSubmit": submit},
		s.El("div", nil,
			s.El("label", vdom.Props{"htmlFor": "comment-text"}, label),
			s.El("input", vdom.Props{"type": "text", "name": FieldText, "id": "comment-text", "placeholder": "Comment"}),
		),
		s.El("button", vdom.Props{"type": "submit", "id": "add-comment"}, "Add Comment"),
	))
}
