// Package tickets holds the ticket tracker state and its reducers.
//
// State values are treated as immutable: every reducer returns a new State
// and leaves its input alone, so a session can keep the previous state if a
// re-render fails.
package tickets

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTicketNotFound is returned when a reducer is given an unknown ticket ID.
var ErrTicketNotFound = errors.New("tickets: ticket not found")

// Status is the open/closed state of a ticket.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusOpen {
		return StatusClosed
	}
	return StatusOpen
}

// Label returns the text shown on the status button ("Open" or "Closed").
func (s Status) Label() string {
	if s == StatusOpen {
		return "Open"
	}
	return "Closed"
}

// Ticket is a single tracked item.
type Ticket struct {
	ID          int
	Title       string
	Description string
	Status      Status
	Comments    []Comment
}

// Comment is a note attached to a ticket.
type Comment struct {
	ID   int
	Text string
}

// Draft holds the fields submitted by the new ticket form.
type Draft struct {
	Title       string
	Description string
}

// Normalize trims surrounding whitespace from every field.
func (d Draft) Normalize() Draft {
	return Draft{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
	}
}

// State is the full ticket list for one session.
type State struct {
	Tickets []Ticket
}

// Find returns the ticket with the given ID.
func (s State) Find(id int) (Ticket, bool) {
	i := s.index(id)
	if i < 0 {
		return Ticket{}, false
	}
	return s.Tickets[i], true
}

// Len returns the number of tickets.
func (s State) Len() int {
	return len(s.Tickets)
}

// Open returns the number of open tickets.
func (s State) Open() int {
	n := 0
	for _, t := range s.Tickets {
		if t.Status == StatusOpen {
			n++
		}
	}
	return n
}

func (s State) index(id int) int {
	for i, t := range s.Tickets {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// clone copies the ticket slice so a reducer can replace one element.
// Comment slices are shared until a reducer replaces them.
func (s State) clone() State {
	out := make([]Ticket, len(s.Tickets))
	copy(out, s.Tickets)
	return State{Tickets: out}
}

// AddTicket appends a new open ticket. Its ID is one more than the largest
// existing ID, or 1 for an empty list.
func AddTicket(s State, d Draft) State {
	d = d.Normalize()
	next := s.clone()
	next.Tickets = append(next.Tickets, Ticket{
		ID:          nextTicketID(s.Tickets),
		Title:       d.Title,
		Description: d.Description,
		Status:      StatusOpen,
	})
	return next
}

// Toggle flips the status of the ticket with the given ID.
func Toggle(s State, id int) (State, error) {
	i := s.index(id)
	if i < 0 {
		return s, fmt.Errorf("toggle %d: %w", id, ErrTicketNotFound)
	}
	next := s.clone()
	next.Tickets[i].Status = next.Tickets[i].Status.Toggled()
	return next, nil
}

// AddComment appends a comment to the ticket with the given ID. Comment IDs
// are numbered per ticket.
func AddComment(s State, id int, text string) (State, error) {
	i := s.index(id)
	if i < 0 {
		return s, fmt.Errorf("comment on %d: %w", id, ErrTicketNotFound)
	}
	next := s.clone()
	t := &next.Tickets[i]

	comments := make([]Comment, len(t.Comments), len(t.Comments)+1)
	copy(comments, t.Comments)
	t.Comments = append(comments, Comment{
		ID:   nextCommentID(t.Comments),
		Text: strings.TrimSpace(text),
	})
	return next, nil
}

func nextTicketID(ts []Ticket) int {
	max := 0
	for _, t := range ts {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

func nextCommentID(cs []Comment) int {
	max := 0
	for _, c := range cs {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// Demo returns a small state used by the CLI and tests.
func Demo() State {
	s := AddTicket(State{}, Draft{Title: "Broken build", Description: "CI fails on main since the last merge"})
	s = AddTicket(s, Draft{Title: "Login page typo", Description: "\"Pasword\" on the sign-in form"})
	s, _ = AddComment(s, 1, "Reverting the dependency bump fixes it")
	s, _ = AddComment(s, 1, "Fix merged, waiting for green")
	s, _ = Toggle(s, 2)
	return s
}
