package ui

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/ticketdesk/internal/tickets"
	"github.com/vango-dev/ticketdesk/pkg/server"
	"github.com/vango-dev/ticketdesk/pkg/vdom"
	"github.com/vango-dev/ticketdesk/pkg/vtest"
)

func connect(t *testing.T, variant Variant, state tickets.State) *vtest.Session {
	t.Helper()
	factory := func() vdom.View {
		return New(tickets.NewStore(state), Options{Variant: variant}).Render
	}
	return vtest.Connect(t, server.New(factory, &server.ServerConfig{Styles: []string{Stylesheet}}))
}

func TestLiveClassicFlow(t *testing.T) {
	s := connect(t, Classic, tickets.State{})

	if got := s.Texts("no-tickets"); !cmp.Equal(got, []string{"No tickets"}) {
		t.Fatalf("empty list = %v", got)
	}

	err := s.Submit(TicketFormID, url.Values{
		FieldTitle:       {"Broken build"},
		FieldDescription: {"CI is red"},
	})
	if err != nil {
		t.Fatalf("Submit(ticket) error = %v", err)
	}
	if got := s.Texts("title"); !cmp.Equal(got, []string{"Broken build"}) {
		t.Errorf("titles = %v", got)
	}

	if err := s.ClickClass("status", 0); err != nil {
		t.Fatalf("Click(status) error = %v", err)
	}
	if got := s.Texts("status"); !cmp.Equal(got, []string{"Closed"}) {
		t.Errorf("status = %v, want [Closed]", got)
	}

	if err := s.Submit(CommentFormID, url.Values{FieldText: {"  looking into it  "}}); err != nil {
		t.Fatalf("Submit(comment) error = %v", err)
	}
	if got := s.Texts("text"); !cmp.Equal(got, []string{"looking into it"}) {
		t.Errorf("comments = %v", got)
	}
}

func TestLiveThreadedTogglesPanel(t *testing.T) {
	s := connect(t, Threaded, tickets.Demo())

	if got := s.Texts("status"); !cmp.Equal(got, []string{"Hide comments", "Show comments"}) {
		t.Fatalf("labels = %v", got)
	}
	if err := s.ClickClass("status", 0); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if got := s.Texts("comment-list"); len(got) != 0 {
		t.Errorf("closing the only open ticket should hide every panel, got %v", got)
	}
}

func TestLiveTabsAreIndependent(t *testing.T) {
	state := tickets.Demo()
	s := connect(t, Classic, state)

	s.ClickClass("status", 0)
	if err := s.SimulateReconnect(); err != nil {
		t.Fatalf("SimulateReconnect() error = %v", err)
	}
	if got := s.Texts("status"); !cmp.Equal(got, []string{"Open", "Closed"}) {
		t.Errorf("fresh tab status = %v, want the initial [Open Closed]", got)
	}
	if state.Tickets[0].Status != tickets.StatusOpen {
		t.Error("sessions must not mutate the shared initial state")
	}
}
