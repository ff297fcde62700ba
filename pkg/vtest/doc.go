// Package vtest provides testing helpers for vdom views.
//
// # In-process harness
//
// Harness drives a view the way a browser session would: render, find
// elements, fire events, re-render. No network is involved.
//
//	h := vtest.New(t, app.Render)
//	h.Submit(h.ByID("add-ticket-form"), url.Values{"title": {"Broken build"}})
//	h.Click(h.ByClass("status")[0])
//	if got := h.ByClass("status")[0].TextContent(); got != "Closed" { ... }
//
// # Live sessions
//
// Session connects to a running server over a real WebSocket and speaks the
// binary protocol. Elements are addressed by their id attribute; the
// session looks up the element's data-hid in the last rendered HTML.
//
//	srv := server.New(factory, nil)
//	s := vtest.Connect(t, srv)
//	s.Submit("add-ticket-form", url.Values{"title": {"Broken build"}})
//	s.Click("...")
//	s.SimulateReconnect() // a new session starts from fresh state
package vtest
