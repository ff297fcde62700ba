package protocol

import (
	"net/url"
	"sort"
)

// Event is a user interaction forwarded by the client.
type Event struct {
	Seq    uint64     // Client sequence number, echoed in the render reply
	HID    string     // Hydration ID of the element the listener is bound to
	Name   string     // Lower-case event name ("click", "submit")
	Fields url.Values // Form data for submit events
}

// EncodeEvent encodes an Event payload to bytes.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	EncodeEventTo(e, ev)
	return e.Bytes()
}

// EncodeEventTo encodes an Event payload using the provided encoder.
// Form fields are written in sorted name order; repeated values are
// written as repeated pairs.
func EncodeEventTo(e *Encoder, ev *Event) {
	e.WriteUvarint(ev.Seq)
	e.WriteString(ev.HID)
	e.WriteString(ev.Name)

	names := make([]string, 0, len(ev.Fields))
	pairs := 0
	for name, values := range ev.Fields {
		names = append(names, name)
		pairs += len(values)
	}
	sort.Strings(names)

	e.WriteUvarint(uint64(pairs))
	for _, name := range names {
		for _, v := range ev.Fields[name] {
			e.WriteString(name)
			e.WriteString(v)
		}
	}
}

// DecodeEvent decodes an Event payload from bytes.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	ev, err := DecodeEventFrom(d)
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, ErrTrailingBytes
	}
	return ev, nil
}

// DecodeEventFrom decodes an Event payload from a decoder.
func DecodeEventFrom(d *Decoder) (*Event, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	hid, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	name, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	fields := make(url.Values, count)
	for i := 0; i < count; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		fields.Add(k, v)
	}

	return &Event{
		Seq:    seq,
		HID:    hid,
		Name:   name,
		Fields: fields,
	}, nil
}

// Key returns the handler lookup key "hid:name".
func (ev *Event) Key() string {
	return ev.HID + ":" + ev.Name
}
