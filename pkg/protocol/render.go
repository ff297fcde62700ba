package protocol

// Render carries the HTML that replaces the root container's children.
type Render struct {
	Seq  uint64 // Sequence number of the event that caused this render, 0 for the first
	HTML string
}

// EncodeRender encodes a Render payload to bytes.
func EncodeRender(r *Render) []byte {
	e := NewEncoderWithCap(len(r.HTML) + 16)
	EncodeRenderTo(e, r)
	return e.Bytes()
}

// EncodeRenderTo encodes a Render payload using the provided encoder.
func EncodeRenderTo(e *Encoder, r *Render) {
	e.WriteUvarint(r.Seq)
	e.WriteString(r.HTML)
}

// DecodeRender decodes a Render payload from bytes.
func DecodeRender(data []byte) (*Render, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	html, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &Render{Seq: seq, HTML: html}, nil
}
