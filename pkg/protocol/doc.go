// Package protocol implements the binary frames exchanged between the
// browser and a ticketdesk session over WebSocket.
//
// # Wire Format
//
// Every WebSocket message holds one frame with a 6-byte header:
//
//	┌────────────┬────────────┬──────────────────────────────┐
//	│ Frame Type │ Flags      │ Payload Length               │
//	│ (1 byte)   │ (1 byte)   │ (4 bytes, big-endian)        │
//	└────────────┴────────────┴──────────────────────────────┘
//
// # Frame Types
//
//   - FrameEvent (0x01): Client → Server interaction
//   - FrameRender (0x02): Server → Client HTML for the root container
//   - FrameControl (0x03): Ping / Pong
//   - FrameError (0x05): Server → Client error report
//
// Strings are prefixed with their byte length as a protobuf-style varint.
//
// An event payload is
//
//	[Seq: varint][HID: string][Name: string][N: varint]{[Field: string][Value: string]}*N
//
// and a render payload is [Seq: varint][HTML: string].
package protocol
