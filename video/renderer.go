// Package video defines the sink boundary for the mirrored H.264 stream
// coming back from the remote device. The bridge core never touches it;
// renderers are driven by whatever transport delivers the stream.
package video

import "time"

// Renderer consumes H.264 access units in decode order.
type Renderer interface {
	// Start prepares the sink. Must be called before the first RenderBuffer.
	Start() error

	// RenderBuffer pushes one Annex-B access unit with its presentation
	// timestamp relative to stream start.
	RenderBuffer(data []byte, pts time.Duration) error

	// Flush forces buffered data out to the underlying sink.
	Flush() error

	// Destroy releases the sink. No RenderBuffer calls may follow.
	Destroy() error
}

// NopRenderer discards every frame. Used when playback is disabled but the
// stream still needs a sink to drain into.
type NopRenderer struct{}

func (NopRenderer) Start() error { return nil }

func (NopRenderer) RenderBuffer(data []byte, pts time.Duration) error { return nil }

func (NopRenderer) Flush() error { return nil }

func (NopRenderer) Destroy() error { return nil }
