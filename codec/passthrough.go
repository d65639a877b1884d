package codec

import "io"

// passthroughEncoder implements the UNCMPRSD compMethod: bytes pass
// straight through to dst with no framing at all, so Flush and Close are
// no-ops.
type passthroughEncoder struct {
	dst io.Writer
}

func newPassthroughEncoder(dst io.Writer) Encoder {
	return &passthroughEncoder{dst: dst}
}

func (e *passthroughEncoder) Write(p []byte) (int, error) { return e.dst.Write(p) }
func (e *passthroughEncoder) Flush() error                { return nil }
func (e *passthroughEncoder) Close() error                { return nil }

func (e *passthroughEncoder) Feed(p []byte, flush FlushMode) (int, error) { return feed(e, p, flush) }

// passthroughDecoder is the symmetric reader side.
type passthroughDecoder struct {
	src io.Reader
}

func newPassthroughDecoder(src io.Reader) Decoder {
	return &passthroughDecoder{src: src}
}

func (d *passthroughDecoder) Read(p []byte) (int, error) { return d.src.Read(p) }
func (d *passthroughDecoder) Close() error                { return nil }
