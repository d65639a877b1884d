package codec

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// lz4Encoder wraps pierrec/lz4/v4.Writer, the block-compressor used by
// LZ4 (§4.1, LZ4 row). LZ4 frames have no mid-stream sync flush primitive
// distinct from a block boundary, so Flush forces the current block out
// without finalizing the frame.
type lz4Encoder struct {
	w *lz4.Writer
}

func newLZ4Encoder(dst io.Writer, level int) (Encoder, error) {
	w := lz4.NewWriter(dst)
	opts := []lz4.Option{lz4.CompressionLevelOption(clampLZ4Level(level))}
	if err := w.Apply(opts...); err != nil {
		return nil, err
	}
	return &lz4Encoder{w: w}, nil
}

func (e *lz4Encoder) Write(p []byte) (int, error) { return e.w.Write(p) }
func (e *lz4Encoder) Flush() error                { return e.w.Flush() }
func (e *lz4Encoder) Close() error                { return e.w.Close() }

func (e *lz4Encoder) Feed(p []byte, flush FlushMode) (int, error) { return feed(e, p, flush) }

// lz4Levels maps a 1-9 integer level to pierrec/lz4/v4's named
// CompressionLevel constants; the package only defines Fast and
// Level1..Level9 as specific spaced values, not a contiguous integer
// range, so an arbitrary int cast (e.g. CompressionLevel(5)) is rejected
// by CompressionLevelOption.
var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4, lz4.Level5,
	lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

func clampLZ4Level(level int) lz4.CompressionLevel {
	switch {
	case level <= 0:
		return lz4.Fast
	case level >= len(lz4Levels):
		return lz4Levels[len(lz4Levels)-1]
	default:
		return lz4Levels[level-1]
	}
}

type lz4Decoder struct {
	r *lz4.Reader
}

func newLZ4Decoder(src io.Reader) (Decoder, error) {
	return &lz4Decoder{r: lz4.NewReader(src)}, nil
}

func (d *lz4Decoder) Read(p []byte) (int, error) { return d.r.Read(p) }

// Close is a no-op: lz4.Reader holds no resources that need releasing.
func (d *lz4Decoder) Close() error { return nil }
