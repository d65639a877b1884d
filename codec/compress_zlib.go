package codec

import (
	"io"

	"github.com/klauspost/compress/zlib"
)

// zlibEncoder wraps klauspost/compress/zlib.Writer. Flush maps onto the
// zlib sync-flush the library exposes; Close finalizes the deflate stream
// (§4.1, ZLIB row).
type zlibEncoder struct {
	w *zlib.Writer
}

func newZlibEncoder(dst io.Writer, level int) (Encoder, error) {
	if level <= 0 {
		level = zlib.DefaultCompression
	}
	w, err := zlib.NewWriterLevel(dst, clampZlibLevel(level))
	if err != nil {
		return nil, err
	}
	return &zlibEncoder{w: w}, nil
}

func (e *zlibEncoder) Write(p []byte) (int, error) { return e.w.Write(p) }
func (e *zlibEncoder) Flush() error                { return e.w.Flush() }
func (e *zlibEncoder) Close() error                { return e.w.Close() }

func (e *zlibEncoder) Feed(p []byte, flush FlushMode) (int, error) { return feed(e, p, flush) }

func clampZlibLevel(level int) int {
	if level > zlib.BestCompression {
		return zlib.BestCompression
	}
	return level
}

type zlibDecoder struct {
	r io.ReadCloser
}

func newZlibDecoder(src io.Reader) (Decoder, error) {
	r, err := zlib.NewReader(src)
	if err != nil {
		return nil, err
	}
	return &zlibDecoder{r: r}, nil
}

func (d *zlibDecoder) Read(p []byte) (int, error) { return d.r.Read(p) }
func (d *zlibDecoder) Close() error               { return d.r.Close() }
