package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// zstdEncoder wraps klauspost/compress/zstd.Encoder. ZSTD+D supplies dict,
// resolved by the caller from either a CMPRDICT payload or a CMPRDIxf
// external file (§4.1/§4.5); plain ZSTD passes a nil dict through
// unchanged, following the same dict/no-dict branch ponzu's
// writer/compress.go and reader/decompress.go use.
type zstdEncoder struct {
	w *zstd.Encoder
}

func newZstdEncoder(dst io.Writer, level int, dict DictSource) (Encoder, error) {
	opts := []zstd.EOption{zstd.WithEncoderLevel(clampZstdLevel(level))}
	if dict != nil {
		opts = append(opts, zstd.WithEncoderDict(dict))
	}
	w, err := zstd.NewWriter(dst, opts...)
	if err != nil {
		return nil, err
	}
	return &zstdEncoder{w: w}, nil
}

func (e *zstdEncoder) Write(p []byte) (int, error) { return e.w.Write(p) }
func (e *zstdEncoder) Flush() error                { return e.w.Flush() }
func (e *zstdEncoder) Close() error                { return e.w.Close() }

func (e *zstdEncoder) Feed(p []byte, flush FlushMode) (int, error) { return feed(e, p, flush) }

func clampZstdLevel(level int) zstd.EncoderLevel {
	switch {
	case level <= 0:
		return zstd.SpeedDefault
	case level <= 1:
		return zstd.SpeedFastest
	case level <= 3:
		return zstd.SpeedDefault
	case level <= 6:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

type zstdDecoder struct {
	r *zstd.Decoder
}

func newZstdDecoder(src io.Reader, dict DictSource) (Decoder, error) {
	var opts []zstd.DOption
	if dict != nil {
		opts = append(opts, zstd.WithDecoderDicts(dict))
	}
	r, err := zstd.NewReader(src, opts...)
	if err != nil {
		return nil, err
	}
	return &zstdDecoder{r: r}, nil
}

func (d *zstdDecoder) Read(p []byte) (int, error) { return d.r.Read(p) }

// Close releases the decoder's worker goroutines. zstd.Decoder.Close
// never returns an error.
func (d *zstdDecoder) Close() error {
	d.r.Close()
	return nil
}
