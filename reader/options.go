package reader

// defaultReadBufferSize is the refill chunk size used by decompressExact
// (§4.3) when no WithReadBufferSize option is supplied.
const defaultReadBufferSize = 32 * 1024

type optionData struct {
	signatureCheck      bool
	headerChecksumError bool
	fileChecksumError   bool
	readBufferSize      int
}

func defaultOptions() optionData {
	return optionData{
		signatureCheck:      true,
		headerChecksumError: true,
		fileChecksumError:   true,
		readBufferSize:      defaultReadBufferSize,
	}
}

// Option configures a Reader at construction time, following the same
// private-struct/functional-option shape as sarchive's OpenOption.
type Option func(*optionData)

// WithSignatureCheck controls whether Open/NewReader rejects an archive
// whose first 8 bytes don't match format.DefaultSignature. Enabled by
// default; disabling it allows best-effort forensic recovery of archives
// with a damaged or stripped signature (§7). The signature bytes are part
// of the header-region CRC32, so a damaged signature still fails that
// check unless WithHeaderChecksumError(false) is also given.
func WithSignatureCheck(enabled bool) Option {
	return func(o *optionData) { o.signatureCheck = enabled }
}

// WithHeaderChecksumError controls whether a header-region CRC32 mismatch
// is fatal at construction time. Enabled by default.
func WithHeaderChecksumError(enabled bool) Option {
	return func(o *optionData) { o.headerChecksumError = enabled }
}

// WithFileChecksumError controls whether a per-file digest mismatch
// raises dpkerr.BadChecksum from NextBytes. Enabled by default; when
// disabled, NextBytes returns the decompressed bytes regardless of
// whether they match the stored digest.
func WithFileChecksumError(enabled bool) Option {
	return func(o *optionData) { o.fileChecksumError = enabled }
}

// WithReadBufferSize overrides the refill chunk size decompressExact uses
// when pulling more bytes from the underlying stream.
func WithReadBufferSize(size int) Option {
	return func(o *optionData) {
		if size > 0 {
			o.readBufferSize = size
		}
	}
}
