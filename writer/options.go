package writer

// defaultReadBufferSize mirrors reader's default; it bounds how much of
// a source file AddFile/Finalize buffer at once while streaming it
// through the checksum and the compression codec.
const defaultReadBufferSize = 32 * 1024

type optionData struct {
	readBufferSize int
	progress       func(fileIndex, fileCount int, name string)
	onCurrentFile  func(name string)
	onNextFile     func(name string)
}

func defaultOptions() optionData {
	return optionData{readBufferSize: defaultReadBufferSize}
}

// Option configures a Writer at construction time, following the same
// private-struct/functional-option shape as sarchive's CreateOption.
type Option func(*optionData)

// WithProgress registers an observer invoked synchronously by AddFile
// after each file is added, reporting its index and the number of files
// added so far (fileIndex+1). It does not report the final file count,
// which AddFile has no way to know.
// It is the generalized form of the ad hoc fmt.Printf progress lines the
// teacher's CLI layer prints directly; the library itself never writes
// to stdout (SPEC_FULL.md "Logging / observability").
func WithProgress(fn func(fileIndex, fileCount int, name string)) Option {
	return func(o *optionData) { o.progress = fn }
}

// WithFileCallback registers onCurrent/onNext hooks invoked as Finalize
// moves from one file's data to the next. Either may be nil.
func WithFileCallback(onCurrent, onNext func(name string)) Option {
	return func(o *optionData) {
		o.onCurrentFile = onCurrent
		o.onNextFile = onNext
	}
}

// WithReadBufferSize overrides the buffer size used to stream source
// files through the checksum and compression codec.
func WithReadBufferSize(size int) Option {
	return func(o *optionData) {
		if size > 0 {
			o.readBufferSize = size
		}
	}
}
