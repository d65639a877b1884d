// Package writer implements the DataPak archive writer (§4.4): building
// up an in-memory index while digesting source files, then serializing
// the header region and streaming every file's compressed body in
// Finalize.
package writer

import (
	"io"
	"os"

	"github.com/ZILtoid1991/datapak/codec"
	"github.com/ZILtoid1991/datapak/dpkerr"
	"github.com/ZILtoid1991/datapak/ext"
	"github.com/ZILtoid1991/datapak/format"
	dpkio "github.com/ZILtoid1991/datapak/ioutil"
	"github.com/pkg/errors"
)

// ErrFinalized is returned by AddFile or Finalize when called on a
// Writer that has already been finalized (§3 lifecycle rule).
var ErrFinalized = errors.New("writer: archive already finalized")

// Writer builds a DataPak archive. It is a build-mode object per §3:
// AddFile mutates it until Finalize is called, which is terminal.
type Writer struct {
	dst        *os.File
	header     format.Header
	headerExts []format.HeaderExtension

	indexes      []format.IndexEntry
	indexExts    [][]format.IndexExtension
	srcPaths     []string
	entryOffsets []int64 // filled in during Finalize, file offset of each 128-byte entry

	// randAcOffsets[i] is the file offset of the Position field inside
	// entry i's auto-attached RandAc extension, or -1 if PerFileComp is
	// false and no such extension was attached. Filled in during Finalize,
	// rewritten once the entry's real Offset is known (writePerFileBodies).
	randAcOffsets []int64

	trailerOffset int64 // file offset of the 4-byte CRC32 trailer, just past the last index entry

	runningUncompOffset uint64
	finalized           bool

	opts optionData
}

// Create opens path for writing and begins a new archive build with the
// given header and header extensions. header.IndexSize/NumOfIndexes are
// recomputed by AddFile/Finalize and need not be pre-filled by the
// caller.
func Create(path string, header format.Header, headerExts []format.HeaderExtension, opts ...Option) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "writer: create")
	}
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	header.IndexSize = 0
	header.NumOfIndexes = 0
	header.ExtFieldSize = 0
	for _, he := range headerExts {
		header.ExtFieldSize += he.Size
	}
	return &Writer{dst: f, header: header, headerExts: headerExts, opts: o}, nil
}

// AddFile streams srcPath's digest, builds its IndexEntry, and appends
// it to the in-memory index (§4.4 AddFile). The file's bytes are not
// copied into the output until Finalize.
func (w *Writer) AddFile(srcPath, archiveName string, indexExts []format.IndexExtension) (format.IndexEntry, error) {
	if w.finalized {
		return format.IndexEntry{}, ErrFinalized
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return format.IndexEntry{}, errors.Wrap(err, "writer: open source file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return format.IndexEntry{}, errors.Wrap(err, "writer: stat source file")
	}
	size := uint64(info.Size())

	checksumType := w.header.ChecksumType()
	digest, err := w.digestFile(f, checksumType)
	if err != nil {
		return format.IndexEntry{}, err
	}

	// Per-file archives are randomly accessible (§3 RandomAccess); attach
	// a RandAc extension recording this entry's data-region offset so a
	// reader can resolve SeekTo targets from the index alone (supplemented
	// feature). The Position placeholder is rewritten once the real,
	// post-compression Offset is known, the same way CompSize/Offset
	// themselves are rewritten in writePerFileBodies. Each per-file stream
	// is a fresh, independent codec instance (writePerFileBodies opens a
	// new encoder per file), so there is no cross-file resume state to
	// carry — State stays zeroed.
	if w.header.Flags.PerFileComp {
		indexExts = append(indexExts, ext.NewRandomAccessIndex(0, [16]byte{}))
	}

	extFieldSize := uint32(0)
	for _, ie := range indexExts {
		extFieldSize += uint32(ie.Size)
	}

	compSize := size
	if w.header.CompMethod != format.CompUncompressed {
		compSize = 0 // placeholder: finalized for per-file mode, permanent for joint mode (§3 invariants)
	}

	entry, err := format.NewIndexEntry(w.runningUncompOffset, size, compSize, extFieldSize, archiveName, digest)
	if err != nil {
		return format.IndexEntry{}, err
	}

	w.indexes = append(w.indexes, entry)
	w.indexExts = append(w.indexExts, indexExts)
	w.srcPaths = append(w.srcPaths, srcPath)

	w.runningUncompOffset += size
	w.header.IndexSize += uint64(format.IndexEntrySize) + uint64(extFieldSize)
	w.header.NumOfIndexes++

	if w.opts.progress != nil {
		w.opts.progress(len(w.indexes)-1, len(w.indexes), archiveName)
	}
	return entry, nil
}

func (w *Writer) digestFile(f *os.File, checksumType format.ChecksumType) ([]byte, error) {
	n, ok := format.ChecksumLength(checksumType)
	if !ok || n == 0 {
		return nil, nil
	}
	h, err := codec.NewChecksum(checksumType)
	if err != nil {
		return nil, dpkerr.Wrap(dpkerr.Compression, err, "building checksum")
	}
	buf := make([]byte, w.opts.readBufferSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return nil, errors.Wrap(err, "writer: digesting source file")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "writer: rewinding source file")
	}
	return h.Sum(nil), nil
}

// Finalize writes the header region and streams every file's compressed
// body, and is terminal: a second call returns ErrFinalized (§4.4).
func (w *Writer) Finalize() error {
	if w.finalized {
		return ErrFinalized
	}
	w.finalized = true

	crc := dpkio.NewCRCWriter(w.dst)

	sigBuf := format.DefaultSignature
	if _, err := crc.Write(sigBuf[:]); err != nil {
		return errors.Wrap(err, "writer: writing signature")
	}
	headerBuf, err := w.header.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "writer: marshal header")
	}
	if _, err := crc.Write(headerBuf); err != nil {
		return errors.Wrap(err, "writer: writing header")
	}

	for _, he := range w.headerExts {
		b, err := he.MarshalBinary()
		if err != nil {
			return errors.Wrap(err, "writer: marshal header extension")
		}
		if _, err := crc.Write(b); err != nil {
			return errors.Wrap(err, "writer: writing header extension")
		}
	}

	w.entryOffsets = make([]int64, len(w.indexes))
	w.randAcOffsets = make([]int64, len(w.indexes))
	for i, entry := range w.indexes {
		pos, err := w.dst.Seek(0, io.SeekCurrent)
		if err != nil {
			return errors.Wrap(err, "writer: tell")
		}
		w.entryOffsets[i] = pos
		w.randAcOffsets[i] = -1

		b, err := entry.MarshalBinary()
		if err != nil {
			return errors.Wrap(err, "writer: marshal index entry")
		}
		if _, err := crc.Write(b); err != nil {
			return errors.Wrap(err, "writer: writing index entry")
		}
		for _, ie := range w.indexExts[i] {
			extPos, err := w.dst.Seek(0, io.SeekCurrent)
			if err != nil {
				return errors.Wrap(err, "writer: tell before index extension")
			}
			if ie.Signature == format.SigRandAc {
				w.randAcOffsets[i] = extPos + int64(format.IndexExtPrefixSize)
			}
			eb, err := ie.MarshalBinary()
			if err != nil {
				return errors.Wrap(err, "writer: marshal index extension")
			}
			if _, err := crc.Write(eb); err != nil {
				return errors.Wrap(err, "writer: writing index extension")
			}
		}
	}

	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "writer: tell before trailer")
	}
	w.trailerOffset = pos

	trailer := crc.Sum32()
	if err := w.writeUint32LE(trailer); err != nil {
		return errors.Wrap(err, "writer: writing CRC trailer")
	}

	if w.header.Flags.PerFileComp {
		if err := w.writePerFileBodies(); err != nil {
			return err
		}
		// writePerFileBodies rewrote each index entry in place with its
		// real Offset/CompSize, which changes the header-region bytes the
		// trailer above was computed over. Recompute and rewrite it now
		// that every entry holds its final value.
		if err := w.recomputeTrailer(); err != nil {
			return err
		}
	} else {
		if err := w.writeJointBody(); err != nil {
			return err
		}
	}
	return nil
}

// recomputeTrailer reads back the signature/header/extensions/index
// region and rewrites the CRC32 trailer at trailerOffset to match its
// current (post-rewrite) contents.
func (w *Writer) recomputeTrailer() error {
	if _, err := w.dst.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "writer: seek to start for trailer recompute")
	}
	crc := dpkio.NewCRCReader(io.LimitReader(w.dst, w.trailerOffset))
	if _, err := io.Copy(io.Discard, crc); err != nil {
		return errors.Wrap(err, "writer: reading header region for trailer recompute")
	}
	if _, err := w.dst.Seek(w.trailerOffset, io.SeekStart); err != nil {
		return errors.Wrap(err, "writer: seek to trailer for rewrite")
	}
	if err := w.writeUint32LE(crc.Sum32()); err != nil {
		return errors.Wrap(err, "writer: rewriting CRC trailer")
	}
	return nil
}

func (w *Writer) writeUint32LE(v uint32) error {
	b := []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	_, err := w.dst.Write(b)
	return err
}

func (w *Writer) writeUint64LE(v uint64) error {
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	_, err := w.dst.Write(b)
	return err
}

// copyViaFeed drives enc.Feed across src's contents in buf-sized chunks,
// each a FlushContinue write (§4.1); the caller issues the terminal
// FlushSync/FlushEnd feed once copying is done.
func copyViaFeed(enc codec.Encoder, src io.Reader, buf []byte) error {
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, ferr := enc.Feed(buf[:n], codec.FlushContinue); ferr != nil {
				return ferr
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}

// writePerFileBodies streams each file through its own codec stream,
// then rewrites that file's index entry in place with the now-known
// Offset and CompSize (§4.4 step 5: "per-file compressed size cannot be
// known before compressing").
func (w *Writer) writePerFileBodies() error {
	dict, err := w.resolveDictionary()
	if err != nil {
		return err
	}

	var runningCompOffset uint64
	for i, srcPath := range w.srcPaths {
		if w.opts.onCurrentFile != nil {
			w.opts.onCurrentFile(w.indexes[i].Name())
		}

		f, err := os.Open(srcPath)
		if err != nil {
			return errors.Wrap(err, "writer: reopen source file")
		}

		countWriter := &countingWriter{w: w.dst}
		enc, err := codec.NewEncoder(w.header.CompMethod, int(w.header.Flags.CompLevel), dict, countWriter)
		if err != nil {
			f.Close()
			return dpkerr.Wrap(dpkerr.Compression, err, "initializing per-file encoder")
		}

		buf := make([]byte, w.opts.readBufferSize)
		if err := copyViaFeed(enc, f, buf); err != nil {
			f.Close()
			return dpkerr.Wrap(dpkerr.Compression, err, "compressing file body")
		}
		f.Close()
		if _, err := enc.Feed(nil, codec.FlushEnd); err != nil {
			return dpkerr.Wrap(dpkerr.Compression, err, "finalizing per-file encoder")
		}

		w.indexes[i].Offset = runningCompOffset
		w.indexes[i].CompSize = uint64(countWriter.n)
		runningCompOffset += uint64(countWriter.n)

		if err := w.rewriteIndexEntry(i); err != nil {
			return err
		}
		if err := w.rewriteRandAcPosition(i); err != nil {
			return err
		}
		if w.opts.onNextFile != nil && i+1 < len(w.srcPaths) {
			w.opts.onNextFile(w.indexes[i+1].Name())
		}
	}
	return nil
}

// rewriteRandAcPosition overwrites entry i's RandAc Position field with
// its now-known data-region Offset, mirroring rewriteIndexEntry. A no-op
// when entry i carries no RandAc extension (randAcOffsets[i] == -1).
func (w *Writer) rewriteRandAcPosition(i int) error {
	if w.randAcOffsets[i] < 0 {
		return nil
	}
	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "writer: tell before RandAc rewrite")
	}
	if _, err := w.dst.Seek(w.randAcOffsets[i], io.SeekStart); err != nil {
		return errors.Wrap(err, "writer: seek to RandAc position field")
	}
	if err := w.writeUint64LE(w.indexes[i].Offset); err != nil {
		return errors.Wrap(err, "writer: rewriting RandAc position")
	}
	if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
		return errors.Wrap(err, "writer: seek back after RandAc rewrite")
	}
	return nil
}

// writeJointBody streams every file back-to-back through one codec
// stream, issuing FlushSync between files and FlushEnd at the end
// (§4.4 steps 5-6). CompSize stays 0 per the jointly-compressed
// invariant; Offset was already set correctly in AddFile (decompressed-
// stream offset).
func (w *Writer) writeJointBody() error {
	dict, err := w.resolveDictionary()
	if err != nil {
		return err
	}
	enc, err := codec.NewEncoder(w.header.CompMethod, int(w.header.Flags.CompLevel), dict, w.dst)
	if err != nil {
		return dpkerr.Wrap(dpkerr.Compression, err, "initializing joint encoder")
	}

	buf := make([]byte, w.opts.readBufferSize)
	for i, srcPath := range w.srcPaths {
		if w.opts.onCurrentFile != nil {
			w.opts.onCurrentFile(w.indexes[i].Name())
		}
		f, err := os.Open(srcPath)
		if err != nil {
			return errors.Wrap(err, "writer: reopen source file")
		}
		if err := copyViaFeed(enc, f, buf); err != nil {
			f.Close()
			return dpkerr.Wrap(dpkerr.Compression, err, "compressing file body")
		}
		f.Close()
		if i+1 < len(w.srcPaths) {
			if _, err := enc.Feed(nil, codec.FlushSync); err != nil {
				return dpkerr.Wrap(dpkerr.Compression, err, "flushing between files")
			}
			if w.opts.onNextFile != nil {
				w.opts.onNextFile(w.indexes[i+1].Name())
			}
		}
	}
	if _, err := enc.Feed(nil, codec.FlushEnd); err != nil {
		return dpkerr.Wrap(dpkerr.Compression, err, "finalizing joint encoder")
	}
	return nil
}

// resolveDictionary returns the ZSTD+D dictionary bytes named by this
// archive's header extensions (§4.1): the bytes carried inline by a
// CMPRDICT extension, or the contents of the file named by a CMPRDIxf
// extension. Used identically for joint and per-file compression — both
// must compress with the dictionary the reader will decompress with.
func (w *Writer) resolveDictionary() (codec.DictSource, error) {
	for _, he := range w.headerExts {
		switch he.Signature {
		case format.SigCompressionDict:
			return he.Payload, nil
		case format.SigCompressionDictExt:
			ref, err := ext.UnmarshalCompressionDictRef(he.Payload)
			if err != nil {
				return nil, dpkerr.Wrap(dpkerr.Compression, err, "decoding external dictionary reference")
			}
			data, err := os.ReadFile(ref.Path)
			if err != nil {
				return nil, dpkerr.Wrap(dpkerr.Compression, err, "loading external dictionary")
			}
			return data, nil
		}
	}
	return nil, nil
}

func (w *Writer) rewriteIndexEntry(i int) error {
	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "writer: tell before rewrite")
	}
	if _, err := w.dst.Seek(w.entryOffsets[i], io.SeekStart); err != nil {
		return errors.Wrap(err, "writer: seek to index entry")
	}
	b, err := w.indexes[i].MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "writer: marshal rewritten index entry")
	}
	if _, err := w.dst.Write(b); err != nil {
		return errors.Wrap(err, "writer: rewriting index entry")
	}
	if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
		return errors.Wrap(err, "writer: seek back after rewrite")
	}
	return nil
}

// Close releases the underlying file handle. Calling Close before
// Finalize leaves a truncated, invalid archive on disk — per §5, the
// caller is responsible for discarding it.
func (w *Writer) Close() error {
	return w.dst.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
