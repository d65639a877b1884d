// Package datapak documents the DataPak (.dpk) archive container: a
// binary format for bundling many files into one stream with streaming
// compression and per-file checksums.
//
// An archive is laid out as:
//
//	signature (8) || header (28) || header-extensions || index entries
//	(with their index-extensions) || CRC32 trailer (4) || data region
//
// The header names a compression method from a closed five-value set
// (uncompressed, zlib, zstd, zstd with a shared dictionary, lz4) and a
// checksum algorithm from a closed fifteen-value set, applied either
// once across the whole data region ("joint" compression) or once per
// file ("per-file" compression, which also makes the archive seekable).
//
// Callers build archives with the writer package and read them back
// with the reader package; both accept functional options instead of
// process-wide configuration. The on-disk record layout lives in
// format, the compression/checksum primitives in codec, and the
// optional per-file/per-header metadata records in ext.
package datapak
