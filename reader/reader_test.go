package reader_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/ZILtoid1991/datapak/dpkerr"
	"github.com/ZILtoid1991/datapak/format"
	"github.com/ZILtoid1991/datapak/reader"
	"github.com/ZILtoid1991/datapak/writer"
)

// buildArchive writes files (name -> contents) into a fresh archive at
// dir/name.dpk and returns its path.
func buildArchive(t *testing.T, dir, name string, header format.Header, files map[string][]byte, order []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	w, err := writer.Create(path, header, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, fname := range order {
		srcPath := filepath.Join(dir, "src_"+fname)
		if err := os.WriteFile(srcPath, files[fname], 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := w.AddFile(srcPath, fname, nil); err != nil {
			t.Fatalf("AddFile(%s): %v", fname, err)
		}
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

// S1: single uncompressed byte with a CRC32 checksum.
func TestScenarioS1SingleByteUncompressed(t *testing.T) {
	dir := t.TempDir()
	header := format.Header{
		CompMethod: format.CompUncompressed,
		Flags:      format.Bitfield{ChecksumType: format.ChecksumCRC32},
	}
	path := buildArchive(t, dir, "s1.dpk", header, map[string][]byte{"a": {0x41}}, []string{"a"})

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if got, want := info.Size(), int64(8+28+0+128+4+1); got != want {
		t.Errorf("archive length: got %d, want %d", got, want)
	}

	r, err := reader.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	entry, ok := r.PeekIndex()
	if !ok {
		t.Fatal("expected one index entry")
	}
	digest := entry.Checksum(4)
	want := []byte{0xD3, 0xD9, 0x9E, 0x8B} // CRC32("A") = 0xD3D99E8B
	if !bytes.Equal(digest, want) {
		t.Errorf("checksum tail: got %x, want %x", digest, want)
	}

	got, err := r.NextBytes()
	if err != nil {
		t.Fatalf("NextBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x41}) {
		t.Errorf("body: got %v, want [0x41]", got)
	}
}

// S2: three files under joint ZSTD, checksumType=none.
func TestScenarioS2JointZstdThreeFiles(t *testing.T) {
	dir := t.TempDir()
	header := format.Header{
		CompMethod: format.CompZstd,
		Flags:      format.Bitfield{ChecksumType: format.ChecksumNone, CompLevel: 10},
	}
	files := map[string][]byte{
		"a": bytes.Repeat([]byte{0x00}, 100),
		"b": bytes.Repeat([]byte{0xFF}, 100),
		"c": {},
	}
	order := []string{"a", "b", "c"}
	path := buildArchive(t, dir, "s2.dpk", header, files, order)

	r, err := reader.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if got := r.NumEntries(); got != 3 {
		t.Fatalf("NumEntries: got %d, want 3", got)
	}

	for _, fname := range order {
		got, err := r.NextBytes()
		if err != nil {
			t.Fatalf("NextBytes(%s): %v", fname, err)
		}
		if !bytes.Equal(got, files[fname]) {
			t.Errorf("%s: got %d bytes, want %d bytes", fname, len(got), len(files[fname]))
		}
	}
}

// S3: two identical blobs under per-file ZLIB with CRC64-ECMA digests.
func TestScenarioS3PerFileZlibCRC64ECMA(t *testing.T) {
	dir := t.TempDir()
	header := format.Header{
		CompMethod: format.CompZlib,
		Flags:      format.Bitfield{ChecksumType: format.ChecksumCRC64ECMA, CompLevel: 6, PerFileComp: true},
	}
	blob := make([]byte, 64*1024)
	for i := range blob {
		blob[i] = byte(i * 7)
	}
	files := map[string][]byte{"x": blob, "y": append([]byte{}, blob...)}
	order := []string{"x", "y"}
	path := buildArchive(t, dir, "s3.dpk", header, files, order)

	r, err := reader.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	xEntry, _ := r.GetIndex(0)
	yEntry, _ := r.GetIndex(1)
	if !bytes.Equal(xEntry.Checksum(8), yEntry.Checksum(8)) {
		t.Errorf("expected identical CRC64-ECMA digests for identical blobs:\n%s", spew.Sdump(xEntry, yEntry))
	}

	for _, fname := range order {
		got, err := r.NextBytes()
		if err != nil {
			t.Fatalf("NextBytes(%s): %v", fname, err)
		}
		if !bytes.Equal(got, files[fname]) {
			t.Errorf("%s: decoded bytes do not match original", fname)
		}
	}
}

// S4: corrupted signature is rejected.
func TestScenarioS4BadSignature(t *testing.T) {
	dir := t.TempDir()
	header := format.Header{CompMethod: format.CompUncompressed}
	path := buildArchive(t, dir, "s4.dpk", header, map[string][]byte{"a": {1}}, []string{"a"})

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	raw[6] = 'p' // "DataPak." -> "DataPap."
	corrupted := filepath.Join(dir, "s4_corrupt.dpk")
	if err := os.WriteFile(corrupted, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err = reader.Open(corrupted)
	if !dpkerr.Is(err, dpkerr.BadSignature) {
		t.Fatalf("expected BadSignature, got %v", err)
	}
}

// S5: a flipped bit in the header trips the CRC32 trailer check.
func TestScenarioS5BadHeaderChecksum(t *testing.T) {
	dir := t.TempDir()
	header := format.Header{CompMethod: format.CompUncompressed}
	path := buildArchive(t, dir, "s5.dpk", header, map[string][]byte{"a": {1}}, []string{"a"})

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	raw[8+20] ^= 0x01 // flip a bit inside numOfIndexes
	corrupted := filepath.Join(dir, "s5_corrupt.dpk")
	if err := os.WriteFile(corrupted, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err = reader.Open(corrupted)
	if !dpkerr.Is(err, dpkerr.BadChecksum) {
		t.Fatalf("expected BadChecksum, got %v", err)
	}
}

// S6: SeekTo on a jointly compressed archive is unsupported.
func TestScenarioS6SeekUnsupportedOnJointArchive(t *testing.T) {
	dir := t.TempDir()
	header := format.Header{
		CompMethod: format.CompZstd,
		Flags:      format.Bitfield{PerFileComp: false},
	}
	files := map[string][]byte{"a": []byte("hello"), "b": []byte("world")}
	order := []string{"a", "b"}
	path := buildArchive(t, dir, "s6.dpk", header, files, order)

	r, err := reader.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if r.RandomAccess() {
		t.Fatal("expected RandomAccess() == false for joint archive")
	}
	if _, err := r.SeekTo(1); !dpkerr.Is(err, dpkerr.UnsupportedAccessMode) {
		t.Fatalf("expected UnsupportedAccessMode, got %v", err)
	}
}

func TestSeekToOnUncompressedArchive(t *testing.T) {
	dir := t.TempDir()
	header := format.Header{CompMethod: format.CompUncompressed}
	files := map[string][]byte{"a": []byte("first"), "b": []byte("second"), "c": []byte("third")}
	order := []string{"a", "b", "c"}
	path := buildArchive(t, dir, "seek.dpk", header, files, order)

	r, err := reader.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if !r.RandomAccess() {
		t.Fatal("expected RandomAccess() == true for uncompressed archive")
	}
	if _, err := r.SeekTo(2); err != nil {
		t.Fatalf("SeekTo: %v", err)
	}
	got, err := r.NextBytes()
	if err != nil {
		t.Fatalf("NextBytes: %v", err)
	}
	if !bytes.Equal(got, files["c"]) {
		t.Errorf("got %q, want %q", got, files["c"])
	}
}

func TestDisabledSignatureCheckAllowsBestEffortRead(t *testing.T) {
	dir := t.TempDir()
	header := format.Header{CompMethod: format.CompUncompressed}
	path := buildArchive(t, dir, "nosig.dpk", header, map[string][]byte{"a": {9}}, []string{"a"})

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	raw[0] = 'X'
	corrupted := filepath.Join(dir, "nosig_corrupt.dpk")
	if err := os.WriteFile(corrupted, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r, err := reader.Open(corrupted, reader.WithSignatureCheck(false))
	if err != nil {
		t.Fatalf("Open with signature check disabled: %v", err)
	}
	defer r.Close()
}
