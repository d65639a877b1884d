package ext_test

import (
	"testing"

	"github.com/ZILtoid1991/datapak/ext"
	"github.com/ZILtoid1991/datapak/format"
)

func TestCompressionDictRoundTrip(t *testing.T) {
	dict := []byte("some dictionary bytes")
	he := ext.NewCompressionDict(dict)
	raw, err := he.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	sig, size, err := format.UnmarshalHeaderExtPrefix(raw)
	if err != nil {
		t.Fatalf("UnmarshalHeaderExtPrefix: %v", err)
	}
	if sig != format.SigCompressionDict {
		t.Fatalf("signature mismatch: got %q", sig)
	}
	payload := raw[format.HeaderExtPrefixSize:size]
	got, err := ext.UnmarshalCompressionDict(payload)
	if err != nil {
		t.Fatalf("UnmarshalCompressionDict: %v", err)
	}
	if string(got.Dictionary) != string(dict) {
		t.Errorf("got %q, want %q", got.Dictionary, dict)
	}
}

func TestCompressionDictRefRoundTrip(t *testing.T) {
	he := ext.NewCompressionDictRef("dicts/shared.bin")
	raw, err := he.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	_, size, err := format.UnmarshalHeaderExtPrefix(raw)
	if err != nil {
		t.Fatalf("UnmarshalHeaderExtPrefix: %v", err)
	}
	payload := raw[format.HeaderExtPrefixSize:size]
	got, err := ext.UnmarshalCompressionDictRef(payload)
	if err != nil {
		t.Fatalf("UnmarshalCompressionDictRef: %v", err)
	}
	if got.Path != "dicts/shared.bin" {
		t.Errorf("got %q", got.Path)
	}
}

func TestOSExtRoundTrip(t *testing.T) {
	ie, err := ext.NewOSExt("assets/textures/wall.png", 1700000000, 1700000500, 0xABCD, 0x1234)
	if err != nil {
		t.Fatalf("NewOSExt: %v", err)
	}
	raw, err := ie.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	_, size, err := format.UnmarshalIndexExtPrefix(raw)
	if err != nil {
		t.Fatalf("UnmarshalIndexExtPrefix: %v", err)
	}
	payload := raw[format.IndexExtPrefixSize:size]
	got, err := ext.UnmarshalOSExt(payload)
	if err != nil {
		t.Fatalf("UnmarshalOSExt: %v", err)
	}
	if got.Path != "assets/textures/wall.png" {
		t.Errorf("path: got %q", got.Path)
	}
	if got.CreationTime != 1700000000 || got.ModifyTime != 1700000500 {
		t.Errorf("timestamps: got creation=%d modify=%d", got.CreationTime, got.ModifyTime)
	}
	if got.AttrBank1 != 0xABCD || got.AttrBank2 != 0x1234 {
		t.Errorf("attr banks: got %#x, %#x", got.AttrBank1, got.AttrBank2)
	}
}

func TestOSExtRejectsOverlongPath(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := ext.NewOSExt(string(long), 0, 0, 0, 0); err == nil {
		t.Fatal("expected error for overlong path")
	}
}

func TestOSExtPRoundTrip(t *testing.T) {
	ie, err := ext.NewOSExtP(1000, 1000, "builder", "devs", ext.OwnerRead|ext.OwnerWrite|ext.GroupRead)
	if err != nil {
		t.Fatalf("NewOSExtP: %v", err)
	}
	raw, err := ie.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	_, size, err := format.UnmarshalIndexExtPrefix(raw)
	if err != nil {
		t.Fatalf("UnmarshalIndexExtPrefix: %v", err)
	}
	payload := raw[format.IndexExtPrefixSize:size]
	got, err := ext.UnmarshalOSExtP(payload)
	if err != nil {
		t.Fatalf("UnmarshalOSExtP: %v", err)
	}
	if got.UserID != 1000 || got.GroupID != 1000 {
		t.Errorf("ids: got %d, %d", got.UserID, got.GroupID)
	}
	if got.UserName != "builder" || got.GroupName != "devs" {
		t.Errorf("names: got %q, %q", got.UserName, got.GroupName)
	}
	want := ext.OwnerRead | ext.OwnerWrite | ext.GroupRead
	if got.AccessFlags != want {
		t.Errorf("access flags: got %#x, want %#x", got.AccessFlags, want)
	}
}

func TestRandomAccessIndexRoundTrip(t *testing.T) {
	var state [16]byte
	copy(state[:], "codec-state-here")
	ie := ext.NewRandomAccessIndex(98765, state)
	raw, err := ie.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	_, size, err := format.UnmarshalIndexExtPrefix(raw)
	if err != nil {
		t.Fatalf("UnmarshalIndexExtPrefix: %v", err)
	}
	payload := raw[format.IndexExtPrefixSize:size]
	got, err := ext.UnmarshalRandomAccessIndex(payload)
	if err != nil {
		t.Fatalf("UnmarshalRandomAccessIndex: %v", err)
	}
	if got.Position != 98765 {
		t.Errorf("position: got %d", got.Position)
	}
	if got.State != state {
		t.Errorf("state: got %v, want %v", got.State, state)
	}
}

func TestDecodeHeaderExtDispatchesCompressionDict(t *testing.T) {
	dict := []byte("dictionary-seed-data")
	got, err := ext.DecodeHeaderExt(format.SigCompressionDict, dict)
	if err != nil {
		t.Fatalf("DecodeHeaderExt: %v", err)
	}
	cd, ok := got.(ext.CompressionDict)
	if !ok {
		t.Fatalf("expected ext.CompressionDict, got %T", got)
	}
	if string(cd.Dictionary) != string(dict) {
		t.Errorf("got %q, want %q", cd.Dictionary, dict)
	}
}

func TestDecodeIndexExtDispatchesOSExt(t *testing.T) {
	ie, err := ext.NewOSExt("old.bin", 1, 2, 3, 4)
	if err != nil {
		t.Fatalf("NewOSExt: %v", err)
	}
	raw, err := ie.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	sig, size, err := format.UnmarshalIndexExtPrefix(raw)
	if err != nil {
		t.Fatalf("UnmarshalIndexExtPrefix: %v", err)
	}
	payload := raw[format.IndexExtPrefixSize:size]
	got, err := ext.DecodeIndexExt(sig, payload)
	if err != nil {
		t.Fatalf("DecodeIndexExt: %v", err)
	}
	osExt, ok := got.(ext.OSExt)
	if !ok {
		t.Fatalf("expected ext.OSExt, got %T", got)
	}
	if osExt.Path != "old.bin" {
		t.Errorf("path: got %q", osExt.Path)
	}
}

func TestDecodeHeaderExtFallsBackToUnknown(t *testing.T) {
	var sig [format.HeaderExtSignatureSize]byte
	copy(sig[:], "XFOOBAR ")
	got, err := ext.DecodeHeaderExt(sig, []byte("opaque"))
	if err != nil {
		t.Fatalf("DecodeHeaderExt: %v", err)
	}
	u, ok := got.(ext.Unknown)
	if !ok {
		t.Fatalf("expected ext.Unknown, got %T", got)
	}
	if string(u.Data) != "opaque" {
		t.Errorf("got %q", u.Data)
	}
}
