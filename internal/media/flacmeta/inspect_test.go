package flacmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type block struct {
	kind byte
	data []byte
}

func streamInfo(sampleRate, channels, bitDepth int, samples int64) []byte {
	buf := make([]byte, 34)
	binary.BigEndian.PutUint16(buf[0:2], 4096)
	binary.BigEndian.PutUint16(buf[2:4], 4096)
	packed := uint64(sampleRate)<<44 | uint64(channels-1)<<41 | uint64(bitDepth-1)<<36 | uint64(samples)
	binary.BigEndian.PutUint64(buf[10:18], packed)
	return buf
}

func vorbisComments(vendor string, comments ...string) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(vendor)))
	buf.WriteString(vendor)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(c)))
		buf.WriteString(c)
	}
	return buf.Bytes()
}

func writeFLAC(t *testing.T, name string, blocks ...block) string {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("fLaC")
	for i, b := range blocks {
		header := b.kind
		if i == len(blocks)-1 {
			header |= 0x80
		}
		buf.WriteByte(header)
		size := len(b.data)
		buf.Write([]byte{byte(size >> 16), byte(size >> 8), byte(size)})
		buf.Write(b.data)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write flac: %v", err)
	}
	return path
}

func TestInspectReadsStreamInfo(t *testing.T) {
	path := writeFLAC(t, "track.flac",
		block{kind: 0, data: streamInfo(96000, 2, 24, 96000*3)},
		block{kind: 4, data: vorbisComments("reference libFLAC", "ARTIST=Someone", "TITLE=Song")},
		block{kind: 6, data: make([]byte, 32)},
	)

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.SampleRate != 96000 || info.Channels != 2 || info.BitDepth != 24 {
		t.Fatalf("unexpected stream info: %+v", info)
	}
	if info.Duration() != 3*time.Second {
		t.Fatalf("unexpected duration %v", info.Duration())
	}
	if info.TagCount != 2 {
		t.Fatalf("expected 2 tags, got %d", info.TagCount)
	}
	if !info.HasCoverArt {
		t.Fatal("expected cover art to be detected")
	}
	if info.String() != "24-bit/96000 Hz 2ch +art" {
		t.Fatalf("unexpected description %q", info.String())
	}
}

func TestInspectRejectsOtherExtensions(t *testing.T) {
	_, err := Inspect("/music/track.wav")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestInspectReportsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.FLAC")
	if err := os.WriteFile(path, []byte("not a flac file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Inspect(path); err == nil {
		t.Fatal("expected parse error for garbage input")
	}
}

func TestVorbisCommentCountMalformed(t *testing.T) {
	if got := vorbisCommentCount([]byte{0xff, 0xff, 0xff, 0x0f}); got != 0 {
		t.Fatalf("expected 0 for truncated block, got %d", got)
	}
}

func TestUnknownInfoString(t *testing.T) {
	if (Info{}).String() != "unknown" {
		t.Fatal("expected unknown description for empty info")
	}
}

func TestInspectMissingFile(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "gone.flac"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
