package flacmeta

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	flac "github.com/go-flac/go-flac"
)

// ErrUnsupported is returned for sources that are not FLAC files.
var ErrUnsupported = errors.New("flacmeta: not a flac source")

// Info summarizes a FLAC file's metadata.
type Info struct {
	SampleRate  int
	Channels    int
	BitDepth    int
	Samples     int64
	TagCount    int
	HasCoverArt bool
}

// Known reports whether stream properties were read.
func (i Info) Known() bool {
	return i.SampleRate > 0
}

// Duration returns the stream duration derived from the sample count.
func (i Info) Duration() time.Duration {
	if i.SampleRate <= 0 || i.Samples <= 0 {
		return 0
	}
	return time.Duration(float64(i.Samples) / float64(i.SampleRate) * float64(time.Second))
}

// String renders a compact description such as "24-bit/96000 Hz 2ch".
func (i Info) String() string {
	if !i.Known() {
		return "unknown"
	}
	desc := fmt.Sprintf("%d-bit/%d Hz %dch", i.BitDepth, i.SampleRate, i.Channels)
	if i.HasCoverArt {
		desc += " +art"
	}
	return desc
}

// Inspect parses the metadata blocks of the FLAC file at path.
func Inspect(path string) (Info, error) {
	if !strings.EqualFold(filepath.Ext(path), ".flac") {
		return Info{}, ErrUnsupported
	}
	fh, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("flacmeta: open %s: %w", path, err)
	}
	defer fh.Close()

	file, err := flac.ParseMetadata(fh)
	if err != nil {
		return Info{}, fmt.Errorf("flacmeta: parse %s: %w", path, err)
	}

	var info Info
	streamInfo, err := file.GetStreamInfo()
	if err != nil {
		return Info{}, fmt.Errorf("flacmeta: stream info %s: %w", path, err)
	}
	info.SampleRate = streamInfo.SampleRate
	info.Channels = streamInfo.ChannelCount
	info.BitDepth = streamInfo.BitDepth
	info.Samples = streamInfo.SampleCount

	for _, block := range file.Meta {
		switch block.Type {
		case flac.Picture:
			info.HasCoverArt = true
		case flac.VorbisComment:
			info.TagCount += vorbisCommentCount(block.Data)
		}
	}
	return info, nil
}

// vorbisCommentCount reads the user comment count that follows the vendor
// string. Malformed blocks count as zero.
func vorbisCommentCount(data []byte) int {
	if len(data) < 4 {
		return 0
	}
	vendorLen := int(binary.LittleEndian.Uint32(data[:4]))
	offset := 4 + vendorLen
	if vendorLen < 0 || offset+4 > len(data) {
		return 0
	}
	return int(binary.LittleEndian.Uint32(data[offset : offset+4]))
}
