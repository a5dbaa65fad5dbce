package ffmpeg

import (
	"slices"
	"strings"
	"testing"

	"alacify/internal/media/formats"
)

func TestTranscodeArgsForALAC(t *testing.T) {
	target, err := formats.LookupTarget("alac")
	if err != nil {
		t.Fatalf("LookupTarget: %v", err)
	}
	args := TranscodeArgs("/in/a.flac", "/out/a.m4a", target)
	got := strings.Join(args, " ")
	want := "-hide_banner -v warning -y -i /in/a.flac -map 0:a:0 -map 0:v:0? -c:a alac -c:v copy -disposition:v attached_pic -map_metadata 0 /out/a.m4a"
	if got != want {
		t.Fatalf("unexpected args\n got: %s\nwant: %s", got, want)
	}
}

func TestTranscodeArgsWithoutCoverArt(t *testing.T) {
	target := formats.Format{Name: "raw", Extensions: []string{".wav"}, Codec: "pcm_s24le", Target: true}
	args := TranscodeArgs("in.flac", "out.wav", target)
	if slices.Contains(args, "attached_pic") || slices.Contains(args, "0:v:0?") {
		t.Fatalf("expected no video mapping for targets without cover art: %v", args)
	}
	if args[len(args)-1] != "out.wav" {
		t.Fatalf("expected destination last, got %v", args)
	}
}

func TestDecodeArgsStreamToStdout(t *testing.T) {
	args := DecodeArgs("/music/a.m4a")
	if args[len(args)-1] != "pipe:1" {
		t.Fatalf("expected pipe:1 output, got %v", args)
	}
	joined := strings.Join(args, " ")
	for _, fragment := range []string{"-i /music/a.m4a", "-f s32le", "-acodec pcm_s32le", "-map 0:a:0"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in %q", fragment, joined)
		}
	}
}
