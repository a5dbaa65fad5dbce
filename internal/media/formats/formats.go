package formats

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// Format is a lossless audio container/codec pairing.
type Format struct {
	Name       string
	Extensions []string
	Codec      string
	CoverArt   bool
	Target     bool
}

// CanonicalExtension returns the extension written for outputs in this format,
// including the leading dot.
func (f Format) CanonicalExtension() string {
	if len(f.Extensions) == 0 {
		return ""
	}
	return f.Extensions[0]
}

// Matches reports whether path carries one of this format's extensions.
// Comparison is case-insensitive.
func (f Format) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return slices.Contains(f.Extensions, ext)
}

var registry = map[string]Format{
	"flac":    {Name: "flac", Extensions: []string{".flac"}, Codec: "flac", CoverArt: true, Target: true},
	"alac":    {Name: "alac", Extensions: []string{".m4a"}, Codec: "alac", CoverArt: true, Target: true},
	"wav":     {Name: "wav", Extensions: []string{".wav"}, Codec: "pcm_s24le"},
	"aiff":    {Name: "aiff", Extensions: []string{".aiff", ".aif"}, Codec: "pcm_s24be"},
	"wavpack": {Name: "wavpack", Extensions: []string{".wv"}, Codec: "wavpack"},
	"ape":     {Name: "ape", Extensions: []string{".ape"}},
}

// Lookup returns the format registered under name (case-insensitive).
func Lookup(name string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if f, ok := registry[key]; ok {
		return f, nil
	}
	return Format{}, fmt.Errorf("unknown audio format %q (known: %s)", name, strings.Join(Names(), ", "))
}

// LookupTarget returns the format registered under name and ensures it can be
// written.
func LookupTarget(name string) (Format, error) {
	f, err := Lookup(name)
	if err != nil {
		return Format{}, err
	}
	if !f.Target {
		return Format{}, fmt.Errorf("audio format %q is not supported as a conversion target", f.Name)
	}
	return f, nil
}

// Names lists the registered format names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
