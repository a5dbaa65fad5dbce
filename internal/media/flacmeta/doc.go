// Package flacmeta reads FLAC metadata blocks without decoding audio.
//
// It reports the STREAMINFO properties (sample rate, channels, bit depth,
// sample count), the number of Vorbis comment tags, and whether an embedded
// PICTURE block is present. The converter uses the result to annotate tasks
// and logs; it never gates a conversion on it.
package flacmeta
