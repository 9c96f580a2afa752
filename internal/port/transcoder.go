package port

import "io"

// TranscodeOutput is an encoded image ready to be stored.
type TranscodeOutput struct {
	Data         []byte
	ContentType  string
	Extension    string
	Width        int
	Height       int
	SourceWidth  int
	SourceHeight int
}

// Transcoder resizes and re-encodes images. It has no side effects besides
// reading r.
type Transcoder interface {
	Transcode(r io.Reader) (*TranscodeOutput, error)
	// Filename derives the output file name from the original one.
	Filename(original string) string
}
