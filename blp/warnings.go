package blp

import "fmt"

// WarningKind enumerates the non-fatal corruption/heuristic events the
// codec can surface while decoding or encoding (spec §4.8/C8).
type WarningKind int

const (
	WarnBadDataBuffer WarningKind = iota
	WarnBadMipmapDimension
	WarnBadPixelAlpha
	WarnBadJpegHeader
	WarnJpegDecoderWarning
	WarnJpegEncoderWarning
)

func (k WarningKind) String() string {
	switch k {
	case WarnBadDataBuffer:
		return "BAD_DATA_BUFFER"
	case WarnBadMipmapDimension:
		return "BAD_MIPMAP_DIMENSION"
	case WarnBadPixelAlpha:
		return "BAD_PIXEL_ALPHA"
	case WarnBadJpegHeader:
		return "BAD_JPEG_HEADER"
	case WarnJpegDecoderWarning:
		return "JPEG_DECODER_WARNING"
	case WarnJpegEncoderWarning:
		return "JPEG_ENCODER_WARNING"
	default:
		return "UNKNOWN"
	}
}

// Warning is a single non-fatal event delivered synchronously to a
// WarningSink. It implements error so a sink can be as simple as
// "append to a slice" and the caller can inspect entries afterward.
type Warning struct {
	Kind    WarningKind
	Mipmap  int // -1 when not associated with a specific mipmap
	Message string

	// Kind-specific scalar fields, populated per spec §4.8.
	Actual, Expected int
	Vendor           string
}

func (w Warning) Error() string {
	if w.Mipmap >= 0 {
		return fmt.Sprintf("blp: %s (mipmap %d): %s", w.Kind, w.Mipmap, w.Message)
	}
	return fmt.Sprintf("blp: %s: %s", w.Kind, w.Message)
}

// WarningSink receives warnings synchronously as they occur, delivered
// through Decoder.SetWarningSink/Encoder.SetWarningSink (spec §4.8). A
// nil sink discards warnings.
type WarningSink func(Warning)

func emit(sink WarningSink, w Warning) {
	if sink != nil {
		sink(w)
	}
}

// CollectingSink returns a WarningSink that appends every warning to
// *out, useful for callers who want to inspect all warnings after a
// decode/encode completes rather than react to them as they arrive.
func CollectingSink(out *[]Warning) WarningSink {
	return func(w Warning) {
		*out = append(*out, w)
	}
}
