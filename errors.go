package zdraw

import "errors"

// Precondition and bounds errors. All of them surface synchronously at the
// offending call; the frame or recording they interrupt is left in an
// undefined state and must be abandoned.
var (
	// ErrFrameOpen is returned by Begin when a frame is already open, and
	// by SetResolution mid-frame.
	ErrFrameOpen = errors.New("zdraw: frame already open")

	// ErrNotBegun is returned by operations that require an open frame.
	ErrNotBegun = errors.New("zdraw: no open frame")

	// ErrStackUnderflow is returned by PopTransform when only the identity
	// base remains.
	ErrStackUnderflow = errors.New("zdraw: transform stack underflow")

	// ErrClipUnderflow is returned by EndClipping without a matching
	// BeginClipping.
	ErrClipUnderflow = errors.New("zdraw: clip stack underflow")

	// ErrRecordingActive is returned when an operation conflicts with an
	// active recording (nested BeginRecording, or End/Flush/BeginGL while
	// recording).
	ErrRecordingActive = errors.New("zdraw: recording already active")

	// ErrNoRecording is returned by EndRecording without a matching
	// BeginRecording.
	ErrNoRecording = errors.New("zdraw: no active recording")

	// ErrDrawInCallback is returned when a drawing call is issued from
	// inside a scheduled native callback.
	ErrDrawInCallback = errors.New("zdraw: drawing call inside native callback")

	// ErrNativeActive is returned when BeginGL is called inside an open
	// BeginGL/EndGL bracket.
	ErrNativeActive = errors.New("zdraw: native context already acquired")

	// ErrNotInNative is returned by EndGL without a matching BeginGL.
	ErrNotInNative = errors.New("zdraw: endGL without beginGL")

	// ErrOutOfBounds is returned when a requested sub-rectangle lies
	// outside the source bitmap.
	ErrOutOfBounds = errors.New("zdraw: source rectangle outside bitmap bounds")

	// ErrTextureTooLarge is returned when a backend cannot allocate a
	// texture of the requested size.
	ErrTextureTooLarge = errors.New("zdraw: texture exceeds maximum supported size")

	// ErrBadPrimitive is returned by a backend for a vertex count that is
	// not a line, triangle or quad.
	ErrBadPrimitive = errors.New("zdraw: primitive must have 2, 3 or 4 vertices")

	// ErrForeignTexture is returned when a texture handle from another
	// backend (or an already released one) is submitted.
	ErrForeignTexture = errors.New("zdraw: texture does not belong to this backend")
)
