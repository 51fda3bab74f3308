package persist

import "errors"

var (
	// ErrFormatNotImplemented is returned by NewSerializer for XML and
	// HDF5 (spec §1 non-goal; declared but not built out, see DESIGN.md).
	ErrFormatNotImplemented = errors.New("persist: format not implemented")

	// ErrVersionMismatch is returned when loading an SVMCplexModel whose
	// header version string does not match the loader's expected version
	// (spec §7: "version mismatch on load is fatal").
	ErrVersionMismatch = errors.New("persist: model version mismatch")

	// ErrMalformedModel is returned when an SVM-cplex ASCII model fails to
	// parse structurally (spec §7: "partial reads yield a structural parse
	// error").
	ErrMalformedModel = errors.New("persist: malformed model file")

	// ErrLengthMismatch is returned when a vector/matrix decode target's
	// length does not match the encoded payload.
	ErrLengthMismatch = errors.New("persist: length mismatch on decode")
)
