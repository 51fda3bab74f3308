package persist

// Format identifies a persistence representation (spec §6: "Concrete
// formats: ASCII, JSON, XML, HDF5").
type Format int

const (
	// ASCII is a plain-text, newline-delimited representation (exact f64
	// round-trip, spec §8).
	ASCII Format = iota
	// JSON uses goccy/go-json (drop-in encoding/json-compatible, faster;
	// f64 round-trip within 1e-6, spec §8).
	JSON
	// XML is declared for interface completeness; NewSerializer returns
	// ErrFormatNotImplemented (see DESIGN.md).
	XML
	// HDF5 is declared for interface completeness; NewSerializer returns
	// ErrFormatNotImplemented (see DESIGN.md).
	HDF5
)

// String returns the human-readable format name.
func (f Format) String() string {
	switch f {
	case ASCII:
		return "ASCII"
	case JSON:
		return "JSON"
	case XML:
		return "XML"
	case HDF5:
		return "HDF5"
	default:
		return "unknown"
	}
}

// Serializer encodes and decodes scalars, vectors, and matrices. Only
// float64 is implemented, for scalars as well as vectors/matrices, since no
// core component round-trips any other element type; the other primitive
// element types named in spec §6 have no methods.
type Serializer interface {
	Format() Format

	EncodeFloat64(v float64) ([]byte, error)
	DecodeFloat64(data []byte) (float64, error)

	EncodeVector(v []float64) ([]byte, error)
	DecodeVector(data []byte) ([]float64, error)

	// EncodeMatrix encodes a row-major matrix of the given dimensions.
	EncodeMatrix(rows, cols int, data []float64) ([]byte, error)
	// DecodeMatrix decodes a row-major matrix, returning its dimensions.
	DecodeMatrix(data []byte) (rows, cols int, values []float64, err error)
}

// NewSerializer returns the Serializer for f, or ErrFormatNotImplemented
// for XML/HDF5 (spec §1 non-goal; see DESIGN.md).
func NewSerializer(f Format) (Serializer, error) {
	switch f {
	case ASCII:
		return asciiSerializer{}, nil
	case JSON:
		return jsonSerializer{}, nil
	default:
		return nil, ErrFormatNotImplemented
	}
}
