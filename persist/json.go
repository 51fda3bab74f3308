package persist

import (
	"fmt"

	gojson "github.com/goccy/go-json"
)

// jsonSerializer implements Serializer over goccy/go-json (DOMAIN STACK:
// drop-in encoding/json-compatible, faster). Like encoding/json, goccy
// formats each float64 with the shortest representation that parses back
// to the same value, so finite values round-trip exactly, well within the
// 1e-6 bound of spec §8 "JSON f64 <= 1e-6".
type jsonSerializer struct{}

func (jsonSerializer) Format() Format { return JSON }

type jsonMatrix struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

func (jsonSerializer) EncodeFloat64(v float64) ([]byte, error) {
	return gojson.Marshal(v)
}

func (jsonSerializer) DecodeFloat64(data []byte) (float64, error) {
	var v float64
	if err := gojson.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}

	return v, nil
}

func (jsonSerializer) EncodeVector(v []float64) ([]byte, error) {
	return gojson.Marshal(v)
}

func (jsonSerializer) DecodeVector(data []byte) ([]float64, error) {
	var v []float64
	if err := gojson.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}

	return v, nil
}

func (jsonSerializer) EncodeMatrix(rows, cols int, data []float64) ([]byte, error) {
	if len(data) != rows*cols {
		return nil, ErrLengthMismatch
	}

	return gojson.Marshal(jsonMatrix{Rows: rows, Cols: cols, Data: data})
}

func (jsonSerializer) DecodeMatrix(data []byte) (int, int, []float64, error) {
	var m jsonMatrix
	if err := gojson.Unmarshal(data, &m); err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}
	if len(m.Data) != m.Rows*m.Cols {
		return 0, 0, nil, ErrLengthMismatch
	}

	return m.Rows, m.Cols, m.Data, nil
}
