package persist

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// asciiSerializer implements Serializer for plain-text encoding. float64
// values round-trip exactly (spec §8 "ASCII f64 exact") since they are
// formatted with strconv.FormatFloat's 'g' verb at full (-1) precision,
// which always produces the shortest decimal string that parses back to
// the identical bit pattern.
type asciiSerializer struct{}

func (asciiSerializer) Format() Format { return ASCII }

func formatF64(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (asciiSerializer) EncodeFloat64(v float64) ([]byte, error) {
	return []byte(formatF64(v) + "\n"), nil
}

func (asciiSerializer) DecodeFloat64(data []byte) (float64, error) {
	s := strings.TrimSpace(string(data))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}

	return v, nil
}

func (a asciiSerializer) EncodeVector(v []float64) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d\n", len(v))
	for _, x := range v {
		fmt.Fprintf(&buf, "%s\n", formatF64(x))
	}

	return buf.Bytes(), nil
}

func (a asciiSerializer) DecodeVector(data []byte) ([]float64, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() {
		return nil, fmt.Errorf("%w: missing length header", ErrMalformedModel)
	}
	n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: bad length header", ErrMalformedModel)
	}
	v := make([]float64, 0, n)
	for sc.Scan() {
		val, err := strconv.ParseFloat(strings.TrimSpace(sc.Text()), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedModel, err)
		}
		v = append(v, val)
	}
	if len(v) != n {
		return nil, ErrLengthMismatch
	}

	return v, nil
}

func (a asciiSerializer) EncodeMatrix(rows, cols int, data []float64) ([]byte, error) {
	if len(data) != rows*cols {
		return nil, ErrLengthMismatch
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d\n", rows, cols)
	for i := 0; i < rows; i++ {
		row := make([]string, cols)
		for j := 0; j < cols; j++ {
			row[j] = formatF64(data[i*cols+j])
		}
		fmt.Fprintf(&buf, "%s\n", strings.Join(row, " "))
	}

	return buf.Bytes(), nil
}

func (a asciiSerializer) DecodeMatrix(data []byte) (int, int, []float64, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !sc.Scan() {
		return 0, 0, nil, fmt.Errorf("%w: missing dimension header", ErrMalformedModel)
	}
	dims := strings.Fields(sc.Text())
	if len(dims) != 2 {
		return 0, 0, nil, fmt.Errorf("%w: bad dimension header", ErrMalformedModel)
	}
	rows, err1 := strconv.Atoi(dims[0])
	cols, err2 := strconv.Atoi(dims[1])
	if err1 != nil || err2 != nil || rows < 0 || cols < 0 {
		return 0, 0, nil, fmt.Errorf("%w: bad dimension header", ErrMalformedModel)
	}

	out := make([]float64, 0, rows*cols)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		for _, tok := range strings.Fields(line) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return 0, 0, nil, fmt.Errorf("%w: %v", ErrMalformedModel, err)
			}
			out = append(out, v)
		}
	}
	if len(out) != rows*cols {
		return 0, 0, nil, ErrLengthMismatch
	}

	return rows, cols, out, nil
}
