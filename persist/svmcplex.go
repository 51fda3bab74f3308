package persist

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// SVMCplexVersion is the literal version string this loader accepts (spec
// §6: "Persisted model (SVM-cplex style, ASCII)"). A file whose header
// names a different version is rejected per spec §7 ("version mismatch on
// load is fatal").
const SVMCplexVersion = "1.0"

// SVMCplexModel is the literal ASCII model format named in spec §6:
//
//	SVM-cplex Version <v>
//	<b>
//	<P>
//	<param_1>
//	...
//	<param_P>
type SVMCplexModel struct {
	Version string
	Bias    float64
	Params  []float64
}

// Encode writes m in the SVM-cplex ASCII format. Version defaults to
// SVMCplexVersion when empty.
func (m SVMCplexModel) Encode() []byte {
	version := m.Version
	if version == "" {
		version = SVMCplexVersion
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "SVM-cplex Version %s\n", version)
	fmt.Fprintf(&buf, "%s\n", formatF64(m.Bias))
	fmt.Fprintf(&buf, "%d\n", len(m.Params))
	for _, p := range m.Params {
		fmt.Fprintf(&buf, "%e\n", p)
	}

	return buf.Bytes()
}

// DecodeSVMCplexModel parses the SVM-cplex ASCII format. It returns
// ErrVersionMismatch if the header version does not equal SVMCplexVersion,
// and ErrMalformedModel for any structural parse failure (spec §7).
func DecodeSVMCplexModel(data []byte) (SVMCplexModel, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() {
		return SVMCplexModel{}, fmt.Errorf("%w: missing header", ErrMalformedModel)
	}
	header := strings.TrimSpace(sc.Text())
	const prefix = "SVM-cplex Version "
	if !strings.HasPrefix(header, prefix) {
		return SVMCplexModel{}, fmt.Errorf("%w: missing SVM-cplex header", ErrMalformedModel)
	}
	version := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if version != SVMCplexVersion {
		return SVMCplexModel{}, fmt.Errorf("%w: got %q want %q", ErrVersionMismatch, version, SVMCplexVersion)
	}

	if !sc.Scan() {
		return SVMCplexModel{}, fmt.Errorf("%w: missing bias", ErrMalformedModel)
	}
	bias, err := strconv.ParseFloat(strings.TrimSpace(sc.Text()), 64)
	if err != nil {
		return SVMCplexModel{}, fmt.Errorf("%w: bad bias: %v", ErrMalformedModel, err)
	}

	if !sc.Scan() {
		return SVMCplexModel{}, fmt.Errorf("%w: missing param count", ErrMalformedModel)
	}
	count, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || count < 0 {
		return SVMCplexModel{}, fmt.Errorf("%w: bad param count", ErrMalformedModel)
	}

	params := make([]float64, 0, count)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return SVMCplexModel{}, fmt.Errorf("%w: bad param line: %v", ErrMalformedModel, err)
		}
		params = append(params, v)
	}
	if len(params) != count {
		return SVMCplexModel{}, fmt.Errorf("%w: declared %d params, found %d", ErrMalformedModel, count, len(params))
	}

	return SVMCplexModel{Version: version, Bias: bias, Params: params}, nil
}
