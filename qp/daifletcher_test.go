package qp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDFLineSearchAcceptsDescentStep(t *testing.T) {
	ls := newDFLineSearch(2)
	// f(beta) = -beta, a strictly descending objective; beta=1 must be
	// accepted immediately since it satisfies the Armijo margin trivially.
	beta, f := ls.accept(-1, func(b float64) float64 { return -b })
	assert.Equal(t, 1.0, beta)
	assert.Equal(t, -1.0, f)
}

func TestDFLineSearchBacktracksOnAscent(t *testing.T) {
	ls := newDFLineSearch(2)
	// f(beta) = beta^2 rises for beta>0 even though slope<0 locally; the
	// search must shrink beta below 1.
	beta, _ := ls.accept(-1, func(b float64) float64 { return b * b })
	assert.Less(t, beta, 1.0)
}

func TestDFLineSearchMemoryWindow(t *testing.T) {
	ls := newDFLineSearch(2)
	ls.push(5)
	ls.push(3)
	ls.push(1) // evicts 5
	assert.Equal(t, 3.0, ls.reference())
}
