package bundle_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/svmcore/bundle"
	"github.com/katalvlaran/svmcore/internal/solverctx"
)

// quadRisk is a toy risk oracle R(w) = 1/2||w||^2 + <w, c> whose minimizer
// is w = -c, used to demonstrate the BMRM API without a real learning task.
type quadRisk struct{ c []float64 }

func (q quadRisk) Risk(w []float64, _ bundle.PartitionInfo) (float64, []float64, error) {
	sg := make([]float64, len(w))
	r := 0.0
	for i := range w {
		sg[i] = w[i] + q.c[i]
		r += 0.5*w[i]*w[i] + q.c[i]*w[i]
	}

	return r, sg, nil
}

func ExampleSolve() {
	params := bundle.Params{
		Variant: bundle.BMRM,
		Dim:     2,
		Lambda:  1.0,
		BufSize: 50,
		TolRel:  1e-8,
		TolAbs:  1e-10,
		MaxIter: 500,
	}
	res, err := bundle.Solve(context.Background(), solverctx.New(), params, []bundle.RiskOracle{quadRisk{c: []float64{1, 2}}}, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("converged:", res.Exit == bundle.ExitKKT || res.Exit == bundle.ExitAbsTol)
	// Output:
	// converged: true
}
