package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when the normal equations of a regression have no
// unique solution.
var ErrSingular = errors.New("regressors are collinear")

// OLSResult holds an ordinary least squares fit.
type OLSResult struct {
	Coeffs    []float64
	StdErrors []float64 // nil when there are no residual degrees of freedom
	Residuals []float64
	SSE       float64
}

// OLS regresses y on the columns of x by solving the normal equations with a
// Cholesky factorization of X'X.
func OLS(x mat.Matrix, y []float64) (*OLSResult, error) {
	n, k := x.Dims()
	if n == 0 || k == 0 {
		return nil, errors.New("empty design matrix")
	}
	if n != len(y) {
		return nil, errors.New("design matrix and response must have the same number of rows")
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, x.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, ErrSingular
	}

	yVec := mat.NewVecDense(n, y)
	var xty mat.VecDense
	xty.MulVec(x.T(), yVec)

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, ErrSingular
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)

	residuals := make([]float64, n)
	sse := 0.0
	for i := range residuals {
		residuals[i] = y[i] - fitted.AtVec(i)
		sse += residuals[i] * residuals[i]
	}

	result := &OLSResult{
		Coeffs:    mat.Col(nil, 0, &beta),
		Residuals: residuals,
		SSE:       sse,
	}
	if n <= k {
		return result, nil
	}

	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return result, nil
	}
	s2 := sse / float64(n-k)
	result.StdErrors = make([]float64, k)
	for i := range result.StdErrors {
		result.StdErrors[i] = math.Sqrt(s2 * inv.At(i, i))
	}
	return result, nil
}

// olsRows is OLS over a row-major design, returning nil on failure.
func olsRows(rows [][]float64, y []float64) (coeffs, stdErrors []float64) {
	if len(rows) == 0 {
		return nil, nil
	}
	k := len(rows[0])
	x := mat.NewDense(len(rows), k, nil)
	for i, row := range rows {
		x.SetRow(i, row)
	}
	res, err := OLS(x, y)
	if err != nil {
		return nil, nil
	}
	return res.Coeffs, res.StdErrors
}
