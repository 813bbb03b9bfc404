package ml

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Hypothesis returns θ0 + θ1*x.
func Hypothesis(theta Theta, x float64) (float64, error) {
	if len(theta) != ThetaSize {
		return 0, errors.Wrapf(ErrDimensionMismatch, "hypothesis: theta has %d elements, want %d", len(theta), ThetaSize)
	}
	return theta[0] + theta[1]*x, nil
}

// Cost computes J(θ) = 1/(2m) * Σ(h(x_i) - y_i)^2.
//
// ds must be non-empty and theta must hold exactly ThetaSize elements,
// otherwise ErrInvalidInput or ErrDimensionMismatch is returned.
func Cost(ds DataSet, theta Theta) (float64, error) {
	dm, err := NewDesignMatrix(ds)
	if err != nil {
		return 0, errors.WithMessage(err, "cost")
	}
	r, err := dm.Residuals(theta)
	if err != nil {
		return 0, errors.WithMessage(err, "cost")
	}

	m := float64(dm.Rows())
	return mat.Dot(r, r) / (2 * m), nil
}

// Residuals returns h(x_i) - y_i for every observation, in order.
func Residuals(ds DataSet, theta Theta) ([]float64, error) {
	dm, err := NewDesignMatrix(ds)
	if err != nil {
		return nil, err
	}
	r, err := dm.Residuals(theta)
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, r), nil
}

// LeastSquares returns the closed-form ordinary least squares fit,
// the point gradient descent converges to. The fit is undefined, and
// ErrInvalidInput is returned, when x has no spread.
func LeastSquares(ds DataSet) (Theta, error) {
	if len(ds) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "least squares: empty data set")
	}
	xs := ds.Xs()
	if len(xs) < 2 || stat.Variance(xs, nil) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "least squares: x has zero variance")
	}
	alpha, beta := stat.LinearRegression(xs, ds.Ys(), nil, false)
	return Theta{alpha, beta}, nil
}

// RSquared is the coefficient of determination of theta over ds.
func RSquared(ds DataSet, theta Theta) (float64, error) {
	if len(ds) == 0 {
		return 0, errors.Wrap(ErrInvalidInput, "r squared: empty data set")
	}
	if len(theta) != ThetaSize {
		return 0, errors.Wrapf(ErrDimensionMismatch, "r squared: theta has %d elements, want %d", len(theta), ThetaSize)
	}
	ys := ds.Ys()
	if len(ys) < 2 || stat.Variance(ys, nil) == 0 {
		return 0, errors.Wrap(ErrInvalidInput, "r squared: y has zero variance")
	}
	return stat.RSquared(ds.Xs(), ys, nil, theta.Intercept(), theta.Slope()), nil
}
