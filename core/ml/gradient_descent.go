package ml

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Gradient returns ∂J/∂θ_j = 1/m * Σ r_i * X[i][j], i.e. Xᵀr / m.
func Gradient(ds DataSet, theta Theta) (Theta, error) {
	dm, err := NewDesignMatrix(ds)
	if err != nil {
		return nil, err
	}
	return dm.gradient(theta)
}

func (dm *DesignMatrix) gradient(theta Theta) (Theta, error) {
	r, err := dm.Residuals(theta)
	if err != nil {
		return nil, err
	}

	var delta mat.VecDense
	delta.MulVec(dm.X.T(), r)
	delta.ScaleVec(1/float64(dm.Rows()), &delta)
	return Theta(mat.Col(nil, 0, &delta)), nil
}

// GradientDescent performs exactly one batch update
// θ_j := θ_j - alpha * ∂J/∂θ_j and returns the new vector.
//
// Neither ds nor theta is modified. There is no convergence check,
// learning rate validation or divergence detection here: callers that
// want to reach the minimum must invoke it repeatedly and decide when
// to stop themselves (see package train).
func GradientDescent(ds DataSet, alpha float64, theta Theta) (Theta, error) {
	dm, err := NewDesignMatrix(ds)
	if err != nil {
		return nil, errors.WithMessage(err, "gradient descent")
	}
	delta, err := dm.gradient(theta)
	if err != nil {
		return nil, errors.WithMessage(err, "gradient descent")
	}

	next := make(Theta, len(theta))
	for j := range theta {
		next[j] = theta[j] - alpha*delta[j]
	}
	return next, nil
}
