package ml

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// 单变量假设 h(x) = θ0 + θ1*x 的参数个数
const ThetaSize = 2

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Observation is one (x, y) data point.
type Observation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DataSet is an ordered sequence of observations.
type DataSet []Observation

func (ds DataSet) Size() int {
	return len(ds)
}

// Xs returns the feature column.
func (ds DataSet) Xs() []float64 {
	xs := make([]float64, len(ds))
	for i, o := range ds {
		xs[i] = o.X
	}
	return xs
}

// Ys returns the target column.
func (ds DataSet) Ys() []float64 {
	ys := make([]float64, len(ds))
	for i, o := range ds {
		ys[i] = o.Y
	}
	return ys
}

// Theta is the parameter vector, theta[0] is the intercept.
type Theta []float64

func (t Theta) Clone() Theta {
	c := make(Theta, len(t))
	copy(c, t)
	return c
}

func (t Theta) Intercept() float64 {
	return t[0]
}

func (t Theta) Slope() float64 {
	return t[1]
}

// DesignMatrix holds the augmented rows [1, x] of a dataset and its targets.
type DesignMatrix struct {
	X *mat.Dense
	Y *mat.VecDense
}

// NewDesignMatrix builds X (m x 2, bias column first) and y from ds.
// Both Cost and GradientDescent go through here.
func NewDesignMatrix(ds DataSet) (*DesignMatrix, error) {
	m := len(ds)
	if m == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "empty data set")
	}

	rows := make([]float64, 0, m*ThetaSize)
	ys := make([]float64, m)
	for i, o := range ds {
		rows = append(rows, 1, o.X)
		ys[i] = o.Y
	}
	return &DesignMatrix{
		X: mat.NewDense(m, ThetaSize, rows),
		Y: mat.NewVecDense(m, ys),
	}, nil
}

func (dm *DesignMatrix) Rows() int {
	m, _ := dm.X.Dims()
	return m
}

// Residuals returns X*theta - y.
func (dm *DesignMatrix) Residuals(theta Theta) (*mat.VecDense, error) {
	_, n := dm.X.Dims()
	if len(theta) != n {
		return nil, errors.Wrapf(ErrDimensionMismatch, "theta has %d elements, want %d", len(theta), n)
	}

	var r mat.VecDense
	r.MulVec(dm.X, mat.NewVecDense(n, theta.Clone()))
	r.SubVec(&r, dm.Y)
	return &r, nil
}
