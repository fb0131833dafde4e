package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// adamState carries first and second moment estimates for one parameter
// matrix. Moments share the parameter's shape.
type adamState struct {
	m *mat.Dense
	v *mat.Dense
}

// Adam implements the Adam adaptive gradient-descent update with the usual
// defaults (beta1 0.9, beta2 0.999, eps 1e-8). One shared step counter covers
// every registered parameter, matching per-batch updates.
type Adam struct {
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int
	states map[*mat.Dense]*adamState
}

// NewAdam creates an optimizer with the given learning rate.
func NewAdam(lr float64) *Adam {
	return &Adam{
		lr:     lr,
		beta1:  0.9,
		beta2:  0.999,
		eps:    1e-8,
		states: make(map[*mat.Dense]*adamState),
	}
}

// Tick advances the shared timestep. Call once per batch, before Update.
func (a *Adam) Tick() {
	a.t++
}

// Update applies one Adam step to param in place using grad. Parameter
// matrices are identified by pointer; moment buffers are allocated lazily on
// first sight.
func (a *Adam) Update(param, grad *mat.Dense) {
	r, c := param.Dims()
	st, ok := a.states[param]
	if !ok {
		st = &adamState{
			m: mat.NewDense(r, c, nil),
			v: mat.NewDense(r, c, nil),
		}
		a.states[param] = st
	}

	// Bias-corrected step size for the shared timestep.
	correction := math.Sqrt(1-math.Pow(a.beta2, float64(a.t))) / (1 - math.Pow(a.beta1, float64(a.t)))
	step := a.lr * correction

	p := param.RawMatrix().Data
	g := grad.RawMatrix().Data
	m := st.m.RawMatrix().Data
	v := st.v.RawMatrix().Data
	for i := range p {
		m[i] = a.beta1*m[i] + (1-a.beta1)*g[i]
		v[i] = a.beta2*v[i] + (1-a.beta2)*g[i]*g[i]
		p[i] -= step * m[i] / (math.Sqrt(v[i]) + a.eps)
	}
}
