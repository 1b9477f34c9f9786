// Fixed integer kernels for direct-form convolution
package spatial

import "errors"

var (
	ErrKernelEmpty     = errors.New("kernel is empty")
	ErrKernelNotSquare = errors.New("kernel is not square")
	ErrKernelNotOdd    = errors.New("kernel size is not odd")
)

// Kernel is an immutable odd-sized square matrix of signed weights.
type Kernel struct {
	size    int
	weights []int
}

// NewKernel copies rows into a Kernel after checking that it is square and
// has a single center cell.
func NewKernel(rows [][]int) (Kernel, error) {
	n := len(rows)
	if n == 0 {
		return Kernel{}, ErrKernelEmpty
	}
	if n%2 == 0 {
		return Kernel{}, ErrKernelNotOdd
	}

	weights := make([]int, 0, n*n)
	for _, row := range rows {
		if len(row) != n {
			return Kernel{}, ErrKernelNotSquare
		}
		weights = append(weights, row...)
	}
	return Kernel{size: n, weights: weights}, nil
}

func mustKernel(rows [][]int) Kernel {
	k, err := NewKernel(rows)
	if err != nil {
		panic(err)
	}
	return k
}

// Size is the side length.
func (k Kernel) Size() int { return k.size }

// Radius is the distance from the center cell to the edge.
func (k Kernel) Radius() int { return k.size / 2 }

// At returns the weight at row ky, column kx.
func (k Kernel) At(ky, kx int) int { return k.weights[ky*k.size+kx] }

// Rows returns a copy of the weights as a nested slice.
func (k Kernel) Rows() [][]int {
	rows := make([][]int, k.size)
	for i := range rows {
		rows[i] = append([]int(nil), k.weights[i*k.size:(i+1)*k.size]...)
	}
	return rows
}
