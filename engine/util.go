package engine

import "github.com/lixenwraith/pointerd/vmath"

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func midpoint(a, b vmath.Point) vmath.Point {
	return vmath.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func ternary(cond bool, ifTrue, ifFalse float64) float64 {
	if cond {
		return ifTrue
	}
	return ifFalse
}
