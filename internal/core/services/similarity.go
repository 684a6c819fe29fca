package services

import "math"

// CosineSimilarity returns dot(u,v) / (|u|·|v|), clamped to [-1, 1].
// Returns 0 if the vectors differ in length or either has zero norm.
func CosineSimilarity(u, v []float32) float64 {
	if len(u) != len(v) {
		return 0
	}
	var dot, nu, nv float64
	for i := range u {
		a, b := float64(u[i]), float64(v[i])
		dot += a * b
		nu += a * a
		nv += b * b
	}
	return cosineFromParts(dot, nu*nv)
}

// cosineFromParts finishes a cosine given the dot product and the product of
// the squared norms.
func cosineFromParts(dot, squaredNorms float64) float64 {
	if squaredNorms == 0 {
		return 0
	}
	sim := dot / math.Sqrt(squaredNorms)
	switch {
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	default:
		return sim
	}
}

// squaredNorm returns the sum of squares of v.
func squaredNorm(v []float32) float64 {
	var n float64
	for _, x := range v {
		f := float64(x)
		n += f * f
	}
	return n
}

// dot returns the dot product of two equal-length vectors.
func dot(u, v []float32) float64 {
	var d float64
	for i := range u {
		d += float64(u[i]) * float64(v[i])
	}
	return d
}
