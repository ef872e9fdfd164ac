package geometry

import (
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/material"
)

// ShapeList is an ordered collection of shapes that is itself a Shape
type ShapeList []Shape

// Add appends shapes to the list
func (l *ShapeList) Add(shapes ...Shape) {
	*l = append(*l, shapes...)
}

// Hit returns the closest hit over every shape in the list.
// Each accepted hit shrinks tMax, so later shapes only need to beat it.
func (l ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
