// Package interpolate blends two fleet snapshots into an intermediate one.
//
// Linear quantities (position, speed, rate of turn) are blended directly.
// Course and heading are circular: they take the shortest way around the
// compass and the result is reduced into [0, 360). A field that is unknown at
// one end keeps the known endpoint; a field unknown at both ends stays unknown.
package interpolate
