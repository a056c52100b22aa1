// Package object defines the entities that live in the arena and the
// per-entity update rules the simulation step composes.
package object

import "github.com/tomz197/beedefense/internal/physics"

// Rand is the random source entities draw from. *math/rand.Rand satisfies it;
// tests inject fixed sequences.
type Rand interface {
	Float64() float64
}

// Entity holds the state shared by every arena object.
type Entity struct {
	ID      uint64      // Unique within the owning collection
	Pos     physics.Vec // Top-left corner
	Size    physics.Vec // Width and height, both > 0
	Vel     physics.Vec // Units per second
	Color   string      // Opaque to the simulation
	Deleted bool        // Pending removal at the end of the step
}

// Rect returns the entity's collision rectangle.
func (e *Entity) Rect() physics.Rect {
	return physics.RectAt(e.Pos, e.Size)
}

// Center returns the center of the collision rectangle.
func (e *Entity) Center() physics.Vec {
	return e.Rect().Center()
}

// MarkDestroyed marks the entity for removal (implements Destructible).
func (e *Entity) MarkDestroyed() {
	e.Deleted = true
}

// IsDestroyed returns true if the entity is marked for removal (implements Destructible).
func (e *Entity) IsDestroyed() bool {
	return e.Deleted
}

// Destructible is implemented by objects that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the object for removal at the end of the step.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// IDSeq hands out monotonically increasing IDs for one collection.
// The zero value starts at 1.
type IDSeq struct {
	last uint64
}

// Next returns the next unused ID.
func (s *IDSeq) Next() uint64 {
	s.last++
	return s.last
}

// Compact removes destroyed objects in place, keeping insertion order.
// The tail of the backing array is cleared so removed objects can be collected.
func Compact[T Destructible](items []T) []T {
	kept := items[:0] // reuse backing array
	for _, it := range items {
		if !it.IsDestroyed() {
			kept = append(kept, it)
		}
	}
	clear(items[len(kept):])
	return kept
}
