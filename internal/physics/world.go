package physics

// Member is anything the sweep can integrate and test: an actor with a bounding box
// and a collision hook. T is the concrete handle type passed back to OnCollision.
type Member[T any] interface {
	Update(dt float32)
	Bounds() (AABB, bool)
	OnCollision(other T)
}

// Contact is one overlapping pair found by Step, with the minimum penetration axis.
type Contact[T any] struct {
	A, B  T
	Depth float32
	Axis  int
}

// Step advances every member by dt, then runs the broad-phase sweep over all pairs.
// Members are integrated before any pair is tested, so every box is current for the
// tick. Each overlapping pair is notified once in both directions (A first).
// There is no response; members decide what to do in OnCollision.
func Step[T Member[T]](dt float32, members []T) []Contact[T] {
	for _, m := range members {
		m.Update(dt)
	}
	return Sweep(members)
}

// Sweep tests every pair without integrating and notifies overlapping pairs.
func Sweep[T Member[T]](members []T) []Contact[T] {
	var contacts []Contact[T]
	for i := 0; i < len(members); i++ {
		bi, ok := members[i].Bounds()
		if !ok {
			continue
		}
		for j := i + 1; j < len(members); j++ {
			bj, ok := members[j].Bounds()
			if !ok || !bi.Intersects(bj) {
				continue
			}
			depth, axis := penetrationAxis(bi, bj)
			contacts = append(contacts, Contact[T]{A: members[i], B: members[j], Depth: depth, Axis: axis})
			members[i].OnCollision(members[j])
			members[j].OnCollision(members[i])
		}
	}
	return contacts
}
