// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

// QueueRole is the job a device queue is used for.
type QueueRole int

// Queue roles, in the order they are assigned.
const (
	QueueGraphics QueueRole = iota
	QueuePresent
)

func (r QueueRole) String() string {
	switch r {
	case QueueGraphics:
		return "graphics"
	case QueuePresent:
		return "present"
	default:
		return "unknown"
	}
}

// QueueAssignment binds a role to a queue family.
type QueueAssignment struct {
	Role   QueueRole `json:"role"`
	Family uint32    `json:"family"`
}

// QueueRoles is the ordered list of role assignments of a device.
type QueueRoles []QueueAssignment

// Family returns the family serving role.
func (q QueueRoles) Family(role QueueRole) (uint32, bool) {
	for _, a := range q {
		if a.Role == role {
			return a.Family, true
		}
	}
	return 0, false
}

// Graphics returns the graphics family. Zero if unassigned.
func (q QueueRoles) Graphics() uint32 {
	f, _ := q.Family(QueueGraphics)
	return f
}

// Present returns the present family. Zero if unassigned.
func (q QueueRoles) Present() uint32 {
	f, _ := q.Family(QueuePresent)
	return f
}

// Shared reports whether every role is served by the same family.
func (q QueueRoles) Shared() bool {
	return len(q.Families()) <= 1
}

// Families returns the distinct families in assignment order.
func (q QueueRoles) Families() []uint32 {
	var families []uint32
	for _, a := range q {
		seen := false
		for _, f := range families {
			if f == a.Family {
				seen = true
				break
			}
		}
		if !seen {
			families = append(families, a.Family)
		}
	}
	return families
}
