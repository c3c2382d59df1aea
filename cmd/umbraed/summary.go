// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"

	"github.com/devblok/umbra/world"
)

// Columns of the object store in umbraed.glade.
const (
	columnKind = iota
	columnName
	columnDetail
)

type row struct {
	Kind   string
	Name   string
	Detail string
}

func (r row) values() []interface{} {
	return []interface{}{r.Kind, r.Name, r.Detail}
}

func summarize(b *world.Bundle) []row {
	var rows []row
	for _, m := range b.Models {
		rows = append(rows, row{"model", m.Name,
			fmt.Sprintf("%d vertices, %d indices", len(m.Vertices), len(m.Indices))})
	}
	for _, t := range b.Textures {
		rows = append(rows, row{"texture", t.Name, fmt.Sprintf("%dx%d", t.Width, t.Height)})
	}
	for i, o := range b.World.Objects {
		rows = append(rows, row{"object", fmt.Sprintf("#%d", i),
			fmt.Sprintf("%s with %s at (%.2f, %.2f, %.2f)",
				nameOf(b.World.Models, o.Model), nameOf(b.World.Textures, o.Texture),
				o.Position.X(), o.Position.Y(), o.Position.Z())})
	}
	for i, c := range b.World.Cuboids {
		rows = append(rows, row{"cuboid", fmt.Sprintf("#%d", i),
			fmt.Sprintf("centre (%.2f, %.2f, %.2f) size (%.2f, %.2f, %.2f)",
				c.Centre.X(), c.Centre.Y(), c.Centre.Z(),
				c.Dimension.X(), c.Dimension.Y(), c.Dimension.Z())})
	}
	return rows
}

func nameOf(names []string, i uint32) string {
	if int(i) < len(names) {
		return names[i]
	}
	return fmt.Sprintf("<missing %d>", i)
}

func title(b *world.Bundle) string {
	return fmt.Sprintf("%s: %d models, %d textures, %d objects, %d cuboids",
		b.World.Name, len(b.Models), len(b.Textures), len(b.World.Objects), len(b.World.Cuboids))
}
