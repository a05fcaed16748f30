package models

import "time"

// Category is the model for the 'categories' table.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Virtual field used to build the storefront tree.
	Children []Category `json:"children,omitempty" db:"-"`
}

// BuildCategoryTree nests a flat list under its parents and returns the roots.
// Categories whose parent is missing from the list are treated as roots.
func BuildCategoryTree(flat []Category) []Category {
	index := make(map[int64]int, len(flat))
	for i := range flat {
		index[flat[i].ID] = i
	}

	children := make(map[int64][]int)
	var roots []int
	for i := range flat {
		if p := flat[i].ParentID; p != nil {
			if _, ok := index[*p]; ok {
				children[*p] = append(children[*p], i)
				continue
			}
		}
		roots = append(roots, i)
	}

	var build func(i int, depth int) Category
	build = func(i int, depth int) Category {
		c := flat[i]
		c.Children = []Category{}
		if depth > len(flat) {
			return c
		}
		for _, ci := range children[c.ID] {
			c.Children = append(c.Children, build(ci, depth+1))
		}
		return c
	}

	out := make([]Category, 0, len(roots))
	for _, i := range roots {
		out = append(out, build(i, 0))
	}
	return out
}
