package cache

import "strconv"

// Tag associates cached query results with the mutations that invalidate
// them. Type names a resource family ("Product", "Category", ...); ID is
// either an entity id or a sentinel such as LIST or TREE standing for a whole
// collection or derived view.
type Tag struct {
	Type string
	ID   string
}

// Sentinel tag IDs shared across resource families.
const (
	IDList           = "LIST"
	IDTree           = "TREE"
	IDSummary        = "SUMMARY"
	IDActive         = "ACTIVE"
	IDParentCategory = "PARENT_CATEGORY"
)

// Entity builds the tag for a single entity of the given family.
func Entity(typ string, id int64) Tag {
	return Tag{Type: typ, ID: strconv.FormatInt(id, 10)}
}

// Sentinel builds a tag with a fixed non-entity id.
func Sentinel(typ, id string) Tag {
	return Tag{Type: typ, ID: id}
}

// ChildrenOf builds the per-parent composite tag covering one parent's child
// list, so a hierarchy edit can invalidate exactly the affected slice.
func ChildrenOf(typ string, parentID int64) Tag {
	return Tag{Type: typ, ID: "CHILDREN_" + strconv.FormatInt(parentID, 10)}
}

// Set is an unordered collection of tags.
type Set map[Tag]struct{}

func NewSet(tags ...Tag) Set {
	s := make(Set, len(tags))
	s.Add(tags...)
	return s
}

func (s Set) Add(tags ...Tag) {
	for _, t := range tags {
		s[t] = struct{}{}
	}
}

func (s Set) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

// Intersects reports whether any of the given tags is in the set.
func (s Set) Intersects(tags []Tag) bool {
	for _, t := range tags {
		if _, ok := s[t]; ok {
			return true
		}
	}
	return false
}
