package elab

import "strconv"

// WalkFunc is called for each symbol with its hierarchical path. Returning
// false skips the symbol's children.
type WalkFunc func(path string, s Symbol) bool

// Walk visits s and the symbols below it in declaration order. Instances
// descend into their body members and arrays into their elements, so a
// shared body is visited once per instance.
func Walk(s Symbol, fn WalkFunc) {
	walk("", s, fn)
}

func walk(prefix string, s Symbol, fn WalkFunc) {
	path := prefix
	switch x := s.(type) {
	case *Instance:
		if x.ParentArray == nil {
			path = join(prefix, x.name)
		}
	case *InstanceArray:
		if x.ParentArray == nil {
			path = join(prefix, x.name)
		}
	default:
		path = join(prefix, s.Name())
	}
	if !fn(path, s) {
		return
	}
	switch x := s.(type) {
	case *Instance:
		for _, m := range x.Body.Members() {
			walk(path, m, fn)
		}
	case *InstanceArray:
		for i, e := range x.Elements {
			walk(path+"["+strconv.FormatInt(int64(x.Range.At(i)), 10)+"]", e, fn)
		}
	}
}

func join(prefix, name string) string {
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	}
	return prefix + "." + name
}
