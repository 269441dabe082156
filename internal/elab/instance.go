package elab

import (
	"strconv"

	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
)

// maxArrayElements bounds the size of one instance array dimension.
const maxArrayElements = 1 << 20

// Range is a declared [Left:Right] array range; either direction.
type Range struct {
	Left  int32
	Right int32
}

// Len is |Left-Right|+1.
func (r Range) Len() int {
	d := int64(r.Left) - int64(r.Right)
	if d < 0 {
		d = -d
	}
	return int(d + 1)
}

func (r Range) Lower() int32 { return min(r.Left, r.Right) }
func (r Range) Upper() int32 { return max(r.Left, r.Right) }

// At returns the coordinate of the i-th element in declaration order,
// starting from Left.
func (r Range) At(i int) int32 {
	if r.Left >= r.Right {
		return r.Left - int32(i)
	}
	return r.Left + int32(i)
}

func (r Range) String() string {
	return "[" + strconv.FormatInt(int64(r.Left), 10) + ":" + strconv.FormatInt(int64(r.Right), 10) + "]"
}

// Instance is one instantiation of a definition. Array elements have an
// empty name and a coordinate path.
type Instance struct {
	symbolBase
	Body        *InstanceBody
	Parent      *InstanceBody // nil for top-level instances
	ParentArray *InstanceArray
	ArrayPath   []int32
	Syntax      *syntax.HierarchicalInstance
	Statement   *syntax.HierarchyInstantiation
	FromBind    bool
	Fixup       bool // "M u1;" written without parentheses

	conns    map[*PortSymbol]*PortConnection
	connList []*PortConnection
	connsSet bool
}

func (i *Instance) Definition() *Definition { return i.Body.Definition }
func (i *Instance) IsModule() bool          { return i.Body.Definition.Kind == DefModule }
func (i *Instance) IsInterface() bool       { return i.Body.Definition.Kind == DefInterface }

// ArrayName is the name of the outermost array holding the instance, or
// the instance's own name.
func (i *Instance) ArrayName() string {
	if i.ParentArray == nil {
		return i.name
	}
	return i.ParentArray.ArrayName()
}

// ArrayDimensions lists the declared ranges from the outermost array in.
func (i *Instance) ArrayDimensions() []Range {
	if i.ParentArray == nil {
		return nil
	}
	return i.ParentArray.ArrayDimensions()
}

// InstanceArray is the result of one array-style instantiation. Elements
// are instances, or nested arrays for multi-dimensional declarations, in
// declaration order.
type InstanceArray struct {
	symbolBase
	Range       Range
	Elements    []Symbol
	ParentArray *InstanceArray
	Parent      *InstanceBody
	Definition  *Definition
	Index       int32 // coordinate within ParentArray
	Valid       bool  // false when the range could not be resolved
}

func (a *InstanceArray) ArrayName() string {
	for a.ParentArray != nil {
		a = a.ParentArray
	}
	return a.name
}

func (a *InstanceArray) ArrayDimensions() []Range {
	var out []Range
	for p := a; p != nil; p = p.ParentArray {
		out = append([]Range{p.Range}, out...)
	}
	return out
}

func (c *Compilation) newInstance(name string, sp source.Span, body *InstanceBody, parent *InstanceBody) *Instance {
	inst := &Instance{
		symbolBase: symbolBase{kind: SymbolInstance, name: name, span: sp},
		Body:       body,
		Parent:     parent,
	}
	c.Arena.add(inst)
	c.stats.Instances++
	return inst
}

// instantiate elaborates one hierarchy instantiation statement into b.
func (b *InstanceBody) instantiate(x *syntax.HierarchyInstantiation, fromBind bool) {
	c := b.comp
	def, ok := c.defs[x.Type.Text]
	if !ok {
		b.unknownModule(x)
		return
	}
	def.instantiated = true
	site := c.matchSiteParams(def, x.Params, resolverFunc(b.resolve), b.reporter)
	for _, hi := range x.Instances {
		req := resolveRequest{def: def, site: site, node: b.childOv.Child(hi.Name.Text), parent: b, span: hi.Name.Span}
		if len(hi.Dims) == 0 {
			inst := c.newInstance(hi.Name.Text, hi.Name.Span, c.getBody(req), b)
			inst.Syntax, inst.Statement, inst.FromBind = hi, x, fromBind
			b.declare(inst)
			continue
		}
		arr := b.expandArray(req, hi, x, hi.Dims, nil, nil, func(inst *Instance) {
			inst.FromBind = fromBind
		})
		b.declare(arr)
	}
}

// instantiateFixup handles "M u1;": an instantiation written without a
// connection list.
func (b *InstanceBody) instantiateFixup(def *Definition, x *syntax.DataDeclaration) {
	c := b.comp
	diag.ReportError(b.reporter, diag.ElabInstanceMissingParens, x.Declarators[0].Name.Span,
		"instantiation of "+def.ArticleKindString()+" '"+def.Name+"' requires a connection list '()'").Emit()
	def.instantiated = true
	for _, d := range x.Declarators {
		hi := &syntax.HierarchicalInstance{Span: d.Span, Name: d.Name, Dims: d.Dims}
		req := resolveRequest{def: def, node: b.childOv.Child(d.Name.Text), parent: b, span: d.Name.Span}
		if len(d.Dims) == 0 {
			inst := c.newInstance(d.Name.Text, d.Name.Span, c.getBody(req), b)
			inst.Syntax, inst.Fixup = hi, true
			b.declare(inst)
			continue
		}
		arr := b.expandArray(req, hi, nil, d.Dims, nil, nil, func(inst *Instance) {
			inst.Fixup = true
		})
		b.declare(arr)
	}
}

// expandArray builds one array level for dims[0] and recurses for the
// remaining dimensions. Elements use the override node of their index when
// one exists and otherwise share one body.
func (b *InstanceBody) expandArray(req resolveRequest, hi *syntax.HierarchicalInstance, stmt *syntax.HierarchyInstantiation,
	dims []*syntax.Dimension, parent *InstanceArray, path []int32, mark func(*Instance)) *InstanceArray {
	c := b.comp
	name := ""
	if parent == nil {
		name = hi.Name.Text
	}
	arr := &InstanceArray{
		symbolBase:  symbolBase{kind: SymbolInstanceArray, name: name, span: hi.Name.Span},
		ParentArray: parent,
		Parent:      b,
		Definition:  req.def,
	}
	c.Arena.add(arr)
	c.stats.Arrays++

	rng, ok := b.arrayRange(dims[0])
	if !ok {
		return arr
	}
	arr.Range, arr.Valid = rng, true

	var shared *InstanceBody
	for i := range rng.Len() {
		idx := rng.At(i)
		elemPath := make([]int32, len(path)+1)
		copy(elemPath, path)
		elemPath[len(path)] = idx

		elemReq := req
		if child := req.node.Child(ElementKey(idx)); child != nil {
			elemReq.node = child
		}
		if len(dims) > 1 {
			sub := b.expandArray(elemReq, hi, stmt, dims[1:], arr, elemPath, mark)
			sub.Index = idx
			arr.Elements = append(arr.Elements, sub)
			continue
		}
		var body *InstanceBody
		if elemReq.node != req.node {
			body = c.getBody(elemReq)
		} else {
			if shared == nil {
				shared = c.getBody(req)
			}
			body = shared
		}
		inst := c.newInstance("", hi.Name.Span, body, b)
		inst.ParentArray, inst.ArrayPath, inst.Syntax, inst.Statement = arr, elemPath, hi, stmt
		if mark != nil {
			mark(inst)
		}
		arr.Elements = append(arr.Elements, inst)
	}
	return arr
}

// arrayRange evaluates one unpacked dimension of an instance array. [N]
// means [0:N-1]. A poisoned bound yields an empty array silently.
func (b *InstanceBody) arrayRange(d *syntax.Dimension) (Range, bool) {
	ev := b.evaluator()
	bound := func(e syntax.Expr) (int64, bool) {
		v := ev.Eval(e)
		if v.IsPoison() {
			return 0, false
		}
		if !ev.Types.IsIntegral(v.Type) {
			diag.ReportError(b.reporter, diag.ElabArrayRangeNotConst, e.Span(), "instance array bound must be a constant integer").Emit()
			return 0, false
		}
		n, ok := ev.Normalize(v).Int64()
		if !ok {
			diag.ReportError(b.reporter, diag.ElabArrayRangeInvalid, e.Span(), "instance array bound is out of range").Emit()
		}
		return n, ok
	}
	invalid := func(msg string) (Range, bool) {
		diag.ReportError(b.reporter, diag.ElabArrayRangeInvalid, d.Span, msg).Emit()
		return Range{}, false
	}

	var lo, hi int64
	if d.IsSize() {
		n, ok := bound(d.Left)
		if !ok {
			return Range{}, false
		}
		if n <= 0 {
			return invalid("instance array size must be positive")
		}
		lo, hi = 0, n-1
	} else {
		l, ok := bound(d.Left)
		if !ok {
			return Range{}, false
		}
		r, ok := bound(d.Right)
		if !ok {
			return Range{}, false
		}
		lo, hi = l, r
	}
	size := hi - lo
	if size < 0 {
		size = -size
	}
	if size+1 > maxArrayElements {
		return invalid("instance array has more than " + strconv.Itoa(maxArrayElements) + " elements")
	}
	l32, err1 := toInt32(lo)
	r32, err2 := toInt32(hi)
	if err1 != nil || err2 != nil {
		return invalid("instance array bounds do not fit in 32 bits")
	}
	return Range{Left: l32, Right: r32}, true
}

var _ consteval.Resolver = (*InstanceBody)(nil)
