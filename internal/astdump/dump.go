// Package astdump serializes an elaborated hierarchy as a tree of plain
// nodes, encoded as indented JSON or msgpack.
package astdump

import (
	"strconv"

	"svelab/internal/elab"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/types"
)

// Document is the root of a dump.
type Document struct {
	Tops  []*Node `json:"tops" msgpack:"tops"`
	Stats Stats   `json:"stats" msgpack:"stats"`
}

// Stats mirrors elab.Stats.
type Stats struct {
	Definitions    int `json:"definitions" msgpack:"definitions"`
	Bodies         int `json:"bodies" msgpack:"bodies"`
	BodyCacheHits  int `json:"body_cache_hits" msgpack:"body_cache_hits"`
	Instances      int `json:"instances" msgpack:"instances"`
	Arrays         int `json:"arrays" msgpack:"arrays"`
	UnknownModules int `json:"unknown_modules" msgpack:"unknown_modules"`
	Primitives     int `json:"primitives" msgpack:"primitives"`
}

// Node is one dumped symbol. Only the fields of its kind are set.
type Node struct {
	Kind     string `json:"kind" msgpack:"kind"`
	Name     string `json:"name,omitempty" msgpack:"name,omitempty"`
	Path     string `json:"path,omitempty" msgpack:"path,omitempty"`
	Location string `json:"location,omitempty" msgpack:"location,omitempty"`

	// instances
	Definition string `json:"definition,omitempty" msgpack:"definition,omitempty"`
	Body       uint32 `json:"body,omitempty" msgpack:"body,omitempty"`
	Uninst     bool   `json:"uninstantiated,omitempty" msgpack:"uninstantiated,omitempty"`
	FromBind   bool   `json:"from_bind,omitempty" msgpack:"from_bind,omitempty"`
	Params     []Param `json:"params,omitempty" msgpack:"params,omitempty"`
	Ports      []Port  `json:"ports,omitempty" msgpack:"ports,omitempty"`

	// arrays
	Range *Range `json:"range,omitempty" msgpack:"range,omitempty"`

	// unknown modules
	ModuleName string `json:"module,omitempty" msgpack:"module,omitempty"`
	Checker    bool   `json:"checker,omitempty" msgpack:"checker,omitempty"`
	Args       []Arg  `json:"args,omitempty" msgpack:"args,omitempty"`

	// primitives
	Gate   string   `json:"gate,omitempty" msgpack:"gate,omitempty"`
	Delays []any    `json:"delays,omitempty" msgpack:"delays,omitempty"`
	Terms  []string `json:"terminals,omitempty" msgpack:"terminals,omitempty"`

	// nets and variables
	Type string `json:"type,omitempty" msgpack:"type,omitempty"`

	Children []*Node `json:"children,omitempty" msgpack:"children,omitempty"`
}

// Param is a resolved parameter value.
type Param struct {
	Name  string `json:"name" msgpack:"name"`
	Type  string `json:"type" msgpack:"type"`
	Value any    `json:"value,omitempty" msgpack:"value,omitempty"`
	Local bool   `json:"local,omitempty" msgpack:"local,omitempty"`
}

// Port is a port with its connection in the dumped instance.
type Port struct {
	Name       string `json:"name" msgpack:"name"`
	Direction  string `json:"direction" msgpack:"direction"`
	Type       string `json:"type,omitempty" msgpack:"type,omitempty"`
	Connection string `json:"connection" msgpack:"connection"`
	Expr       string `json:"expr,omitempty" msgpack:"expr,omitempty"`
	Target     string `json:"target,omitempty" msgpack:"target,omitempty"`
}

type Range struct {
	Left  int32 `json:"left" msgpack:"left"`
	Right int32 `json:"right" msgpack:"right"`
}

// Arg is an argument of an unknown module.
type Arg struct {
	Role  string `json:"role" msgpack:"role"` // "param" or "port"
	Name  string `json:"name,omitempty" msgpack:"name,omitempty"`
	Expr  string `json:"expr,omitempty" msgpack:"expr,omitempty"`
	Value any    `json:"value,omitempty" msgpack:"value,omitempty"`
}

// Options selects what the dump includes.
type Options struct {
	// Members adds nets, variables and typedefs next to instances.
	Members bool
	// Locations adds "file:line:col" to every node.
	Locations bool
}

// Dumper converts elaborated symbols into nodes. Expression text is taken
// from the source files, so Files must hold every parsed file.
type Dumper struct {
	Files *source.FileSet
	Types *types.Interner
	Opts  Options
}

// Build dumps the given top instances together with compilation stats.
func Build(comp *elab.Compilation, tops []*elab.Instance, fs *source.FileSet, opts Options) *Document {
	d := &Dumper{Files: fs, Types: comp.Types, Opts: opts}
	doc := &Document{Tops: make([]*Node, 0, len(tops))}
	for _, top := range tops {
		doc.Tops = append(doc.Tops, d.Symbol("", top))
	}
	st := comp.Stats()
	doc.Stats = Stats(st)
	return doc
}

// Symbol dumps s and everything below it; nil when s is not dumped under
// the current options.
func (d *Dumper) Symbol(prefix string, s elab.Symbol) *Node {
	switch x := s.(type) {
	case *elab.Instance:
		return d.instance(prefix, x)
	case *elab.InstanceArray:
		return d.array(prefix, x)
	case *elab.UnknownModule:
		return d.unknown(prefix, x)
	case *elab.PrimitiveInstance:
		return d.primitive(prefix, x)
	case *elab.NetSymbol:
		if d.Opts.Members {
			n := d.node("net", prefix, s)
			n.Type = d.Types.Format(x.Type)
			return n
		}
	case *elab.VariableSymbol:
		if d.Opts.Members {
			n := d.node("variable", prefix, s)
			n.Type = d.Types.Format(x.Type)
			return n
		}
	case *elab.TypedefSymbol:
		if d.Opts.Members {
			n := d.node("typedef", prefix, s)
			n.Type = d.Types.Format(x.Type)
			return n
		}
	}
	return nil
}

func (d *Dumper) node(kind, prefix string, s elab.Symbol) *Node {
	n := &Node{Kind: kind, Name: s.Name(), Path: join(prefix, s.Name())}
	if d.Opts.Locations && d.Files != nil && !s.Span().Empty() {
		n.Location = d.Files.Position(s.Span())
	}
	return n
}

func (d *Dumper) instance(prefix string, inst *elab.Instance) *Node {
	n := d.node("instance", prefix, inst)
	if inst.ParentArray != nil {
		n.Path = prefix
	}
	body := inst.Body
	n.Definition = body.Definition.Name
	n.Body = uint32(body.ID())
	n.Uninst = body.IsUninstantiated()
	n.FromBind = inst.FromBind
	for _, p := range body.Parameters {
		n.Params = append(n.Params, d.param(p))
	}
	inst.ForEachPortConnection(func(pc *elab.PortConnection) bool {
		n.Ports = append(n.Ports, d.port(pc))
		return true
	})
	for _, m := range body.Members() {
		if c := d.Symbol(n.Path, m); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

func (d *Dumper) param(p *elab.ParameterSymbol) Param {
	out := Param{Name: p.Name(), Type: d.Types.Format(p.Type), Local: p.IsLocal()}
	if p.IsType {
		out.Type = "type"
		out.Value = d.Types.Format(p.Type)
		return out
	}
	out.Value = p.Value.Native()
	return out
}

func (d *Dumper) port(pc *elab.PortConnection) Port {
	p := pc.Port
	out := Port{
		Name:       p.Name(),
		Direction:  p.DirectionString(),
		Connection: pc.Kind.String(),
		Expr:       d.text(pc.Expr),
	}
	if !p.IsInterface {
		out.Type = d.Types.Format(p.Type)
	}
	if pc.Target != nil {
		out.Target = pc.Target.Name()
	}
	return out
}

func (d *Dumper) array(prefix string, arr *elab.InstanceArray) *Node {
	n := d.node("instance-array", prefix, arr)
	if arr.ParentArray != nil {
		n.Path = prefix
	}
	if arr.Definition != nil {
		n.Definition = arr.Definition.Name
	}
	n.Range = &Range{Left: arr.Range.Left, Right: arr.Range.Right}
	for i, e := range arr.Elements {
		idx := n.Path + "[" + strconv.FormatInt(int64(arr.Range.At(i)), 10) + "]"
		if c := d.Symbol(idx, e); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

func (d *Dumper) unknown(prefix string, u *elab.UnknownModule) *Node {
	n := d.node("unknown-module", prefix, u)
	n.ModuleName = u.ModuleName
	n.Checker = u.IsChecker()
	for _, a := range u.Params {
		n.Args = append(n.Args, d.arg("param", a))
	}
	for _, a := range u.Ports {
		n.Args = append(n.Args, d.arg("port", a))
	}
	return n
}

func (d *Dumper) arg(role string, a elab.UnknownArg) Arg {
	out := Arg{Role: role, Name: a.Name, Expr: d.text(a.Expr), Value: a.Value.Native()}
	if a.Type != nil && d.Files != nil {
		out.Expr = d.Files.Text(a.Type.Span())
	}
	return out
}

func (d *Dumper) primitive(prefix string, p *elab.PrimitiveInstance) *Node {
	n := d.node("primitive", prefix, p)
	n.Gate = p.Gate.Name
	for _, c := range p.Delays {
		n.Delays = append(n.Delays, c.Native())
	}
	for _, e := range p.PortExprs {
		n.Terms = append(n.Terms, d.text(e))
	}
	return n
}

func (d *Dumper) text(e syntax.Expr) string {
	if e == nil || d.Files == nil {
		return ""
	}
	return d.Files.Text(e.Span())
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
