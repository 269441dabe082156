package elab

import (
	"fortio.org/safecast"

	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/trace"
	"svelab/internal/types"
)

const defaultMaxDepth = 128

// Options configures a Compilation.
type Options struct {
	// Tops names the top-level definitions. When empty, every module or
	// program that nothing instantiates is a top.
	Tops []string
	// Overrides apply to parameters of every top-level instance.
	Overrides []Override
	// MaxDepth bounds the instance hierarchy depth.
	MaxDepth int
	Tracer   trace.Tracer
}

// Override is a command-line parameter override such as -G W=16. Exactly
// one of Value and Type is set.
type Override struct {
	Name  string
	Value syntax.Expr
	Type  *syntax.DataType
}

// Stats counts elaboration work.
type Stats struct {
	Definitions    int
	Bodies         int
	BodyCacheHits  int
	Instances      int
	Arrays         int
	UnknownModules int
	Primitives     int
}

// Compilation owns all definitions and elaborated symbols of one design.
// It is not safe for concurrent use.
type Compilation struct {
	Types *types.Interner
	Arena *Arena

	opts     Options
	reporter diag.Reporter
	tracer   trace.Tracer

	defs      map[string]*Definition
	defList   []*Definition
	unitScope *consteval.MapScope
	bodies    map[bodyKey]*InstanceBody

	binds    []*syntax.BindDirective
	prepared bool
	tops     []*Instance
	topsDone bool
	root     *OverrideNode
	span     *trace.Span

	stats Stats
}

// NewCompilation creates an empty compilation. Diagnostics go to r after
// deduplication.
func NewCompilation(in *types.Interner, r diag.Reporter, opts Options) *Compilation {
	if in == nil {
		in = types.NewInterner()
	}
	if r == nil {
		r = diag.NopReporter{}
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &Compilation{
		Types:     in,
		Arena:     NewArena(0),
		opts:      opts,
		reporter:  diag.NewDedupReporter(r),
		tracer:    opts.Tracer,
		defs:      make(map[string]*Definition),
		unitScope: consteval.NewMapScope(nil),
		bodies:    make(map[bodyKey]*InstanceBody),
	}
}

// Reporter is the compilation's diagnostic sink.
func (c *Compilation) Reporter() diag.Reporter { return c.reporter }

// UnitScope holds $unit declarations: parameters, typedefs and functions
// written outside design units.
func (c *Compilation) UnitScope() *consteval.MapScope { return c.unitScope }

// Stats returns counters collected so far.
func (c *Compilation) Stats() Stats {
	s := c.stats
	s.Definitions = len(c.defList)
	return s
}

// AddUnit registers the design units and $unit declarations of one
// parsed file.
func (c *Compilation) AddUnit(u *syntax.CompilationUnit) {
	if u == nil {
		return
	}
	for _, m := range u.Members {
		c.addUnitMember(m)
	}
}

func (c *Compilation) addUnitMember(m syntax.Member) {
	switch x := m.(type) {
	case *syntax.ModuleDeclaration:
		c.AddDefinition(x)
	case *syntax.BindDirective:
		c.registerBind(x)
	case *syntax.ParameterDeclaration:
		ev := consteval.New(c.Types, c.reporter, c.unitScope)
		t := ev.ResolveType(x.Type)
		for _, d := range x.Declarators {
			v := ev.Eval(d.Init)
			if d.Init == nil {
				diag.ReportError(c.reporter, diag.ElabParamBodyNoDefault, d.Name.Span, "parameter '"+d.Name.Text+"' requires a value").Emit()
			} else if t != types.NoTypeID {
				v = ev.Convert(v, t, d.Init.Span())
			}
			c.unitScope.Set(d.Name.Text, consteval.Name{Kind: consteval.NameValue, Value: ev.Normalize(v), Span: d.Name.Span})
		}
	case *syntax.TypedefDeclaration:
		ev := consteval.New(c.Types, c.reporter, c.unitScope)
		c.unitScope.Set(x.Name.Text, consteval.Name{Kind: consteval.NameType, Type: typedefType(ev, x), Span: x.Name.Span})
	case *syntax.FunctionDeclaration:
		c.unitScope.Set(x.Name.Text, consteval.Name{Kind: consteval.NameFunction, Func: x, Scope: c.unitScope, Span: x.Name.Span})
	}
}

// AddDefinition registers one design unit. A second definition with the
// same name is diagnosed and ignored.
func (c *Compilation) AddDefinition(decl *syntax.ModuleDeclaration) *Definition {
	d := newDefinition(decl, c.reporter)
	if !c.addDefinition(d) {
		return nil
	}
	forEachMember(decl.Members, func(m syntax.Member) {
		if bd, ok := m.(*syntax.BindDirective); ok {
			c.registerBind(bd)
		}
	})
	return d
}

func (c *Compilation) addDefinition(d *Definition) bool {
	if prev, ok := c.defs[d.Name]; ok {
		diag.ReportError(c.reporter, diag.ElabDuplicateDefinition, d.Span, "duplicate definition of '"+d.Name+"'").
			WithNote(prev.Span, "previous definition here").Emit()
		return false
	}
	d.order = len(c.defList)
	c.defs[d.Name] = d
	c.defList = append(c.defList, d)
	return true
}

// Definition looks a definition up by name.
func (c *Compilation) Definition(name string) (*Definition, bool) {
	d, ok := c.defs[name]
	return d, ok
}

// Definitions lists definitions in registration order.
func (c *Compilation) Definitions() []*Definition { return c.defList }

func (c *Compilation) registerBind(bd *syntax.BindDirective) {
	if bd == nil || bd.Instantiation == nil {
		return
	}
	if c.prepared {
		c.attachBind(bd)
		return
	}
	c.binds = append(c.binds, bd)
}

func (c *Compilation) attachBind(bd *syntax.BindDirective) {
	d, ok := c.defs[bd.Target.Text]
	if !ok {
		diag.ReportError(c.reporter, diag.ElabBindUnknownTarget, bd.Target.Span, "unknown bind target '"+bd.Target.Text+"'").Emit()
		return
	}
	d.binds = append(d.binds, bd)
}

// prepare attaches bind directives once every file has been added.
func (c *Compilation) prepare() {
	if c.prepared {
		return
	}
	c.prepared = true
	for _, bd := range c.binds {
		c.attachBind(bd)
	}
	c.binds = nil
}

func typedefType(ev *consteval.Evaluator, td *syntax.TypedefDeclaration) types.TypeID {
	t := ev.ResolveType(td.Type)
	if t == types.NoTypeID {
		t = ev.Types.Builtins().Logic
	}
	if len(td.Dims) > 0 {
		t = ev.UnpackedType(t, td.Dims)
	}
	return t
}

func toInt32(v int64) (int32, error) {
	return safecast.Conv[int32](v)
}

func noteDeclared(b *diag.ReportBuilder, sp source.Span) *diag.ReportBuilder {
	if sp.Empty() {
		return b
	}
	return b.WithNote(sp, "declared here")
}
