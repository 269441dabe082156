package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// OutlineNode is one member of a parsed file as shown by the parse
// command. Bodies of design units nest as Children.
type OutlineNode struct {
	Kind     string        `json:"kind"`
	Name     string        `json:"name,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	Location string        `json:"location"`
	Children []OutlineNode `json:"children,omitempty"`
}

// BuildOutline lists the members of unit, recursing into design units
// and generate regions.
func BuildOutline(unit *syntax.CompilationUnit, fs *source.FileSet) []OutlineNode {
	if unit == nil {
		return nil
	}
	return outlineMembers(unit.Members, fs)
}

func outlineMembers(ms []syntax.Member, fs *source.FileSet) []OutlineNode {
	out := make([]OutlineNode, 0, len(ms))
	for _, m := range ms {
		if m.Kind() == syntax.KindEmptyMember {
			continue
		}
		out = append(out, outlineMember(m, fs))
	}
	return out
}

func declaratorNames(ds []*syntax.Declarator) string {
	names := make([]string, 0, len(ds))
	for _, d := range ds {
		names = append(names, d.Name.Text)
	}
	return strings.Join(names, ", ")
}

func instanceNames(xs []*syntax.HierarchicalInstance) string {
	names := make([]string, 0, len(xs))
	for _, x := range xs {
		if x.Name.Text == "" {
			names = append(names, "<unnamed>")
			continue
		}
		names = append(names, x.Name.Text)
	}
	return strings.Join(names, ", ")
}

// keyword renders a keyword kind without quotes; anything else is "".
func keyword(k token.Kind) string {
	if !k.IsKeyword() {
		return ""
	}
	return strings.Trim(k.String(), "'")
}

func outlineMember(m syntax.Member, fs *source.FileSet) OutlineNode {
	n := OutlineNode{Kind: m.Kind().String(), Location: fs.Position(m.Span())}
	switch x := m.(type) {
	case *syntax.ModuleDeclaration:
		n.Name = x.Name.Text
		n.Detail = keyword(x.Keyword)
		var kids []syntax.Member
		if x.ParamPorts != nil {
			kids = append(kids, x.ParamPorts.Decls...)
		}
		if x.Ports != nil {
			for _, p := range x.Ports.Ports {
				kids = append(kids, p)
			}
		}
		kids = append(kids, x.Members...)
		n.Children = outlineMembers(kids, fs)
	case *syntax.GenerateRegion:
		n.Children = outlineMembers(x.Members, fs)
	case *syntax.ParameterDeclaration:
		n.Name = declaratorNames(x.Declarators)
		n.Detail = keyword(x.Keyword)
	case *syntax.TypeParameterDeclaration:
		names := make([]string, 0, len(x.Assignments))
		for _, a := range x.Assignments {
			names = append(names, a.Name.Text)
		}
		n.Name = strings.Join(names, ", ")
		n.Detail = keyword(x.Keyword)
	case *syntax.PortDeclaration:
		n.Name = declaratorNames(x.Declarators)
		n.Detail = keyword(x.Direction)
	case *syntax.HierarchyInstantiation:
		n.Name = instanceNames(x.Instances)
		n.Detail = x.Type.Text
	case *syntax.PrimitiveInstantiation:
		n.Name = instanceNames(x.Instances)
		n.Detail = x.Gate.Text
	case *syntax.DataDeclaration:
		n.Name = declaratorNames(x.Declarators)
	case *syntax.NetDeclaration:
		n.Name = declaratorNames(x.Declarators)
		n.Detail = keyword(x.NetType)
	case *syntax.BindDirective:
		n.Name = x.Target.Text
		if x.Instantiation != nil {
			n.Detail = x.Instantiation.Type.Text
		}
	case *syntax.FunctionDeclaration:
		n.Name = x.Name.Text
	case *syntax.TaskDeclaration:
		n.Name = x.Name.Text
	case *syntax.TypedefDeclaration:
		n.Name = x.Name.Text
	case *syntax.ModportDeclaration:
		names := make([]string, 0, len(x.Items))
		for _, it := range x.Items {
			names = append(names, it.Name.Text)
		}
		n.Name = strings.Join(names, ", ")
	case *syntax.ProceduralBlock:
		n.Detail = x.Keyword
	}
	return n
}

// FormatSyntaxPretty prints the outline as an indented tree.
func FormatSyntaxPretty(w io.Writer, unit *syntax.CompilationUnit, fs *source.FileSet) error {
	var write func(nodes []OutlineNode, depth int) error
	write = func(nodes []OutlineNode, depth int) error {
		for _, n := range nodes {
			line := strings.Repeat("  ", depth) + n.Kind
			if n.Detail != "" {
				line += " " + n.Detail
			}
			if n.Name != "" {
				line += " " + n.Name
			}
			if _, err := fmt.Fprintf(w, "%s @ %s\n", line, n.Location); err != nil {
				return err
			}
			if err := write(n.Children, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return write(BuildOutline(unit, fs), 0)
}

// FormatSyntaxJSON writes the outline as indented JSON.
func FormatSyntaxJSON(w io.Writer, unit *syntax.CompilationUnit, fs *source.FileSet) error {
	nodes := BuildOutline(unit, fs)
	if nodes == nil {
		nodes = []OutlineNode{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(nodes)
}
