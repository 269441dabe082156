package syntax

// Inspect walks n depth-first. f is called for every node; returning false
// skips the node's children. Nil children are not visited.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *CompilationUnit:
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *ModuleDeclaration:
		if n.ParamPorts != nil {
			for _, d := range n.ParamPorts.Decls {
				Inspect(d, f)
			}
		}
		if n.Ports != nil {
			for _, p := range n.Ports.Ports {
				Inspect(p, f)
			}
		}
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *GenerateRegion:
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *ParameterDeclaration:
		inspectDeclarators(n.Declarators, f)
	case *PortDeclaration:
		inspectDeclarators(n.Declarators, f)
	case *DataDeclaration:
		inspectDeclarators(n.Declarators, f)
	case *NetDeclaration:
		inspectDeclarators(n.Declarators, f)
	case *HierarchyInstantiation:
		inspectParams(n.Params, f)
		inspectInstances(n.Instances, f)
	case *PrimitiveInstantiation:
		if n.Delay != nil {
			for _, v := range n.Delay.Values {
				inspectExpr(v, f)
			}
		}
		inspectInstances(n.Instances, f)
	case *BindDirective:
		if n.Instantiation != nil {
			Inspect(n.Instantiation, f)
		}
	case *ContinuousAssign:
		for _, a := range n.Assignments {
			Inspect(a, f)
		}
	case *FunctionDeclaration:
		for _, s := range n.Body {
			Inspect(s, f)
		}
	case *TaskDeclaration:
		for _, s := range n.Body {
			Inspect(s, f)
		}
	case *Defparam:
		for _, a := range n.Assignments {
			inspectExpr(a.Value, f)
		}

	case *UnaryExpr:
		inspectExpr(n.X, f)
	case *BinaryExpr:
		inspectExpr(n.X, f)
		inspectExpr(n.Y, f)
	case *TernaryExpr:
		inspectExpr(n.Cond, f)
		inspectExpr(n.Then, f)
		inspectExpr(n.Else, f)
	case *ParenExpr:
		inspectExpr(n.X, f)
	case *ConcatExpr:
		for _, x := range n.Items {
			inspectExpr(x, f)
		}
	case *ReplicationExpr:
		inspectExpr(n.Count, f)
		for _, x := range n.Items {
			inspectExpr(x, f)
		}
	case *ElementSelectExpr:
		inspectExpr(n.X, f)
		inspectExpr(n.Index, f)
	case *RangeSelectExpr:
		inspectExpr(n.X, f)
		inspectExpr(n.Left, f)
		inspectExpr(n.Right, f)
	case *MemberAccessExpr:
		inspectExpr(n.X, f)
	case *CallExpr:
		for _, x := range n.Args {
			inspectExpr(x, f)
		}
	case *SystemCallExpr:
		for _, x := range n.Args {
			inspectExpr(x, f)
		}
	case *AssignmentExpr:
		inspectExpr(n.LHS, f)
		inspectExpr(n.RHS, f)
	case *EventExpr:
		inspectExpr(n.X, f)
	case *SequenceExpr:
		inspectExpr(n.X, f)
		inspectExpr(n.Delay, f)
		inspectExpr(n.Y, f)

	case *ExprStmt:
		inspectExpr(n.X, f)
	case *BlockStmt:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *IfStmt:
		inspectExpr(n.Cond, f)
		if n.Then != nil {
			Inspect(n.Then, f)
		}
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *ReturnStmt:
		inspectExpr(n.Value, f)
	case *DeclStmt:
		Inspect(n.Decl, f)
	case *ForStmt:
		for _, s := range n.Init {
			Inspect(s, f)
		}
		inspectExpr(n.Cond, f)
		for _, x := range n.Step {
			inspectExpr(x, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *WhileStmt:
		inspectExpr(n.Cond, f)
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	}
}

// inspectExpr guards against typed-nil interface values.
func inspectExpr(e Expr, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func inspectDeclarators(ds []*Declarator, f func(Node) bool) {
	for _, d := range ds {
		inspectExpr(d.Init, f)
	}
}

func inspectParams(p *ParamAssignments, f func(Node) bool) {
	if p == nil {
		return
	}
	for _, v := range p.Ordered {
		inspectExpr(v.Expr, f)
	}
	for _, v := range p.Named {
		if v.Value != nil {
			inspectExpr(v.Value.Expr, f)
		}
	}
}

func inspectInstances(insts []*HierarchicalInstance, f func(Node) bool) {
	for _, inst := range insts {
		for _, c := range inst.Conns {
			inspectExpr(c.Expr, f)
		}
	}
}
