package syntax

// Kind tags every syntax node. Consumers such as the elaborator and the
// script session dispatch on it.
type Kind uint8

const (
	KindInvalid Kind = iota

	// members
	KindCompilationUnit
	KindModuleDeclaration
	KindParameterDeclaration
	KindTypeParameterDeclaration
	KindPortDeclaration
	KindHierarchyInstantiation
	KindPrimitiveInstantiation
	KindDataDeclaration
	KindNetDeclaration
	KindModportDeclaration
	KindBindDirective
	KindContinuousAssign
	KindFunctionDeclaration
	KindTaskDeclaration
	KindTypedefDeclaration
	KindDefparam
	KindProceduralBlock
	KindGenerateRegion
	KindEmptyMember

	// expressions
	KindIdentifierName
	KindIntegerLiteral
	KindBasedLiteral
	KindUnbasedUnsizedLiteral
	KindRealLiteral
	KindTimeLiteral
	KindStringLiteral
	KindUnary
	KindBinary
	KindTernary
	KindParen
	KindConcatenation
	KindReplication
	KindElementSelect
	KindRangeSelect
	KindMemberAccess
	KindCall
	KindSystemCall
	KindAssignment
	KindEvent
	KindSequence
	KindDataTypeExpr

	// statements
	KindExpressionStatement
	KindBlock
	KindIf
	KindReturn
	KindDeclStatement
	KindFor
	KindWhile
	KindEmptyStatement

	// auxiliary
	KindDataType
)

var kindNames = [...]string{
	KindInvalid:                  "Invalid",
	KindCompilationUnit:          "CompilationUnit",
	KindModuleDeclaration:        "ModuleDeclaration",
	KindParameterDeclaration:     "ParameterDeclaration",
	KindTypeParameterDeclaration: "TypeParameterDeclaration",
	KindPortDeclaration:          "PortDeclaration",
	KindHierarchyInstantiation:   "HierarchyInstantiation",
	KindPrimitiveInstantiation:   "PrimitiveInstantiation",
	KindDataDeclaration:          "DataDeclaration",
	KindNetDeclaration:           "NetDeclaration",
	KindModportDeclaration:       "ModportDeclaration",
	KindBindDirective:            "BindDirective",
	KindContinuousAssign:         "ContinuousAssign",
	KindFunctionDeclaration:      "FunctionDeclaration",
	KindTaskDeclaration:          "TaskDeclaration",
	KindTypedefDeclaration:       "TypedefDeclaration",
	KindDefparam:                 "Defparam",
	KindProceduralBlock:          "ProceduralBlock",
	KindGenerateRegion:           "GenerateRegion",
	KindEmptyMember:              "EmptyMember",
	KindIdentifierName:           "IdentifierName",
	KindIntegerLiteral:           "IntegerLiteral",
	KindBasedLiteral:             "BasedLiteral",
	KindUnbasedUnsizedLiteral:    "UnbasedUnsizedLiteral",
	KindRealLiteral:              "RealLiteral",
	KindTimeLiteral:              "TimeLiteral",
	KindStringLiteral:            "StringLiteral",
	KindUnary:                    "Unary",
	KindBinary:                   "Binary",
	KindTernary:                  "Ternary",
	KindParen:                    "Paren",
	KindConcatenation:            "Concatenation",
	KindReplication:              "Replication",
	KindElementSelect:            "ElementSelect",
	KindRangeSelect:              "RangeSelect",
	KindMemberAccess:             "MemberAccess",
	KindCall:                     "Call",
	KindSystemCall:               "SystemCall",
	KindAssignment:               "Assignment",
	KindEvent:                    "Event",
	KindSequence:                 "Sequence",
	KindDataTypeExpr:             "DataTypeExpr",
	KindExpressionStatement:      "ExpressionStatement",
	KindBlock:                    "Block",
	KindIf:                       "If",
	KindReturn:                   "Return",
	KindDeclStatement:            "DeclStatement",
	KindFor:                      "For",
	KindWhile:                    "While",
	KindEmptyStatement:           "EmptyStatement",
	KindDataType:                 "DataType",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsExpression reports expression kinds.
func (k Kind) IsExpression() bool {
	return k >= KindIdentifierName && k <= KindDataTypeExpr
}

// IsStatement reports statement kinds.
func (k Kind) IsStatement() bool {
	return k >= KindExpressionStatement && k <= KindEmptyStatement
}
