package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscapedIdent          Code = 1005
	LexUnknownDirective         Code = 1006
	LexUnterminatedAttribute    Code = 1007

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectExpression   Code = 2004
	SynExpectType         Code = 2005
	SynUnclosedParen      Code = 2006
	SynUnclosedBracket    Code = 2007
	SynUnclosedBrace      Code = 2008
	SynMissingEnd         Code = 2009
	SynUnexpectedTopLevel Code = 2010
	SynBadDirective       Code = 2011
	SynEndLabelMismatch   Code = 2012
	SynMixedConnections   Code = 2013
	SynForeignLanguage    Code = 2014

	// Элаборация
	ElabInfo                   Code = 3000
	ElabDuplicateDefinition    Code = 3001
	ElabUnknownModule          Code = 3002
	ElabParamNoValue           Code = 3003
	ElabParamBodyNoDefault     Code = 3004
	ElabParamTooMany           Code = 3005
	ElabParamUnknownName       Code = 3006
	ElabParamDuplicate         Code = 3007
	ElabParamLocalOverride     Code = 3008
	ElabParamKindMismatch      Code = 3009
	ElabParamMixedAssign       Code = 3010
	ElabTopMissingParam        Code = 3011
	ElabArrayRangeNotConst     Code = 3012
	ElabArrayRangeInvalid      Code = 3013
	ElabPortTooManyOrdered     Code = 3014
	ElabPortUnknownName        Code = 3015
	ElabPortDuplicateConn      Code = 3016
	ElabPortUnconnected        Code = 3017
	ElabImplicitConnNotFound   Code = 3018
	ElabIfacePortUnconnected   Code = 3019
	ElabIfacePortMismatch      Code = 3020
	ElabModportUnknown         Code = 3021
	ElabRecursiveInstance      Code = 3022
	ElabMaxDepth               Code = 3023
	ElabInstanceMissingParens  Code = 3024
	ElabImplicitNetForbidden   Code = 3025
	ElabUnusedDefinition       Code = 3026
	ElabPrimitivePortCount     Code = 3027
	ElabPrimitiveNamedPorts    Code = 3028
	ElabPrimitiveDelayCount    Code = 3029
	ElabPrimitiveParams        Code = 3030
	ElabBindUnknownTarget      Code = 3031
	ElabVirtualNotInterface    Code = 3032
	ElabDuplicateMember        Code = 3033
	ElabTopNotFound            Code = 3034
	ElabPortDeclNotInList      Code = 3035
	ElabPortNoDeclaration      Code = 3036
	ElabBlackboxInvalid        Code = 3037
	ElabOverridePathUnresolved Code = 3038

	// Константные вычисления
	EvalInfo              Code = 3500
	EvalUndeclared        Code = 3501
	EvalNotConstant       Code = 3502
	EvalDivByZero         Code = 3503
	EvalBadOperand        Code = 3504
	EvalUnknownSystemFunc Code = 3505
	EvalBadArgCount       Code = 3506
	EvalNotAType          Code = 3507
	EvalRecursionLimit    Code = 3508
	EvalNoReturn          Code = 3509
	EvalIndexOutOfRange   Code = 3510
	EvalUnsupported       Code = 3511

	IOLoadFileError Code = 4001

	ProjInfo            Code = 5000
	ProjManifestInvalid Code = 5001
	ProjBadOverride     Code = 5002

	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	LintInfo      Code = 7000
	LintViolation Code = 7001
	LintContract  Code = 7002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number literal",
		LexBadEscapedIdent:          "Empty escaped identifier",
		LexUnknownDirective:         "Unknown compiler directive",
		LexUnterminatedAttribute:    "Unterminated attribute instance",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectSemicolon:          "Expected ';'",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectExpression:         "Expected expression",
		SynExpectType:               "Expected data type",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBracket:          "Unclosed bracket",
		SynUnclosedBrace:            "Unclosed brace",
		SynMissingEnd:               "Missing end keyword",
		SynUnexpectedTopLevel:       "Unexpected top-level item",
		SynBadDirective:             "Malformed compiler directive",
		SynEndLabelMismatch:         "End label does not match declaration name",
		SynMixedConnections:         "Mixed ordered and named connections",
		SynForeignLanguage:          "Source looks like another hardware language",
		ElabInfo:                    "Elaboration information",
		ElabDuplicateDefinition:     "Duplicate definition",
		ElabUnknownModule:           "Unknown module",
		ElabParamNoValue:            "Parameter has no value",
		ElabParamBodyNoDefault:      "Body parameter requires a default",
		ElabParamTooMany:            "Too many parameter assignments",
		ElabParamUnknownName:        "Unknown parameter name",
		ElabParamDuplicate:          "Duplicate parameter assignment",
		ElabParamLocalOverride:      "Local parameter cannot be overridden",
		ElabParamKindMismatch:       "Type/value parameter mismatch",
		ElabParamMixedAssign:        "Mixed ordered and named parameter assignments",
		ElabTopMissingParam:         "Top-level parameter has no default",
		ElabArrayRangeNotConst:      "Instance array range is not constant",
		ElabArrayRangeInvalid:       "Invalid instance array range",
		ElabPortTooManyOrdered:      "Too many ordered port connections",
		ElabPortUnknownName:         "Unknown port name",
		ElabPortDuplicateConn:       "Duplicate port connection",
		ElabPortUnconnected:         "Unconnected port",
		ElabImplicitConnNotFound:    "Implicit connection has no matching signal",
		ElabIfacePortUnconnected:    "Interface port is not connected",
		ElabIfacePortMismatch:       "Interface port connection mismatch",
		ElabModportUnknown:          "Unknown modport",
		ElabRecursiveInstance:       "Recursive instantiation",
		ElabMaxDepth:                "Instance depth limit exceeded",
		ElabInstanceMissingParens:   "Instantiation is missing parentheses",
		ElabImplicitNetForbidden:    "Implicit net not allowed",
		ElabUnusedDefinition:        "Definition is never instantiated",
		ElabPrimitivePortCount:      "Wrong number of primitive terminals",
		ElabPrimitiveNamedPorts:     "Primitives take ordered connections only",
		ElabPrimitiveDelayCount:     "Too many primitive delay values",
		ElabPrimitiveParams:         "Primitives have no parameters",
		ElabBindUnknownTarget:       "Unknown bind target",
		ElabVirtualNotInterface:     "Virtual type is not an interface",
		ElabDuplicateMember:         "Duplicate declaration",
		ElabTopNotFound:             "Top-level definition not found",
		ElabPortDeclNotInList:       "Port declaration not in port list",
		ElabPortNoDeclaration:       "Port has no direction declaration",
		ElabBlackboxInvalid:         "Invalid blackbox description",
		ElabOverridePathUnresolved:  "Parameter override path does not match an instance",
		EvalInfo:                    "Evaluation information",
		EvalUndeclared:              "Undeclared identifier",
		EvalNotConstant:             "Expression is not constant",
		EvalDivByZero:               "Division by zero",
		EvalBadOperand:              "Invalid operand type",
		EvalUnknownSystemFunc:       "Unknown system function",
		EvalBadArgCount:             "Wrong number of arguments",
		EvalNotAType:                "Name does not denote a type",
		EvalRecursionLimit:          "Constant function recursion limit",
		EvalNoReturn:                "Constant function did not return a value",
		EvalIndexOutOfRange:         "Select out of range",
		EvalUnsupported:             "Unsupported constant expression",
		IOLoadFileError:             "I/O load file error",
		ProjInfo:                    "Project information",
		ProjManifestInvalid:         "Invalid project manifest",
		ProjBadOverride:             "Malformed parameter override",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
		LintInfo:                    "Lint information",
		LintViolation:               "Lint rule violation",
		LintContract:                "Lint input contract violation",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 3500:
		return fmt.Sprintf("ELB%04d", ic)
	case ic >= 3500 && ic < 4000:
		return fmt.Sprintf("EVL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("LNT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ValueDependent reports codes that only make sense once parameter values
// are concrete. Uninstantiated bodies drop them.
func (c Code) ValueDependent() bool {
	switch {
	case c >= EvalInfo && c < IOLoadFileError:
		return true
	case c == ElabArrayRangeNotConst, c == ElabArrayRangeInvalid, c == ElabPrimitiveDelayCount:
		return true
	}
	return false
}
