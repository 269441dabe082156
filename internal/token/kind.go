package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident       // foo, \escaped
	SystemIdent // $clog2

	IntLit            // 42
	BasedLit          // 8'hFF, 'b1010
	UnbasedUnsizedLit // '0 '1 'x 'z
	RealLit           // 1.5, 2e3
	TimeLit           // 10ns
	StringLit         // "text"

	keywordBegin
	KwModule
	KwEndmodule
	KwMacromodule
	KwInterface
	KwEndinterface
	KwProgram
	KwEndprogram
	KwParameter
	KwLocalparam
	KwType
	KwInput
	KwOutput
	KwInout
	KwRef
	KwWire
	KwTri
	KwWand
	KwWor
	KwTriand
	KwTrior
	KwSupply0
	KwSupply1
	KwUwire
	KwLogic
	KwReg
	KwBit
	KwByte
	KwShortint
	KwInt
	KwLongint
	KwInteger
	KwTime
	KwReal
	KwRealtime
	KwString
	KwSigned
	KwUnsigned
	KwVar
	KwAssign
	KwBind
	KwVirtual
	KwModport
	KwFunction
	KwEndfunction
	KwTask
	KwEndtask
	KwTypedef
	KwBegin
	KwEnd
	KwIf
	KwElse
	KwReturn
	KwAutomatic
	KwStatic
	KwVoid
	KwPosedge
	KwNegedge
	KwDefparam
	KwAlways
	KwAlwaysComb
	KwAlwaysFF
	KwAlwaysLatch
	KwInitial
	KwFinal
	KwCase
	KwCasez
	KwCasex
	KwEndcase
	KwGenerate
	KwEndgenerate
	KwFork
	KwJoin
	KwJoinAny
	KwJoinNone
	KwGenvar
	KwFor
	KwWhile
	keywordEnd

	LParen       // (
	RParen       // )
	LBracket     // [
	RBracket     // ]
	LBrace       // {
	RBrace       // }
	Semicolon    // ;
	Comma        // ,
	Dot          // .
	DotStar      // .*
	Colon        // :
	ColonColon   // ::
	PlusColon    // +:
	MinusColon   // -:
	Hash         // #
	HashHash     // ##
	At           // @
	Question     // ?
	Apostrophe   // '
	Assign       // =
	Plus         // +
	PlusPlus     // ++
	PlusEq       // +=
	Minus        // -
	MinusMinus   // --
	MinusEq      // -=
	Star         // *
	Slash        // /
	Percent      // %
	Power        // **
	EqEq         // ==
	BangEq       // !=
	EqEqEq       // ===
	BangEqEq     // !==
	Lt           // <
	LtEq         // <=
	Gt           // >
	GtEq         // >=
	Shl          // <<
	Shr          // >>
	AShl         // <<<
	AShr         // >>>
	AndAnd       // &&
	OrOr         // ||
	Bang         // !
	Tilde        // ~
	Amp          // &
	Pipe         // |
	Caret        // ^
	TildeAmp     // ~&
	TildePipe    // ~|
	TildeCaret   // ~^ or ^~
	OverlapImpl  // |->
	NonOverlImpl // |=>
	AttrOpen     // (*
	AttrClose    // *)
)

var kindNames = [...]string{
	Invalid:           "invalid",
	EOF:               "end of file",
	Ident:             "identifier",
	SystemIdent:       "system identifier",
	IntLit:            "integer literal",
	BasedLit:          "based literal",
	UnbasedUnsizedLit: "unbased unsized literal",
	RealLit:           "real literal",
	TimeLit:           "time literal",
	StringLit:         "string literal",
	LParen:            "'('",
	RParen:            "')'",
	LBracket:          "'['",
	RBracket:          "']'",
	LBrace:            "'{'",
	RBrace:            "'}'",
	Semicolon:         "';'",
	Comma:             "','",
	Dot:               "'.'",
	DotStar:           "'.*'",
	Colon:             "':'",
	ColonColon:        "'::'",
	PlusColon:         "'+:'",
	MinusColon:        "'-:'",
	Hash:              "'#'",
	HashHash:          "'##'",
	At:                "'@'",
	Question:          "'?'",
	Apostrophe:        "'''",
	Assign:            "'='",
	Plus:              "'+'",
	PlusPlus:          "'++'",
	PlusEq:            "'+='",
	Minus:             "'-'",
	MinusMinus:        "'--'",
	MinusEq:           "'-='",
	Star:              "'*'",
	Slash:             "'/'",
	Percent:           "'%'",
	Power:             "'**'",
	EqEq:              "'=='",
	BangEq:            "'!='",
	EqEqEq:            "'==='",
	BangEqEq:          "'!=='",
	Lt:                "'<'",
	LtEq:              "'<='",
	Gt:                "'>'",
	GtEq:              "'>='",
	Shl:               "'<<'",
	Shr:               "'>>'",
	AShl:              "'<<<'",
	AShr:              "'>>>'",
	AndAnd:            "'&&'",
	OrOr:              "'||'",
	Bang:              "'!'",
	Tilde:             "'~'",
	Amp:               "'&'",
	Pipe:              "'|'",
	Caret:             "'^'",
	TildeAmp:          "'~&'",
	TildePipe:         "'~|'",
	TildeCaret:        "'~^'",
	OverlapImpl:       "'|->'",
	NonOverlImpl:      "'|=>'",
	AttrOpen:          "'(*'",
	AttrClose:         "'*)'",
}

func (k Kind) String() string {
	if k.IsKeyword() {
		return "'" + keywordText[k] + "'"
	}
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k > keywordBegin && k < keywordEnd
}

// IsLiteral reports whether k is a number, time or string literal.
func (k Kind) IsLiteral() bool {
	return k >= IntLit && k <= StringLit
}
