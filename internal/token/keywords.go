package token

var keywords = map[string]Kind{
	"module":       KwModule,
	"endmodule":    KwEndmodule,
	"macromodule":  KwMacromodule,
	"interface":    KwInterface,
	"endinterface": KwEndinterface,
	"program":      KwProgram,
	"endprogram":   KwEndprogram,
	"parameter":    KwParameter,
	"localparam":   KwLocalparam,
	"type":         KwType,
	"input":        KwInput,
	"output":       KwOutput,
	"inout":        KwInout,
	"ref":          KwRef,
	"wire":         KwWire,
	"tri":          KwTri,
	"wand":         KwWand,
	"wor":          KwWor,
	"triand":       KwTriand,
	"trior":        KwTrior,
	"supply0":      KwSupply0,
	"supply1":      KwSupply1,
	"uwire":        KwUwire,
	"logic":        KwLogic,
	"reg":          KwReg,
	"bit":          KwBit,
	"byte":         KwByte,
	"shortint":     KwShortint,
	"int":          KwInt,
	"longint":      KwLongint,
	"integer":      KwInteger,
	"time":         KwTime,
	"real":         KwReal,
	"realtime":     KwRealtime,
	"string":       KwString,
	"signed":       KwSigned,
	"unsigned":     KwUnsigned,
	"var":          KwVar,
	"assign":       KwAssign,
	"bind":         KwBind,
	"virtual":      KwVirtual,
	"modport":      KwModport,
	"function":     KwFunction,
	"endfunction":  KwEndfunction,
	"task":         KwTask,
	"endtask":      KwEndtask,
	"typedef":      KwTypedef,
	"begin":        KwBegin,
	"end":          KwEnd,
	"if":           KwIf,
	"else":         KwElse,
	"return":       KwReturn,
	"automatic":    KwAutomatic,
	"static":       KwStatic,
	"void":         KwVoid,
	"posedge":      KwPosedge,
	"negedge":      KwNegedge,
	"defparam":     KwDefparam,
	"always":       KwAlways,
	"always_comb":  KwAlwaysComb,
	"always_ff":    KwAlwaysFF,
	"always_latch": KwAlwaysLatch,
	"initial":      KwInitial,
	"final":        KwFinal,
	"case":         KwCase,
	"casez":        KwCasez,
	"casex":        KwCasex,
	"endcase":      KwEndcase,
	"generate":     KwGenerate,
	"endgenerate":  KwEndgenerate,
	"fork":         KwFork,
	"join":         KwJoin,
	"join_any":     KwJoinAny,
	"join_none":    KwJoinNone,
	"genvar":       KwGenvar,
	"for":          KwFor,
	"while":        KwWhile,
}

var keywordText = func() map[Kind]string {
	m := make(map[Kind]string, len(keywords))
	for s, k := range keywords {
		m[k] = s
	}
	return m
}()

// LookupKeyword возвращает тип ключевого слова. Ключевые слова SystemVerilog
// регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsNetType reports the net-type keywords usable in net declarations and
// `default_nettype.
func (k Kind) IsNetType() bool {
	switch k {
	case KwWire, KwTri, KwWand, KwWor, KwTriand, KwTrior, KwSupply0, KwSupply1, KwUwire:
		return true
	}
	return false
}

// IsDataTypeKeyword reports keywords that start a built-in data type.
func (k Kind) IsDataTypeKeyword() bool {
	switch k {
	case KwLogic, KwReg, KwBit, KwByte, KwShortint, KwInt, KwLongint, KwInteger,
		KwTime, KwReal, KwRealtime, KwString:
		return true
	}
	return false
}

// IsDirection reports port direction keywords.
func (k Kind) IsDirection() bool {
	switch k {
	case KwInput, KwOutput, KwInout, KwRef:
		return true
	}
	return false
}

// IsProcedural reports keywords that open a procedural block.
func (k Kind) IsProcedural() bool {
	switch k {
	case KwAlways, KwAlwaysComb, KwAlwaysFF, KwAlwaysLatch, KwInitial, KwFinal:
		return true
	}
	return false
}
