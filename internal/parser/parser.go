package parser

import (
	"slices"

	"svelab/internal/diag"
	"svelab/internal/lexer"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	// Directives is the directive state at the top of the file; nil
	// means syntax.DefaultDirectives.
	Directives *syntax.DirectiveState
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Unit *syntax.CompilationUnit
	Bag  *diag.Bag
}

// Parser: состояние парсера на один файл
type Parser struct {
	toks     []token.Token
	pos      int
	file     source.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики

	dirs    syntax.DirectiveState // директивы, действующие в текущей точке файла
	applied int                   // сколько токенов уже отдали свои директивы
}

// ParseFile: входная точка для разбора одного файла.
func ParseFile(file *source.File, opts Options) Result {
	p := newParser(file, opts)
	unit := p.parseUnit()
	return Result{Unit: unit, Bag: bagOf(opts.Reporter)}
}

func newParser(file *source.File, opts Options) *Parser {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	toks := lx.All()
	dirs := syntax.DefaultDirectives()
	if opts.Directives != nil {
		dirs = *opts.Directives
	}
	return &Parser{
		toks:     toks,
		file:     file.ID,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
		dirs:     dirs,
	}
}

func bagOf(r diag.Reporter) *diag.Bag {
	if br, ok := r.(diag.BagReporter); ok {
		return br.Bag
	}
	if br, ok := r.(*diag.BagReporter); ok {
		return br.Bag
	}
	return nil
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) at_or(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// parseUnit: основной цикл верхнего уровня: пока не EOF: parseItem.
func (p *Parser) parseUnit() *syntax.CompilationUnit {
	unit := syntax.NewCompilationUnit(p.peek().Span, p.file)
	start := p.peek().Span
	for !p.at(token.EOF) {
		before := p.pos
		m, ok := p.parseItem()
		if ok && m != nil {
			unit.Members = append(unit.Members, m)
		}
		if !ok {
			p.resyncTop()
		}
		if p.pos == before {
			// ни одного токена не съели: принудительно двигаемся
			p.advance()
		}
	}
	p.applyDirectives(p.peek())
	unit.SetSpan(start.Cover(p.peek().Span))
	return unit
}

// parseItem выбирает по первому токену нужный распознаватель конструкции
// уровня компиляционной единицы.
func (p *Parser) parseItem() (syntax.Member, bool) {
	attrs := p.parseAttributes()
	switch p.peek().Kind {
	case token.KwModule, token.KwMacromodule, token.KwInterface, token.KwProgram:
		return p.parseModuleDeclaration(attrs)
	case token.KwEndmodule, token.KwEndinterface, token.KwEndprogram:
		p.err(diag.SynUnexpectedToken, "unexpected "+p.peek().Kind.String()+" without a matching declaration")
		p.advance()
		return nil, true
	}
	return p.parseMember(attrs, memberUnit)
}

// resyncTop: восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' ИЛИ до стартового токена следующей декларации ИЛИ EOF.
func (p *Parser) resyncTop() {
	p.resyncUntil(token.Semicolon, token.KwModule, token.KwMacromodule, token.KwInterface, token.KwProgram,
		token.KwEndmodule, token.KwEndinterface, token.KwEndprogram)
	if p.at(token.Semicolon) {
		p.advance()
	}
}

// isDesignUnitStart reports tokens that open a module-like declaration.
func isDesignUnitStart(k token.Kind) bool {
	switch k {
	case token.KwModule, token.KwMacromodule, token.KwInterface, token.KwProgram:
		return true
	default:
		return false
	}
}

// endKeywordFor maps a design-unit keyword to its terminator.
func endKeywordFor(k token.Kind) token.Kind {
	switch k {
	case token.KwInterface:
		return token.KwEndinterface
	case token.KwProgram:
		return token.KwEndprogram
	default:
		return token.KwEndmodule
	}
}
