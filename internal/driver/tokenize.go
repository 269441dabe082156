package driver

import (
	"svelab/internal/diag"
	"svelab/internal/lexer"
	"svelab/internal/parser"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lx.All(),
		Bag:     bag,
	}, nil
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Unit    *syntax.CompilationUnit
	Bag     *diag.Bag
}

// Parse parses one file on its own, for the parse command.
func Parse(path string, maxDiagnostics int, defaultNetType string) (*ParseResult, error) {
	dirs, err := initialDirectives(defaultNetType)
	if err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	res := parser.ParseFile(file, parser.Options{
		Reporter:   diag.BagReporter{Bag: bag},
		Directives: dirs,
	})
	bag.Sort()
	return &ParseResult{FileSet: fs, File: file, Unit: res.Unit, Bag: bag}, nil
}
