// Package fuzztests houses Go fuzz harnesses for the front end and the
// elaborator (source -> lexer -> parser -> elab). They guard against
// panics and hangs on arbitrary input.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер,
// парсер и построение иерархии.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
