// Package dialect detects source files that are not SystemVerilog at all:
// VHDL, SystemC or Chisel fed to the elaborator by mistake.
//
// It is non-invasive: evidence collection never changes parsing, and the
// driver only consults it for files that already failed to parse.
package dialect
