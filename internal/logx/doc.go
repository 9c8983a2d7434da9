// Package logx configures the widget's structured logging.
//
// Logger is a small value type on top of zerolog:
//   - Console output stays readable (short timestamp + short caller)
//   - File output is JSON, one record per line
//
// The zero Logger is a no-op, so components can take a Logger field and
// leave it unset in tests.
package logx
