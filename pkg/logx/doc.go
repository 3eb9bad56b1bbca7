// Package logx configures joinbot's structured logging.
//
// A thin wrapper (logx.Logger) on top of zerolog keeps console output short
// and readable, file output JSON-structured, and can mirror warnings into an
// admin log chat through the transport Sender (min-level + rate limited).
package logx
