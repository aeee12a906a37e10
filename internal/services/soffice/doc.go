// Package soffice invokes LibreOffice in headless mode to convert
// assembled documents to PDF. Command execution sits behind an Executor
// interface so tests can stub the binary.
package soffice
