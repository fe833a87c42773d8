// Package kvwire implements the self-describing wire format used by the
// key-value store protocol. Every encoded value starts with a single
// indicator byte identifying its kind, followed by ASCII-decimal framing:
// lengths and element counts are decimal text terminated by a newline, and
// scalar payloads are decimal text as well. Containers (sequences, tuples,
// maps, structs, enum variants) nest recursively, so any value can be
// decoded into a Value tree without external schema knowledge.
//
// The package is stateless across calls; a Decoder owns its Cursor and an
// Encoder owns its output writer, and independent codec operations may run
// concurrently.
package kvwire
