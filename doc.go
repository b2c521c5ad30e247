/*
Package golfpack implements a cost-aware DEFLATE re-encoder for
code-golf style self-extracting payloads.

Given the raw DEFLATE bytes of a single final, dynamic-Huffman block
produced by an external deflater, Reencode re-runs LZ77 match selection
against the same Huffman tables, scoring candidate literals and
back-references by the number of bits they will occupy once the
resulting bytes are escaped into a host-language string literal rather
than by raw bit count. The output decodes to the same payload and is
never longer, usually shorter, than the input.

Decompression, encoding a new Huffman tree, and handling fixed-Huffman
or stored blocks are all out of scope: those are the job of the
upstream deflater/inflater this package treats as an external
collaborator (see compress/flate, wrapped in reencode.go).
*/
package golfpack
