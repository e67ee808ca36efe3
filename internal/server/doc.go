// Package server implements the MCP (Model Context Protocol) server for BlurHash tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the encoder and
// decoder through the MCP protocol, so MCP-compatible clients can generate
// placeholders for image files without shelling out to the CLI.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Encoding:
//   - blurhash_encode: Hash one image file
//   - blurhash_encode_batch: Hash many files in parallel, results in input order
//
// Decoding:
//   - blurhash_decode: Render a hash as a base64 PNG placeholder
//   - blurhash_components: Validate a hash and report its components and average color
//
// Image Information:
//   - image_info: Get width, height, format and file size
//
// Omitted component counts, worker limits and max_size fall back to the
// config.Config the server was created with.
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded images. Images are cached
// by path and reused across tool calls, so encoding a file and then asking for
// its dimensions reads it once. The cache persists for the lifetime of the
// server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// A failing file inside blurhash_encode_batch is not a tool error; it is
// reported in that file's result entry.
//
// # Usage
//
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
