// Package mcp implements the Model Context Protocol (MCP) server for Repospector.
//
// The MCP server exposes three tools to AI coding assistants:
//   - index_repository: Chunk, embed and index a repository's source files
//   - retrieve_context: Retrieve relevant indexed code for a natural-language query
//   - index_status: Report index size and quality for a repository
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates via standard input/output; all logging goes to
// stderr so stdout stays clean for protocol frames.
//
// # Tool: index_repository
//
// Replace a repository's index with chunks built from the supplied files:
//
//	Request:
//	{
//	  "name": "index_repository",
//	  "arguments": {
//	    "repo_id": "acme/billing",
//	    "files": [
//	      {"path": "internal/invoice.go", "content": "package invoice\n..."}
//	    ]
//	  }
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "repo_id": "acme/billing",
//	  "files_chunked": 42,
//	  "chunks_indexed": 317,
//	  "chunks_total": 317,
//	  "batches": 16
//	}
//
// Re-indexing clears the previous generation first; failed batches are
// reported in the response but do not fail the call.
//
// # Tool: retrieve_context
//
// Retrieve the most relevant indexed fragments for a query:
//
//	Request:
//	{
//	  "name": "retrieve_context",
//	  "arguments": {
//	    "repo_id": "acme/billing",
//	    "query": "how are invoices finalized",
//	    "limit": 5
//	  }
//	}
//
//	Response:
//	{
//	  "context": "--- internal/invoice.go (relevance: high, score: 0.84) ---\n...",
//	  "sources": ["internal/invoice.go"],
//	  "avg_score": 0.78
//	}
//
// Retrieval is best-effort: failures degrade to an empty context payload
// rather than an error.
//
// # Tool: index_status
//
// Check how usable a repository's index is:
//
//	Request:
//	{
//	  "name": "index_status",
//	  "arguments": {"repo_id": "acme/billing"}
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "quality": "good",
//	  "chunks_count": 317,
//	  "files_count": 42,
//	  "suggest_reindex": false
//	}
//
// # Error Handling
//
// The server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "Invalid params",
//	    "data": {"param": "repo_id", "reason": "missing or empty"}
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (index, provider, filesystem)
//   - -32001: Repository not indexed
//   - -32002: Empty query
package mcp
