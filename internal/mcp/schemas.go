package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexRepositoryTool returns the tool definition for index_repository.
func indexRepositoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_repository",
		Description: "Index a repository's source files into the semantic search index (replaces any previous index for the repository)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"repo_id": map[string]interface{}{
					"type":        "string",
					"description": "Repository identifier, e.g. 'owner/name'",
				},
				"files": map[string]interface{}{
					"type":        "array",
					"description": "Source files to index",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"path": map[string]interface{}{
								"type":        "string",
								"description": "File path relative to the repository root",
							},
							"content": map[string]interface{}{
								"type":        "string",
								"description": "Full file text",
							},
						},
						"required": []string{"path", "content"},
					},
				},
			},
			Required: []string{"repo_id", "files"},
		},
	}
}

// retrieveContextTool returns the tool definition for retrieve_context.
func retrieveContextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "retrieve_context",
		Description: "Retrieve the most relevant indexed code fragments for a natural-language query, grouped by file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"repo_id": map[string]interface{}{
					"type":        "string",
					"description": "Repository identifier used at indexing time",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language query",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of chunks to retrieve (1-50)",
					"default":     5,
					"minimum":     1,
					"maximum":     50,
				},
				"min_score": map[string]interface{}{
					"type":        "number",
					"description": "Minimum similarity score threshold (0.0-1.0)",
					"minimum":     0.0,
					"maximum":     1.0,
				},
				"max_chunks_per_file": map[string]interface{}{
					"type":        "integer",
					"description": "Cap on chunks contributed by a single file",
					"minimum":     1,
				},
			},
			Required: []string{"repo_id", "query"},
		},
	}
}

// indexStatusTool returns the tool definition for index_status.
func indexStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_status",
		Description: "Report index size and quality for a repository, suggesting re-indexing when the index is too sparse",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"repo_id": map[string]interface{}{
					"type":        "string",
					"description": "Repository identifier",
				},
			},
			Required: []string{"repo_id"},
		},
	}
}
