package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/srewoo/repospector/internal/service"
	"github.com/srewoo/repospector/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeNotIndexed    = -32001 // Repository has no index
	ErrorCodeEmptyQuery    = -32002 // Query parameter is empty
)

// handleIndexRepository handles the index_repository tool invocation
func (s *Server) handleIndexRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	repoID, ok := args["repo_id"].(string)
	if !ok || repoID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "repo_id parameter is required", map[string]interface{}{
			"param":  "repo_id",
			"reason": "missing or empty",
		})
	}

	files, err := parseFiles(args["files"])
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid files parameter", map[string]interface{}{
			"param":  "files",
			"reason": err.Error(),
		})
	}

	summary, err := s.service.IndexRepository(ctx, repoID, files, nil)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":        summary.Success,
		"repo_id":        repoID,
		"files_chunked":  summary.FilesChunked,
		"chunks_indexed": summary.ChunksIndexed,
		"chunks_total":   summary.ChunksTotal,
		"batches":        len(summary.Batches),
	}
	if failed := summary.FailedBatches(); failed > 0 {
		response["failed_batches"] = failed
		msgs := make([]string, 0, failed)
		for _, b := range summary.Batches {
			if b.Err != nil {
				msgs = append(msgs, fmt.Sprintf("batch %d: %s", b.Batch, b.Err))
			}
		}
		// Include first few errors
		if len(msgs) > 5 {
			msgs = msgs[:5]
		}
		response["errors"] = msgs
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRetrieveContext handles the retrieve_context tool invocation
func (s *Server) handleRetrieveContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	repoID, ok := args["repo_id"].(string)
	if !ok || repoID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "repo_id parameter is required", map[string]interface{}{
			"param":  "repo_id",
			"reason": "missing or empty",
		})
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 5)
	if limit < 1 || limit > 50 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 50", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	opts := service.RetrieveOptions{
		MinScore:         getFloatDefault(args, "min_score", 0),
		MaxChunksPerFile: getIntDefault(args, "max_chunks_per_file", 0),
	}
	if opts.MinScore < 0 || opts.MinScore > 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "min_score must be between 0.0 and 1.0", map[string]interface{}{
			"param": "min_score",
			"value": opts.MinScore,
		})
	}

	retrieved := s.service.RetrieveContext(ctx, repoID, query, limit, opts)

	response := map[string]interface{}{
		"repo_id":   repoID,
		"context":   retrieved.Context,
		"sources":   retrieved.Sources,
		"avg_score": retrieved.AvgScore,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleIndexStatus handles the index_status tool invocation
func (s *Server) handleIndexStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	repoID, ok := args["repo_id"].(string)
	if !ok || repoID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "repo_id parameter is required", map[string]interface{}{
			"param":  "repo_id",
			"reason": "missing or empty",
		})
	}

	quality, err := s.service.CheckIndexQuality(ctx, repoID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to check index quality", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"repo_id":         repoID,
		"indexed":         quality.Level != types.QualityNone,
		"quality":         string(quality.Level),
		"chunks_count":    quality.ChunksCount,
		"files_count":     quality.FilesCount,
		"suggest_reindex": quality.SuggestReindex,
	}
	if quality.Level == types.QualityNone {
		response["message"] = "Repository not indexed. Use index_repository tool to index it."
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// parseFiles converts the JSON files argument into typed repo files.
func parseFiles(raw interface{}) ([]types.RepoFile, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("files must be an array of {path, content} objects")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("files array is empty")
	}

	files := make([]types.RepoFile, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("files[%d] is not an object", i)
		}
		path, ok := obj["path"].(string)
		if !ok || path == "" {
			return nil, fmt.Errorf("files[%d].path is missing or empty", i)
		}
		content, ok := obj["content"].(string)
		if !ok {
			return nil, fmt.Errorf("files[%d].content is missing", i)
		}
		files = append(files, types.RepoFile{Path: path, Content: content})
	}
	return files, nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a float parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	return defaultValue
}
