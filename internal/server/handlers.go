package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/blurhash-tools/internal/batch"
	"github.com/ironsheep/blurhash-tools/internal/blurhash"
	"github.com/ironsheep/blurhash-tools/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "blurhash_encode").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "blurhash_encode":
		return s.handleEncode(args)
	case "blurhash_encode_batch":
		return s.handleEncodeBatch(args)
	case "blurhash_decode":
		return s.handleDecode(args)
	case "blurhash_components":
		return s.handleComponents(args)
	case "image_info":
		return s.handleImageInfo(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// components fills omitted axes from the server configuration.
func (s *Server) components(x, y int) blurhash.Components {
	comp := s.cfg.Components()
	if x != 0 {
		comp.X = x
	}
	if y != 0 {
		comp.Y = y
	}
	return comp
}

// === Encode Handlers ===

type encodeArgs struct {
	Path        string `json:"path"`
	ComponentsX int    `json:"components_x"`
	ComponentsY int    `json:"components_y"`
	MaxSize     *int   `json:"max_size"`
}

// EncodeResult is the output of blurhash_encode.
type EncodeResult struct {
	Hash        string `json:"hash"`
	ComponentsX int    `json:"components_x"`
	ComponentsY int    `json:"components_y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

func (s *Server) handleEncode(args json.RawMessage) (interface{}, error) {
	var a encodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	comp := s.components(a.ComponentsX, a.ComponentsY)
	if err := comp.Validate(); err != nil {
		return nil, err
	}

	loader := imaging.Loader{Cache: s.cache, MaxSize: s.cfg.MaxSize}
	if a.MaxSize != nil {
		loader.MaxSize = *a.MaxSize
	}
	grid, err := loader.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}
	hash, err := blurhash.Encode(grid, comp)
	if err != nil {
		return nil, err
	}

	return &EncodeResult{
		Hash:        hash,
		ComponentsX: comp.X,
		ComponentsY: comp.Y,
		Width:       grid.Width,
		Height:      grid.Height,
	}, nil
}

type encodeBatchArgs struct {
	Paths       []string `json:"paths"`
	ComponentsX int      `json:"components_x"`
	ComponentsY int      `json:"components_y"`
	Workers     int      `json:"workers"`
}

// BatchEntry is one line of a blurhash_encode_batch result.
type BatchEntry struct {
	Path  string `json:"path"`
	Hash  string `json:"hash,omitempty"`
	Error string `json:"error,omitempty"`
}

// BatchResult is the output of blurhash_encode_batch.
type BatchResult struct {
	Results []BatchEntry `json:"results"`
	Failed  int          `json:"failed"`
}

func (s *Server) handleEncodeBatch(args json.RawMessage) (interface{}, error) {
	var a encodeBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths must not be empty")
	}
	workers := s.cfg.Workers
	if a.Workers > 0 {
		workers = a.Workers
	}

	loader := &imaging.Loader{Cache: s.cache, MaxSize: s.cfg.MaxSize}
	outcomes, err := batch.HashFiles(context.Background(), a.Paths, loader, s.components(a.ComponentsX, a.ComponentsY),
		batch.Options{Workers: workers, Debug: s.cfg.Debug})
	if err != nil {
		return nil, err
	}

	res := &BatchResult{Results: make([]BatchEntry, len(outcomes)), Failed: batch.Failed(outcomes)}
	for i, o := range outcomes {
		res.Results[i] = BatchEntry{Path: o.Path, Hash: o.Hash}
		if o.Err != nil {
			res.Results[i].Error = o.Err.Error()
		}
	}
	return res, nil
}

// === Decode Handlers ===

type decodeArgs struct {
	Hash   string  `json:"hash"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Punch  float64 `json:"punch"`
}

// DecodeResult is the output of blurhash_decode.
type DecodeResult struct {
	imaging.PreviewResult
	AverageColor string `json:"average_color"`
}

func (s *Server) handleDecode(args json.RawMessage) (interface{}, error) {
	var a decodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = 32
	}
	if a.Height == 0 {
		a.Height = 32
	}
	if a.Punch == 0 {
		a.Punch = 1.0
	}

	img, err := blurhash.Decode(a.Hash, a.Width, a.Height, a.Punch)
	if err != nil {
		return nil, err
	}
	avg, err := blurhash.AverageHex(a.Hash)
	if err != nil {
		return nil, err
	}
	preview, err := imaging.EncodePreview(img)
	if err != nil {
		return nil, err
	}
	return &DecodeResult{PreviewResult: *preview, AverageColor: avg}, nil
}

type componentsArgs struct {
	Hash string `json:"hash"`
}

// ComponentsResult is the output of blurhash_components.
type ComponentsResult struct {
	ComponentsX  int    `json:"components_x"`
	ComponentsY  int    `json:"components_y"`
	Length       int    `json:"length"`
	AverageColor string `json:"average_color"`
}

func (s *Server) handleComponents(args json.RawMessage) (interface{}, error) {
	var a componentsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	comp, err := blurhash.ParseComponents(a.Hash)
	if err != nil {
		return nil, err
	}
	avg, err := blurhash.AverageHex(a.Hash)
	if err != nil {
		return nil, err
	}
	return &ComponentsResult{
		ComponentsX:  comp.X,
		ComponentsY:  comp.Y,
		Length:       comp.HashLen(),
		AverageColor: avg,
	}, nil
}

// === Image Information Handlers ===

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}
