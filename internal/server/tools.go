package server

import "github.com/ironsheep/blurhash-tools/internal/blurhash"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func componentProperty(axis string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     1,
		"maximum":     9,
		"description": "Number of " + axis + " components (1-9). Defaults to the server configuration.",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "blurhash_encode",
			Description: "Compute the BlurHash of an image file. The hash is a short string that decodes to a blurred placeholder of the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":         pathProperty(),
					"components_x": componentProperty("horizontal"),
					"components_y": componentProperty("vertical"),
					"max_size": map[string]interface{}{
						"type":        "integer",
						"description": "Downscale the image to fit this many pixels per side before hashing. 0 keeps full resolution.",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "blurhash_encode_batch",
			Description: "Compute BlurHashes for many image files in parallel. Results are returned in input order; a failing file does not affect the others.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to image files",
					},
					"components_x": componentProperty("horizontal"),
					"components_y": componentProperty("vertical"),
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum parallel encodes. 0 uses one per CPU.",
					},
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "blurhash_decode",
			Description: "Render a BlurHash as a placeholder image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hash": map[string]interface{}{
						"type":        "string",
						"description": "The BlurHash string",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"maximum":     blurhash.MaxDecodeSize,
						"description": "Output width in pixels. Default 32",
						"default":     32,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"maximum":     blurhash.MaxDecodeSize,
						"description": "Output height in pixels. Default 32",
						"default":     32,
					},
					"punch": map[string]interface{}{
						"type":        "number",
						"description": "Contrast multiplier for the AC components. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"hash"},
			},
		},
		{
			Name:        "blurhash_components",
			Description: "Validate a BlurHash and report its component counts and average color without rendering it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hash": map[string]interface{}{
						"type":        "string",
						"description": "The BlurHash string",
					},
				},
				"required": []string{"hash"},
			},
		},
		{
			Name:        "image_info",
			Description: "Get the width, height, format and file size of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
