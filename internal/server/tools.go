package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema of the image path argument shared by most tools.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the ECG printout image (PNG, JPEG, GIF, BMP, TIFF or WebP)",
}

// runIDProperty is the schema of the run identifier returned by an export.
var runIDProperty = map[string]interface{}{
	"type":        "string",
	"description": "Run id reported by ecg_export_previews or ecg_classify",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Classification
		{
			Name:        "ecg_classify",
			Description: "Classify a 12-lead ECG printout image. Returns the label (Normal, AbnormalHeartbeat, MyocardialInfarction or HistoryOfMI), the raw classifier code, a user-facing message and a per-lead processing report.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"include_vectors": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the 3060-value feature vector and the reduced vector in the result. Default false",
						"default":     false,
					},
					"export_previews": map[string]interface{}{
						"type":        "boolean",
						"description": "Also write review images and CSV files into a directory named by the run id. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Feature Extraction
		{
			Name:        "ecg_extract_features",
			Description: "Run the image stages only and return the assembled feature vector (12 leads x 255 samples) with per-lead status. No model artifacts are needed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ecg_segment_leads",
			Description: "Return the fixed lead geometry of the printout: index, name and pixel bounds of each of the 13 regions on the canonical 1572x2213 image, with the intensity range of each crop.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Review Artifacts
		{
			Name:        "ecg_export_previews",
			Description: "Write review artifacts for an image (lead montages, binarized masks, contour plots, scaled lead CSV and lead summary CSV) into a new run directory and return the file list.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		{
			Name:        "ecg_preview_summary",
			Description: "Read back the per-lead summary (status, threshold, trace pixels, contour count) written by an earlier export.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"run_id": runIDProperty,
				},
				"required": []string{"run_id"},
			},
		},
		{
			Name:        "ecg_remove_previews",
			Description: "Delete the review artifact directory of a run.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"run_id": runIDProperty,
				},
				"required": []string{"run_id"},
			},
		},

		// Models
		{
			Name:        "ecg_classify_features",
			Description: "Classify an already assembled 3060-value feature vector (12 leads x 255 samples, lead order I, aVR, V1, V4, II, aVL, V2, V5, III, aVF, V3, V6) without any image processing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"features": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "number"},
						"description": "Feature vector as returned by ecg_extract_features",
					},
				},
				"required": []string{"features"},
			},
		},
		{
			Name:        "ecg_model_info",
			Description: "Load the projection and classifier artifacts and report their dimensions, class codes and the label table.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
