package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/ecg-tools-mcp/internal/leads"
	"github.com/ironsheep/ecg-tools-mcp/internal/model"
	"github.com/ironsheep/ecg-tools-mcp/internal/pipeline"
	"github.com/ironsheep/ecg-tools-mcp/internal/preview"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "ecg_classify").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// RunErrorData is the error payload of a failed pipeline run.
type RunErrorData struct {
	RunID string             `json:"run_id"`
	Stage pipeline.Stage     `json:"stage"`
	Kind  pipeline.ErrorKind `json:"kind"`
	Error string             `json:"error"`
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
// When the error comes from a pipeline run, data is a RunErrorData.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warning("tool %s failed: %v", params.Name, err)
		var re *pipeline.RunError
		if errors.As(err, &re) {
			return s.errorResponse(req.ID, -32000, "Tool execution failed", RunErrorData{
				RunID: re.RunID,
				Stage: re.Stage,
				Kind:  re.Kind,
				Error: err.Error(),
			})
		}
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Classification
	case "ecg_classify":
		return s.handleClassify(ctx, args)

	// Feature Extraction
	case "ecg_extract_features":
		return s.handleExtractFeatures(ctx, args)
	case "ecg_segment_leads":
		return s.handleSegmentLeads(args)

	// Review Artifacts
	case "ecg_export_previews":
		return s.handleExportPreviews(ctx, args)
	case "ecg_preview_summary":
		return s.handlePreviewSummary(args)
	case "ecg_remove_previews":
		return s.handleRemovePreviews(args)

	// Models
	case "ecg_classify_features":
		return s.handleClassifyFeatures(ctx, args)
	case "ecg_model_info":
		return s.handleModelInfo()

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

// requirePath rejects calls that omit the image path.
func requirePath(path string) error {
	if path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// === Classification Handlers ===

type classifyArgs struct {
	Path           string `json:"path"`
	IncludeVectors bool   `json:"include_vectors"`
	ExportPreviews bool   `json:"export_previews"`
}

// ClassifyResult is the ecg_classify payload.
type ClassifyResult struct {
	*pipeline.Result
	Previews     *preview.Manifest `json:"previews,omitempty"`
	PreviewError string            `json:"preview_error,omitempty"`
}

func (s *Server) handleClassify(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a classifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}

	res, err := s.pipeline.Classify(ctx, pipeline.FromPath(s.cache, a.Path))
	if err != nil {
		s.cache.Evict(a.Path)
		return nil, err
	}

	out := ClassifyResult{Result: res}
	if a.ExportPreviews {
		m, err := s.exporter.Export(res)
		if err != nil {
			out.PreviewError = err.Error()
		} else {
			out.Previews = &m
		}
	}
	if !a.IncludeVectors {
		trimmed := *res
		trimmed.Features = nil
		trimmed.Reduced = nil
		out.Result = &trimmed
	}
	return out, nil
}

// === Feature Extraction Handlers ===

// FeaturesResult is the ecg_extract_features payload.
type FeaturesResult struct {
	RunID    string                `json:"run_id"`
	Length   int                   `json:"length"`
	Leads    []pipeline.LeadReport `json:"leads"`
	Missing  []int                 `json:"missing_leads,omitempty"`
	Features []float64             `json:"features"`
}

func (s *Server) handleExtractFeatures(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}

	res, err := s.pipeline.ExtractFeatures(ctx, pipeline.FromPath(s.cache, a.Path))
	if err != nil {
		s.cache.Evict(a.Path)
		return nil, err
	}
	return FeaturesResult{
		RunID:    res.RunID,
		Length:   len(res.Features),
		Leads:    res.Leads,
		Missing:  res.Missing,
		Features: res.Features,
	}, nil
}

// RegionInfo describes one cropped lead region.
type RegionInfo struct {
	leads.Spec
	Rows int     `json:"rows"`
	Cols int     `json:"cols"`
	Min  float64 `json:"min_intensity"`
	Max  float64 `json:"max_intensity"`
}

func (s *Server) handleSegmentLeads(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}

	canonical, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	regions, err := leads.Segment(canonical)
	if err != nil {
		return nil, err
	}

	infos := make([]RegionInfo, len(regions))
	for i, r := range regions {
		lo, hi := r.Pixels.MinMax()
		infos[i] = RegionInfo{Spec: r.Spec, Rows: r.Pixels.Rows, Cols: r.Pixels.Cols, Min: lo, Max: hi}
	}
	return map[string]interface{}{
		"canonical_rows": canonical.Rows,
		"canonical_cols": canonical.Cols,
		"regions":        infos,
	}, nil
}

// === Review Artifact Handlers ===

func (s *Server) handleExportPreviews(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}

	// A run without usable leads still has crops worth reviewing
	res, err := s.pipeline.ExtractFeatures(ctx, pipeline.FromPath(s.cache, a.Path))
	if err != nil {
		s.cache.Evict(a.Path)
		if res == nil || res.Regions == nil {
			return nil, err
		}
	}
	return s.exporter.Export(res)
}

type runIDArgs struct {
	RunID string `json:"run_id"`
}

func parseRunID(args json.RawMessage) (string, error) {
	var a runIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return "", err
	}
	if a.RunID == "" {
		return "", fmt.Errorf("run_id is required")
	}
	return a.RunID, nil
}

func (s *Server) handlePreviewSummary(args json.RawMessage) (interface{}, error) {
	runID, err := parseRunID(args)
	if err != nil {
		return nil, err
	}
	rows, err := s.exporter.Summary(runID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"run_id": runID,
		"leads":  rows,
	}, nil
}

func (s *Server) handleRemovePreviews(args json.RawMessage) (interface{}, error) {
	runID, err := parseRunID(args)
	if err != nil {
		return nil, err
	}
	if err := s.exporter.Remove(runID); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"run_id":  runID,
		"removed": true,
	}, nil
}

// === Model Handlers ===

type classifyFeaturesArgs struct {
	Features []float64 `json:"features"`
}

func (s *Server) handleClassifyFeatures(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a classifyFeaturesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Features) == 0 {
		return nil, fmt.Errorf("features is required")
	}
	return s.pipeline.ClassifyFeatures(ctx, a.Features)
}

// ModelInfo is the ecg_model_info payload.
type ModelInfo struct {
	Projection struct {
		Path      string `json:"path"`
		InputDim  int    `json:"input_dim"`
		OutputDim int    `json:"output_dim"`
	} `json:"projection"`
	Classifier struct {
		Path     string `json:"path"`
		InputDim int    `json:"input_dim"`
		Classes  []int  `json:"classes"`
	} `json:"classifier"`
	Labels   []model.Entry `json:"labels"`
	Fallback model.Label   `json:"fallback"`
}

func (s *Server) handleModelInfo() (interface{}, error) {
	store := s.pipeline.Store()
	proj, cls, err := store.Models()
	if err != nil {
		return nil, err
	}

	var info ModelInfo
	info.Projection.Path, info.Classifier.Path = store.Paths()
	info.Projection.InputDim = proj.InputDim()
	info.Projection.OutputDim = proj.OutputDim()
	info.Classifier.InputDim = cls.InputDim()
	info.Classifier.Classes = cls.Classes()

	table := s.pipeline.Labels()
	info.Labels = table.Entries()
	info.Fallback = table.Fallback
	return info, nil
}
