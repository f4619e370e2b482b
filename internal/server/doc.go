// Package server implements the MCP (Model Context Protocol) server for ECG
// printout classification.
//
// This package provides a JSON-RPC 2.0 server that exposes the ECG pipeline
// through the MCP protocol, so MCP-compatible clients can classify printouts
// and inspect the intermediate results.
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
// Classification:
//   - ecg_classify: Image to label, with per-lead report
//
// Feature Extraction:
//   - ecg_extract_features: Image to 3060-value feature vector
//   - ecg_segment_leads: Lead geometry and crop statistics
//
// Review Artifacts:
//   - ecg_export_previews: Write montages, masks, contour plots and CSVs
//   - ecg_preview_summary: Read back the per-lead summary of an export
//   - ecg_remove_previews: Delete the export directory of a run
//
// Models:
//   - ecg_classify_features: Feature vector to label
//   - ecg_model_info: Artifact dimensions and label table
//
// # Image Caching
//
// Canonical images are cached by path and reused across tool calls while
// the file is unchanged, so classifying and then exporting the same
// printout decodes it once. The cache is bounded (least recently used
// entries go first), and a path whose run failed is evicted at once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: RunErrorData for failed pipeline runs, otherwise the error string
package server
