// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litreview/0.1"). Per prd002-retrieval R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetrievalConfig holds settings for the retrieval stage.
// Per prd002-retrieval R1.4, R4.1-R4.4.
type RetrievalConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the number of articles carried into screening.
	// 0 means no cap.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PageSize is the identifier-discovery page size for ESearch (default 500).
	PageSize int `json:"page_size" yaml:"page_size"`

	// FetchBatchSize is the number of identifiers per EFetch call (default 100).
	FetchBatchSize int `json:"fetch_batch_size" yaml:"fetch_batch_size"`

	// RequestsPerSecond throttles successive calls to the same source.
	// 0 selects the NCBI default: 10 with an API key, 3 without.
	RequestsPerSecond int `json:"requests_per_second" yaml:"requests_per_second"`

	// Tool and Email identify the client to NCBI E-Utilities.
	Tool  string `json:"tool" yaml:"tool"`
	Email string `json:"email" yaml:"email"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// LLMBackend identifies the text-generation backend.
type LLMBackend string

const (
	BackendClaude LLMBackend = "claude"
	BackendGemini LLMBackend = "gemini"
)

// LLMConfig holds shared settings for stages that call a text-generation API
// (screening, mining, report synthesis). Per prd003-screening R4, prd004-mining R4.
type LLMConfig struct {
	// Backend selects the text-generation API: claude or gemini.
	Backend LLMBackend `json:"backend" yaml:"backend"`

	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the selected backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the reply length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// OutputConfig holds the artifact directories for one run.
// Per prd006-report R3: filtered.json and mined.json go to ProcessedDir,
// report.md to ReportDir, and the run index database to IndexDir.
type OutputConfig struct {
	ProcessedDir string `json:"processed_dir" yaml:"processed_dir"`
	ReportDir    string `json:"report_dir" yaml:"report_dir"`
	IndexDir     string `json:"index_dir" yaml:"index_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Output    OutputConfig    `json:"output" yaml:"output"`

	// DictionaryPath points at the abbreviation dictionary JSON.
	// A missing file disables expansion; it is not an error.
	DictionaryPath string `json:"dictionary_path" yaml:"dictionary_path"`

	// MeSHTerms overrides the built-in controlled-vocabulary substitution
	// table (lowercase substring → MeSH heading).
	MeSHTerms map[string]string `json:"mesh_terms,omitempty" yaml:"mesh_terms,omitempty"`
}
