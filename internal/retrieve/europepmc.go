// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/pkg/types"
)

// europePMCBase is the Europe PMC REST search endpoint. Declared as a var
// so tests can substitute an httptest server.
var europePMCBase = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

const defaultEuropePMCPageSize = 20

// EuropePMCSource is the fallback literature source. It takes a free-text
// query (it has no PubMed field-tag grammar) and returns records under
// Europe PMC's own key names (id, abstractText, pubYear, journalTitle,
// authorString). Per prd002-retrieval R2.
type EuropePMCSource struct {
	Client *http.Client
	// PageSize overrides the number of results per search (default 20).
	PageSize int
}

// Name returns the source identifier.
func (s *EuropePMCSource) Name() string { return "europepmc" }

// Search queries Europe PMC and returns its result records verbatim as raw
// articles. Zero results is not an error.
func (s *EuropePMCSource) Search(ctx context.Context, query string, cfg types.RetrievalConfig) ([]types.RawArticle, error) {
	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = defaultEuropePMCPageSize
	}

	params := url.Values{
		"query":      {query},
		"format":     {"json"},
		"pageSize":   {fmt.Sprintf("%d", pageSize)},
		"resultType": {"core"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, europePMCBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Europe PMC request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Europe PMC returned HTTP %d", resp.StatusCode)
	}

	var er europePMCResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing Europe PMC response: %w", err)
	}

	out := make([]types.RawArticle, 0, len(er.ResultList.Result))
	for _, raw := range er.ResultList.Result {
		raw["source"] = "europepmc"
		out = append(out, raw)
	}
	return out, nil
}

// FullTextLinks extracts full-text URLs from a Europe PMC record, when the
// record carries any.
func FullTextLinks(raw types.RawArticle) []string {
	list, ok := raw["fullTextUrlList"].(map[string]any)
	if !ok {
		return nil
	}
	entries, ok := list["fullTextUrl"].([]any)
	if !ok {
		return nil
	}

	var links []string
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if u, ok := entry["url"].(string); ok && u != "" {
			links = append(links, u)
		}
	}
	return links
}

// Europe PMC JSON structures. Result records stay as raw maps because the
// schema varies by record type.
type europePMCResponse struct {
	ResultList europePMCResultList `json:"resultList"`
}

type europePMCResultList struct {
	Result []types.RawArticle `json:"result"`
}
