// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/pkg/types"
)

// eutilsBase is the NCBI E-Utilities endpoint. Declared as a var so tests
// can substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

const (
	defaultPageSize       = 500
	defaultFetchBatchSize = 100
)

// PubMedSource queries PubMed through E-Utilities in two phases (R4.1):
// ESearch pages through all matching PMIDs, then EFetch downloads article
// details in fixed-size batches.
type PubMedSource struct {
	Client *http.Client
	// Progress receives per-page and per-batch status lines; nil means silent.
	Progress io.Writer
}

// Name returns the source identifier.
func (s *PubMedSource) Name() string { return "pubmed" }

// Search runs identifier discovery and detail fetch for the query. A query
// matching nothing returns an empty slice, not an error (R4.3). A batch
// that fails to fetch or parse is logged and skipped; remaining batches
// still run (R4.5).
func (s *PubMedSource) Search(ctx context.Context, query string, cfg types.RetrievalConfig) ([]types.RawArticle, error) {
	pmids, err := s.searchIDs(ctx, query, cfg)
	if err != nil {
		return nil, err
	}
	if len(pmids) == 0 {
		return nil, nil
	}
	if cfg.MaxResults > 0 && len(pmids) > cfg.MaxResults {
		pmids = pmids[:cfg.MaxResults]
	}
	return s.fetchDetails(ctx, pmids, cfg)
}

// searchIDs pages through ESearch until a page comes back short or empty,
// accumulating every PMID (R4.2).
func (s *PubMedSource) searchIDs(ctx context.Context, query string, cfg types.RetrievalConfig) ([]string, error) {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var all []string
	for retstart := 0; ; retstart += pageSize {
		params := url.Values{
			"db":       {"pubmed"},
			"term":     {query},
			"retstart": {fmt.Sprintf("%d", retstart)},
			"retmax":   {fmt.Sprintf("%d", pageSize)},
			"retmode":  {"json"},
		}
		s.identify(params, cfg)

		body, err := s.get(ctx, eutilsBase+"/esearch.fcgi?"+params.Encode(), cfg)
		if err != nil {
			return nil, fmt.Errorf("ESearch page at %d: %w", retstart, err)
		}

		var er esearchResponse
		if err := json.Unmarshal(body, &er); err != nil {
			return nil, fmt.Errorf("parsing ESearch response: %w", err)
		}

		ids := er.Result.IDList
		if len(ids) == 0 {
			break
		}
		all = append(all, ids...)
		s.progressf("  pmids %d-%d\n", retstart, retstart+len(ids))

		if len(ids) < pageSize {
			break
		}
		if err := throttle(ctx, cfg); err != nil {
			return nil, err
		}
	}
	return all, nil
}

// fetchDetails downloads article records for the PMIDs in batches and
// converts them to raw records keyed the PubMed way.
func (s *PubMedSource) fetchDetails(ctx context.Context, pmids []string, cfg types.RetrievalConfig) ([]types.RawArticle, error) {
	batchSize := cfg.FetchBatchSize
	if batchSize <= 0 {
		batchSize = defaultFetchBatchSize
	}

	var out []types.RawArticle
	for i := 0; i < len(pmids); i += batchSize {
		end := i + batchSize
		if end > len(pmids) {
			end = len(pmids)
		}
		batch := pmids[i:end]

		params := url.Values{
			"db":      {"pubmed"},
			"id":      {strings.Join(batch, ",")},
			"retmode": {"xml"},
		}
		s.identify(params, cfg)

		s.progressf("  fetching details %d-%d of %d\n", i+1, end, len(pmids))

		body, err := s.get(ctx, eutilsBase+"/efetch.fcgi?"+params.Encode(), cfg)
		if err != nil {
			s.progressf("warning: pubmed: batch %d-%d failed: %v\n", i+1, end, err)
			continue
		}

		articles, err := parseEFetch(body)
		if err != nil {
			s.progressf("warning: pubmed: batch %d-%d unparseable: %v\n", i+1, end, err)
			continue
		}
		out = append(out, articles...)

		if end < len(pmids) {
			if err := throttle(ctx, cfg); err != nil {
				return out, err
			}
		}
	}
	return out, nil
}

// identify attaches the NCBI client-identification parameters.
func (s *PubMedSource) identify(params url.Values, cfg types.RetrievalConfig) {
	if cfg.Tool != "" {
		params.Set("tool", cfg.Tool)
	}
	if cfg.Email != "" {
		params.Set("email", cfg.Email)
	}
	if cfg.APIKey != "" {
		params.Set("api_key", cfg.APIKey)
	}
}

func (s *PubMedSource) get(ctx context.Context, reqURL string, cfg types.RetrievalConfig) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("E-Utilities returned HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *PubMedSource) progressf(format string, args ...any) {
	if s.Progress != nil {
		fmt.Fprintf(s.Progress, format, args...)
	}
}

// parseEFetch converts an EFetch XML payload into raw article records.
func parseEFetch(body []byte) ([]types.RawArticle, error) {
	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, err
	}

	var out []types.RawArticle
	for _, art := range set.Articles {
		var authors []string
		for _, a := range art.Authors {
			if a.LastName == "" {
				continue
			}
			authors = append(authors, strings.TrimSpace(a.LastName+" "+a.Initials))
		}

		abstract := strings.TrimSpace(strings.Join(art.AbstractParts, " "))

		year := art.PubYear
		if year == "" {
			year = art.MedlineDate
		}

		out = append(out, types.RawArticle{
			"pmid":     art.PMID,
			"title":    art.Title,
			"abstract": abstract,
			"journal":  art.Journal,
			"authors":  authors,
			"pubdate":  year,
			"source":   "pubmed",
		})
	}
	return out, nil
}

// ESearch JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// EFetch XML structures.
type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID          string         `xml:"MedlineCitation>PMID"`
	Title         string         `xml:"MedlineCitation>Article>ArticleTitle"`
	Journal       string         `xml:"MedlineCitation>Article>Journal>Title"`
	AbstractParts []string       `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	Authors       []pubmedAuthor `xml:"MedlineCitation>Article>AuthorList>Author"`
	PubYear       string         `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
	MedlineDate   string         `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>MedlineDate"`
}

type pubmedAuthor struct {
	LastName string `xml:"LastName"`
	Initials string `xml:"Initials"`
}
