// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

func newEuropePMCServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	orig := europePMCBase
	europePMCBase = srv.URL
	t.Cleanup(func() { europePMCBase = orig })
	return srv
}

func TestEuropePMCSearch(t *testing.T) {
	newEuropePMCServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("query") != "vitamin d diabetes" {
			t.Errorf("query = %q", q.Get("query"))
		}
		if q.Get("format") != "json" {
			t.Errorf("format = %q", q.Get("format"))
		}
		if q.Get("pageSize") != "20" {
			t.Errorf("pageSize = %q, want default 20", q.Get("pageSize"))
		}
		if q.Get("resultType") != "core" {
			t.Errorf("resultType = %q", q.Get("resultType"))
		}
		fmt.Fprint(w, `{"resultList":{"result":[
			{"id":"11111111","title":"First","abstractText":"A.","pubYear":"2020"},
			{"id":"22222222","title":"Second","abstractText":"B.","pubYear":"2021"}
		]}}`)
	})

	src := &EuropePMCSource{Client: http.DefaultClient}
	raws, err := src.Search(context.Background(), "vitamin d diabetes", testRetrievalCfg())
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("len(raws) = %d, want 2", len(raws))
	}
	if raws[0]["id"] != "11111111" {
		t.Errorf("raws[0][id] = %v", raws[0]["id"])
	}
	if raws[0]["source"] != "europepmc" {
		t.Errorf("records should be tagged with their source, got %v", raws[0]["source"])
	}
}

func TestEuropePMCSearchEmpty(t *testing.T) {
	newEuropePMCServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resultList":{"result":[]}}`)
	})

	src := &EuropePMCSource{Client: http.DefaultClient}
	raws, err := src.Search(context.Background(), "nothing", testRetrievalCfg())
	if err != nil {
		t.Fatalf("Search() error = %v, want nil for zero results", err)
	}
	if len(raws) != 0 {
		t.Errorf("len(raws) = %d, want 0", len(raws))
	}
}

func TestEuropePMCSearchServerError(t *testing.T) {
	newEuropePMCServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	src := &EuropePMCSource{Client: http.DefaultClient}
	if _, err := src.Search(context.Background(), "q", testRetrievalCfg()); err == nil {
		t.Error("Search() = nil error, want HTTP status error")
	}
}

func TestFullTextLinks(t *testing.T) {
	raw := types.RawArticle{
		"fullTextUrlList": map[string]any{
			"fullTextUrl": []any{
				map[string]any{"url": "https://example.org/a.pdf", "documentStyle": "pdf"},
				map[string]any{"url": "https://example.org/a.html"},
				map[string]any{"documentStyle": "no-url"},
			},
		},
	}
	got := FullTextLinks(raw)
	want := []string{"https://example.org/a.pdf", "https://example.org/a.html"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FullTextLinks() = %v, want %v", got, want)
	}
}

func TestFullTextLinksAbsent(t *testing.T) {
	if got := FullTextLinks(types.RawArticle{"id": "1"}); got != nil {
		t.Errorf("FullTextLinks() = %v, want nil", got)
	}
}
