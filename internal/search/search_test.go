package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestFilterEducational(t *testing.T) {
	videos := []Video{
		{ID: "a", Title: "Lofi beats to relax", CategoryID: "10"},
		{ID: "b", Title: "Go tutorial for beginners", CategoryID: "10"},
		{ID: "c", Title: "Random vlog", CategoryID: "27"},
		{ID: "d", Title: "Science stuff", CategoryID: "28"},
		{ID: "e", Title: "ALGORITHMS EXPLAINED", CategoryID: "22"},
		{ID: "f", Title: "Cat compilation", CategoryID: "15"},
	}

	got := FilterEducational(videos)
	wantIDs := []string{"b", "c", "d", "e"}
	if len(got) != len(wantIDs) {
		t.Fatalf("expected %d results, got %d: %+v", len(wantIDs), len(got), got)
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("result %d = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestFilterEducationalEmpty(t *testing.T) {
	if got := FilterEducational(nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func searchPayload(items ...map[string]any) []byte {
	b, _ := json.Marshal(map[string]any{"items": items})
	return b
}

func item(id, title, channel, category string) map[string]any {
	return map[string]any{
		"id": map[string]any{"videoId": id},
		"snippet": map[string]any{
			"title":        title,
			"channelTitle": channel,
			"categoryId":   category,
		},
	}
}

func TestClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "sorting algorithms" {
			t.Errorf("unexpected query %q", q.Get("q"))
		}
		if q.Get("type") != "video" || q.Get("part") != "snippet" || q.Get("maxResults") != "20" {
			t.Errorf("unexpected params: %v", q)
		}
		if q.Get("key") != "test-key" {
			t.Errorf("missing api key")
		}
		w.Write(searchPayload(
			item("v1", "Sorting explained", "AlgoChannel", "27"),
			item("v2", "Music mix", "DJ", "10"),
		))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	videos, err := c.Search(context.Background(), "sorting algorithms")
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 || videos[0].ID != "v1" || videos[0].Channel != "AlgoChannel" {
		t.Fatalf("unexpected results: %+v", videos)
	}
}

func TestClientSearchRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "quota exceeded"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	if _, err := c.Search(context.Background(), "x"); err == nil {
		t.Fatal("expected remote error surfaced")
	}
}

func TestClientSearchNoEndpoint(t *testing.T) {
	c := NewClient("", "k")
	if _, err := c.Search(context.Background(), "x"); err == nil {
		t.Fatal("expected error without an endpoint")
	}
}

func TestSearcherSupersedesInFlight(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "slow" {
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		w.Write(searchPayload(item("v1", "Go lecture", "c", "27")))
	}))
	defer srv.Close()

	s := NewSearcher(NewClient(srv.URL, "k"))

	errs := make(chan error, 1)
	go func() {
		_, err := s.Search("slow")
		errs <- err
	}()

	// Give the first query time to reach the server before superseding it.
	time.Sleep(50 * time.Millisecond)

	videos, err := s.Search("fast")
	once.Do(func() { close(release) })
	if err != nil {
		t.Fatalf("newest query should complete: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected a result for the newest query, got %+v", videos)
	}

	select {
	case firstErr := <-errs:
		if !errors.Is(firstErr, context.Canceled) {
			t.Fatalf("superseded query should be cancelled, got %v", firstErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("superseded query never returned")
	}
}

func TestSearcherSequentialQueries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(searchPayload(item("v1", "lesson one", "c", "27")))
	}))
	defer srv.Close()

	s := NewSearcher(NewClient(srv.URL, "k"))
	for i := 0; i < 3; i++ {
		videos, err := s.Search("q")
		if err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
		if len(videos) != 1 {
			t.Fatalf("query %d: unexpected results %+v", i, videos)
		}
	}
}

func TestSearcherSetClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(searchPayload(item("v9", "new endpoint lesson", "c", "27")))
	}))
	defer srv.Close()

	s := NewSearcher(NewClient("", "k"))
	if _, err := s.Search("q"); err == nil {
		t.Fatal("expected error before an endpoint is configured")
	}

	s.SetClient(NewClient(srv.URL, "k"))
	videos, err := s.Search("q")
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 || videos[0].ID != "v9" {
		t.Fatalf("unexpected results: %+v", videos)
	}
}
