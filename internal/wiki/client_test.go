package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nmarceau/devine/internal/model"
)

func testConfig(serverURL string) model.WikiConfig {
	return model.WikiConfig{
		BaseURL:           serverURL + "/w/api.php",
		UserAgent:         "devine-test/0",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		RobotsCheck:       false,
	}
}

func TestCategoryMembers_FollowsContinuation(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		q := r.URL.Query()
		if q.Get("list") != "categorymembers" {
			t.Errorf("Expected list=categorymembers, got %s", q.Get("list"))
		}
		if q.Get("cmtitle") != "Catégorie:Test" {
			t.Errorf("Unexpected cmtitle: %s", q.Get("cmtitle"))
		}

		if q.Get("cmcontinue") == "" {
			fmt.Fprint(w, `{
				"continue": {"cmcontinue": "page|42"},
				"query": {"categorymembers": [
					{"title": "Jean Dupont", "ns": 0},
					{"title": "Catégorie:Acteurs", "ns": 14}
				]}
			}`)
		} else {
			fmt.Fprint(w, `{
				"query": {"categorymembers": [
					{"title": "Marie Curie", "ns": 0}
				]}
			}`)
		}
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), model.CacheConfig{})

	members, err := c.CategoryMembers(context.Background(), "Catégorie:Test")
	if err != nil {
		t.Fatalf("CategoryMembers failed: %v", err)
	}
	if requests != 2 {
		t.Errorf("Expected 2 requests (continuation), got %d", requests)
	}
	if len(members) != 3 {
		t.Fatalf("Expected 3 members, got %d", len(members))
	}
	if members[0].Title != "Jean Dupont" || members[0].IsCategory() {
		t.Errorf("Unexpected first member: %+v", members[0])
	}
	if !members[1].IsCategory() {
		t.Errorf("Expected second member to be a category: %+v", members[1])
	}
}

func TestCategoryMembers_InvalidCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": {"code": "invalidcategory", "info": "The category name you entered is not valid."}}`)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), model.CacheConfig{})

	_, err := c.CategoryMembers(context.Background(), "Pas une catégorie")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCategoryMembers_ServerFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), model.CacheConfig{})

	_, err := c.CategoryMembers(context.Background(), "Catégorie:Test")
	if err == nil {
		t.Fatal("Expected error on 503, got nil")
	}
}

func TestPageProfile_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("titles") != "Jean Dupont" {
			t.Errorf("Unexpected titles: %s", q.Get("titles"))
		}
		fmt.Fprint(w, `{
			"query": {"pages": {"123": {
				"title": "Jean Dupont",
				"extract": "<p><b>Jean Dupont</b> est un homme politique\nfrançais.</p>",
				"fullurl": "https://fr.wikipedia.org/wiki/Jean_Dupont"
			}}}
		}`)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), model.CacheConfig{})

	profile, err := c.PageProfile(context.Background(), "Jean Dupont")
	if err != nil {
		t.Fatalf("PageProfile failed: %v", err)
	}
	if profile.Name != "Jean Dupont" {
		t.Errorf("Unexpected name: %s", profile.Name)
	}
	if profile.Summary != "Jean Dupont est un homme politique français." {
		t.Errorf("Unexpected summary: %q", profile.Summary)
	}
	if profile.URL != "https://fr.wikipedia.org/wiki/Jean_Dupont" {
		t.Errorf("Unexpected URL: %s", profile.URL)
	}
}

func TestPageProfile_MissingPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query": {"pages": {"-1": {"title": "Personne", "missing": ""}}}}`)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), model.CacheConfig{})

	_, err := c.PageProfile(context.Background(), "Personne")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPageProfile_MissingExtractIsEmptySummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"query": {"pages": {"123": {
				"title": "Jean Dupont",
				"fullurl": "https://fr.wikipedia.org/wiki/Jean_Dupont"
			}}}
		}`)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), model.CacheConfig{})

	profile, err := c.PageProfile(context.Background(), "Jean Dupont")
	if err != nil {
		t.Fatalf("PageProfile failed: %v", err)
	}
	if profile.Summary != "" {
		t.Errorf("Expected empty summary, got %q", profile.Summary)
	}
}

func TestGet_CachesResponses(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"query": {"categorymembers": [{"title": "A", "ns": 0}]}}`)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), model.CacheConfig{Enabled: true, TTL: time.Minute})

	for i := 0; i < 3; i++ {
		if _, err := c.CategoryMembers(context.Background(), "Catégorie:Test"); err != nil {
			t.Fatalf("CategoryMembers failed: %v", err)
		}
	}
	if requests != 1 {
		t.Errorf("Expected 1 upstream request with cache enabled, got %d", requests)
	}
}

func TestGet_RobotsDisallowBlocks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /w/\n")
	})
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		t.Error("API must not be hit when robots.txt disallows it")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RobotsCheck = true
	c := NewClient(cfg, model.CacheConfig{})

	_, err := c.CategoryMembers(context.Background(), "Catégorie:Test")
	if err == nil {
		t.Fatal("Expected error when robots.txt disallows the API path")
	}
}

func TestFlattenHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"<p>Bonjour <b>le</b> monde.</p>", "Bonjour le monde."},
		{"<p>Un.</p><p>Deux.</p>", "Un. Deux."},
		{"texte brut", "texte brut"},
	}

	for _, tt := range tests {
		if got := FlattenHTML(tt.in); got != tt.want {
			t.Errorf("FlattenHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
