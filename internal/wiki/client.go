package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nmarceau/devine/internal/cache"
	"github.com/nmarceau/devine/internal/model"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// MediaWiki namespaces we care about
const (
	NamespaceArticle  = 0  // Leaf subject page
	NamespaceCategory = 14 // Nested category
)

// Member is one entry of a category listing
type Member struct {
	Title     string `json:"title"`
	Namespace int    `json:"ns"`
}

// IsCategory reports whether the member is a nested category
func (m Member) IsCategory() bool {
	return m.Namespace == NamespaceCategory
}

// Client queries a MediaWiki instance's action API
type Client struct {
	apiURL     string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *rate.Limiter

	robotsCheck bool
	robotsOnce  sync.Once
	robotsData  *robotstxt.RobotsData

	cache    cache.Cache
	cacheTTL time.Duration
}

// NewClient creates a client for the configured wiki instance
func NewClient(cfg model.WikiConfig, cacheCfg model.CacheConfig) *Client {
	apiURL := cfg.BaseURL
	if apiURL == "" {
		apiURL = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", cfg.Language)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	var respCache cache.Cache
	if cacheCfg.Enabled {
		respCache = cache.NewMemory(cacheCfg.TTL)
	}

	return &Client{
		apiURL: strings.TrimSuffix(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:   cfg.UserAgent,
		maxBytes:    maxBytes,
		limiter:     rate.NewLimiter(rate.Limit(rps), 2),
		robotsCheck: cfg.RobotsCheck,
		cache:       respCache,
		cacheTTL:    cacheCfg.TTL,
	}
}

// CategoryMembers lists the direct members of a category, following API
// continuation until the listing is complete. A category that does not exist
// yields model.ErrNotFound.
func (c *Client) CategoryMembers(ctx context.Context, title string) ([]Member, error) {
	var members []Member
	cont := ""

	for {
		params := url.Values{
			"action":  {"query"},
			"format":  {"json"},
			"list":    {"categorymembers"},
			"cmtitle": {title},
			"cmtype":  {"page|subcat"},
			"cmprop":  {"title|ns"},
			"cmlimit": {"500"},
		}
		if cont != "" {
			params.Set("cmcontinue", cont)
		}

		body, err := c.get(ctx, params)
		if err != nil {
			return nil, err
		}

		var resp struct {
			Continue struct {
				CmContinue string `json:"cmcontinue"`
			} `json:"continue"`
			Query struct {
				CategoryMembers []Member `json:"categorymembers"`
			} `json:"query"`
			Error *apiError `json:"error"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode category listing: %w", err)
		}
		if resp.Error != nil {
			if resp.Error.Code == "invalidcategory" || resp.Error.Code == "invalidtitle" {
				return nil, model.ErrNotFound
			}
			return nil, fmt.Errorf("api error: %s: %s", resp.Error.Code, resp.Error.Info)
		}

		members = append(members, resp.Query.CategoryMembers...)

		if resp.Continue.CmContinue == "" {
			break
		}
		cont = resp.Continue.CmContinue
	}

	return members, nil
}

// PageProfile resolves a page into a subject profile: canonical title, lead
// extract flattened to plain text, and the canonical URL. Missing pages yield
// model.ErrNotFound. A missing extract is an empty summary, not an error.
func (c *Client) PageProfile(ctx context.Context, title string) (model.SubjectProfile, error) {
	params := url.Values{
		"action":    {"query"},
		"format":    {"json"},
		"prop":      {"extracts|info"},
		"exintro":   {"1"},
		"inprop":    {"url"},
		"redirects": {"1"},
		"titles":    {title},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return model.SubjectProfile{}, err
	}

	var resp struct {
		Query struct {
			Pages map[string]struct {
				Title   string  `json:"title"`
				Missing *string `json:"missing"`
				Extract string  `json:"extract"`
				FullURL string  `json:"fullurl"`
			} `json:"pages"`
		} `json:"query"`
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.SubjectProfile{}, fmt.Errorf("decode page: %w", err)
	}
	if resp.Error != nil {
		return model.SubjectProfile{}, fmt.Errorf("api error: %s: %s", resp.Error.Code, resp.Error.Info)
	}

	for id, page := range resp.Query.Pages {
		if id == "-1" || page.Missing != nil {
			return model.SubjectProfile{}, model.ErrNotFound
		}
		return model.SubjectProfile{
			Name:    page.Title,
			Summary: FlattenHTML(page.Extract),
			URL:     page.FullURL,
		}, nil
	}

	return model.SubjectProfile{}, model.ErrNotFound
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// get performs a rate-limited, robots-gated, cached API request
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := c.apiURL + "?" + params.Encode()

	if c.cache != nil {
		if body, found := c.cache.Get(cache.Key(reqURL)); found {
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	if c.robotsCheck && !c.allowed(ctx) {
		return nil, fmt.Errorf("blocked by robots.txt: %s", c.apiURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if c.cache != nil {
		c.cache.Set(cache.Key(reqURL), body, c.cacheTTL)
	}

	return body, nil
}

// allowed checks robots.txt once per client. Unreachable or malformed
// robots.txt allows by default.
func (c *Client) allowed(ctx context.Context) bool {
	c.robotsOnce.Do(func() {
		parsed, err := url.Parse(c.apiURL)
		if err != nil {
			return
		}
		robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
		if err != nil {
			return
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := robotstxt.FromResponse(resp)
		if err != nil {
			return
		}
		c.robotsData = data
	})

	if c.robotsData == nil {
		return true
	}

	parsed, err := url.Parse(c.apiURL)
	if err != nil {
		return true
	}
	return c.robotsData.TestAgent(parsed.Path, c.userAgent)
}
