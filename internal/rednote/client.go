package rednote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"rednote-trends/internal/model"
)

// Client talks to the rednote post-feed service. The service owns
// authentication and anti-bot concerns; this client only consumes its
// JSON record shape.
type Client struct {
	baseURL string
	client  *http.Client
	token   string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		token:   token,
	}
}

// note is the subset of feed fields used by this service.
type note struct {
	NoteID  string `json:"note_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Stats   struct {
		Likes    int `json:"likes"`
		Comments int `json:"comments"`
		Collects int `json:"collects"`
		Shares   int `json:"shares"`
	} `json:"stats"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
}

type searchResponse struct {
	Notes []note `json:"notes"`
}

// Search fetches up to limit posts matching a keyword.
// API: GET /api/notes/search.json?keyword={kw}&limit={n}
func (c *Client) Search(ctx context.Context, keyword string, limit int) ([]model.Post, error) {
	endpoint := fmt.Sprintf("%s/api/notes/search.json", c.baseURL)
	q := url.Values{"keyword": {keyword}, "limit": {strconv.Itoa(limit)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rednote: status %d", resp.StatusCode)
	}
	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	posts := make([]model.Post, 0, len(raw.Notes))
	for _, n := range raw.Notes {
		posts = append(posts, model.Post{
			ID:          n.NoteID,
			Title:       n.Title,
			Text:        n.Content,
			Tags:        n.Tags,
			Likes:       n.Stats.Likes,
			Comments:    n.Stats.Comments,
			Collects:    n.Stats.Collects,
			Shares:      n.Stats.Shares,
			PublishedAt: n.PublishedAt,
		})
	}
	return posts, nil
}
