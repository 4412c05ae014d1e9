// Package stratz provides a minimal client for the STRATZ GraphQL API.
package stratz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is the STRATZ GraphQL endpoint; the API key is passed as the key query parameter.
const DefaultEndpoint = "https://api.stratz.com/graphql"

// ErrNoMatch is returned when the API answers without a match object.
var ErrNoMatch = errors.New("no match in response")

// StatusError is a non-200 HTTP answer.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %s", e.Status)
}

// Temporary reports whether retrying may help.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// GraphQLError carries the messages of a GraphQL errors array.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "GraphQL error: " + strings.Join(e.Messages, "; ")
}

// Client is a minimal STRATZ API client.
type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewClient returns a client for endpoint, or DefaultEndpoint when endpoint is empty.
func NewClient(apiKey, endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// BuildQuery returns the match query for one numeric id.
func BuildQuery(id string) string {
	return `query {
  match(id: ` + id + `) {
    leagueId
    direTeam { name }
    direTeamId
    radiantTeam { name }
    radiantTeamId
    durationSeconds
    players {
      playbackData {
        itemUsedEvents { time itemId }
        playerUpdatePositionEvents { time x y }
      }
      hero { displayName }
      steamAccountId
      isRadiant
      stats {
        wards { time type positionX positionY }
      }
    }
  }
}`
}

type gqlResponse struct {
	Data *struct {
		Match json.RawMessage `json:"match"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) url() string {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return c.endpoint
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchMatch runs the match query for id and returns the raw match object. A players
// field that is missing or not a list is replaced with an empty list.
func (c *Client) FetchMatch(ctx context.Context, id string) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]string{"query": BuildQuery(id)})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST match %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var out gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode match %s: %w", id, err)
	}
	if len(out.Errors) > 0 {
		gerr := &GraphQLError{}
		for _, e := range out.Errors {
			gerr.Messages = append(gerr.Messages, e.Message)
		}
		return nil, gerr
	}
	if out.Data == nil || len(out.Data.Match) == 0 || string(out.Data.Match) == "null" {
		return nil, ErrNoMatch
	}
	return ensurePlayers(out.Data.Match)
}

func ensurePlayers(match json.RawMessage) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(match, &obj); err != nil {
		return nil, fmt.Errorf("decode match object: %w", err)
	}
	if p := bytes.TrimSpace(obj["players"]); len(p) > 0 && p[0] == '[' {
		return match, nil
	}
	obj["players"] = json.RawMessage("[]")
	return json.Marshal(obj)
}
