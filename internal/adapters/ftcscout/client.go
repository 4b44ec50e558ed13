// Package ftcscout pulls league meet results from the FTCScout GraphQL API.
package ftcscout

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/okian/ebladvance/internal/domain/model"
	"github.com/okian/ebladvance/internal/domain/scoring"
	"github.com/okian/ebladvance/pkg/logger"
	"github.com/okian/ebladvance/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultRate      = 2
	maxResponseBytes = 8 << 20
)

// Meet identifies one league meet upstream.
type Meet struct {
	Code   string
	Prefix string
	Key    string
}

// Client talks to the FTCScout GraphQL endpoint.
type Client struct {
	url     string
	season  int
	http    *http.Client
	limiter *rate.Limiter
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRate paces requests to perSecond with a burst of one.
func WithRate(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a client for the endpoint and season.
func New(url string, season int, opts ...Option) *Client {
	c := &Client{
		url:     url,
		season:  season,
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(defaultRate, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EventMatches returns the matches of one event.
func (c *Client) EventMatches(ctx context.Context, code string) ([]Match, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(gqlRequest{
		Query:     eventMatchesQuery,
		Variables: map[string]any{"code": code, "season": c.season},
	})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s: %d %s", ErrUpstreamStatus, code, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out gqlResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", code, err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, len(out.Errors))
		for i, e := range out.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrGraphQL, code, strings.Join(msgs, "; "))
	}
	if out.Data.EventByCode == nil {
		return nil, fmt.Errorf("%w: %s season %d", ErrEventNotFound, code, c.season)
	}
	return out.Data.EventByCode.Matches, nil
}

// FetchLeague pulls every meet concurrently and derives league data. Any
// failed meet fails the whole pull so partial results never replace a
// complete one.
func (c *Client) FetchLeague(ctx context.Context, meets []Meet) (model.LeagueData, error) {
	results := make([][]Match, len(meets))

	g, gCtx := errgroup.WithContext(ctx)
	for i, m := range meets {
		g.Go(func() error {
			start := time.Now()
			matches, err := c.EventMatches(gCtx, m.Code)
			metrics.RecordFetch(m.Key, float64(time.Since(start).Milliseconds()), err)
			if err != nil {
				return fmt.Errorf("meet %s: %w", m.Key, err)
			}
			if c.log != nil {
				c.log.Debug(gCtx, "fetched meet",
					logger.String("meet", m.Key),
					logger.Int("matches", len(matches)),
					logger.Duration("took", time.Since(start)),
				)
			}
			results[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.LeagueData{}, err
	}

	data := model.NewLeagueData()
	data.FetchedAt = time.Now().UTC()
	for i, m := range meets {
		Merge(&data, m, results[i])
	}
	return data, nil
}

// Merge folds one meet's matches into data. Unscored matches are skipped.
func Merge(data *model.LeagueData, meet Meet, matches []Match) {
	sorted := slices.Clone(matches)
	slices.SortStableFunc(sorted, func(a, b Match) int { return cmp.Compare(a.MatchNum, b.MatchNum) })

	structured := make([]model.MeetMatch, 0, len(sorted))
	for _, m := range sorted {
		if !m.Scored() {
			continue
		}
		red, blue := m.Scores.Red.Result(), m.Scores.Blue.Result()

		redTeams, blueTeams := []string{}, []string{}
		id := fmt.Sprintf("%s-Q%d", meet.Prefix, m.MatchNum)
		for _, t := range m.Teams {
			num := strconv.Itoa(t.TeamNumber)
			own, opp := blue, red
			if t.Alliance == AllianceRed {
				own, opp = red, blue
				redTeams = append(redTeams, num)
			} else {
				blueTeams = append(blueTeams, num)
			}
			data.Performances[num] = append(data.Performances[num], scoring.ForTeam(id, own, opp, t.Surrogate))
		}
		structured = append(structured, scoring.MeetMatch(m.MatchNum, redTeams, blueTeams, red, blue))
	}
	data.Meets[meet.Key] = structured
}
