// Package gateway provides access to the dashboard's data sources: the
// GitHub API for collecting statistics, the dashboard API for loading
// them, and the data files the API serves.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// RepoPRCount is the number of pull requests opened against a repository.
type RepoPRCount struct {
	NameWithOwner string
	PRCount       int
}

// PullRequestRef identifies a single pull request.
type PullRequestRef struct {
	Owner  string
	Repo   string
	Number int
}

func (p PullRequestRef) String() string {
	return fmt.Sprintf("%s/%s#%d", p.Owner, p.Repo, p.Number)
}

// Review is one submitted pull request review.
type Review struct {
	State       string
	SubmittedAt time.Time
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchRepositoryPRCounts(ctx context.Context, query string) ([]RepoPRCount, error)
	FetchPullRequests(ctx context.Context, query string) ([]PullRequestRef, error)
	FetchReviews(ctx context.Context, pr PullRequestRef) ([]Review, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// searchRepositoriesQuery lists repositories together with their PR totals.
type searchRepositoriesQuery struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Edges []struct {
			Node struct {
				Typename   string `graphql:"__typename"`
				Repository struct {
					NameWithOwner string
					PullRequests  struct {
						TotalCount int
					}
				} `graphql:"... on Repository"`
			}
		}
	} `graphql:"search(query: $query, type: REPOSITORY, first: 100, after: $cursor)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchRepositoryPRCounts searches repositories and reads their total PR count.
func (g *GitHubGateway) FetchRepositoryPRCounts(ctx context.Context, query string) ([]RepoPRCount, error) {
	g.logger.Println("[1/3] Fetching repository PR counts using GraphQL API...")
	variables := map[string]interface{}{"query": githubv4.String(query), "cursor": (*githubv4.String)(nil)}
	var counts []RepoPRCount
	for {
		var q searchRepositoriesQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL query for repositories: %w", err)
		}
		for _, edge := range q.Search.Edges {
			repo := edge.Node.Repository
			if repo.NameWithOwner == "" {
				continue
			}
			counts = append(counts, RepoPRCount{NameWithOwner: repo.NameWithOwner, PRCount: repo.PullRequests.TotalCount})
		}
		if !q.Search.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Search.PageInfo.EndCursor)
		g.logger.Println("  Fetching next page of repositories...")
	}
	g.logger.Printf("Completed fetching %d repositories for query: %s\n", len(counts), query)
	return counts, nil
}

// FetchPullRequests searches pull requests using the REST API.
func (g *GitHubGateway) FetchPullRequests(ctx context.Context, query string) ([]PullRequestRef, error) {
	g.logger.Println("[2/3] Fetching pull requests using REST API...")
	if !strings.Contains(query, "is:pr") {
		query += " is:pr"
	}
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var prs []PullRequestRef
	for {
		result, resp, err := g.restClient.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search pull requests with REST API: %w", err)
		}
		for _, issue := range result.Issues {
			owner, repo, ok := splitRepositoryURL(issue.GetRepositoryURL())
			if !ok {
				g.logger.Printf("  Skipping issue #%d with unexpected repository URL %q\n", issue.GetNumber(), issue.GetRepositoryURL())
				continue
			}
			prs = append(prs, PullRequestRef{Owner: owner, Repo: repo, Number: issue.GetNumber()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of pull requests...")
	}
	g.logger.Printf("Completed fetching %d pull requests.\n", len(prs))
	return prs, nil
}

// FetchReviews lists the submitted reviews of one pull request.
func (g *GitHubGateway) FetchReviews(ctx context.Context, pr PullRequestRef) ([]Review, error) {
	opts := &github.ListOptions{PerPage: 100}
	var reviews []Review
	for {
		page, resp, err := g.restClient.PullRequests.ListReviews(ctx, pr.Owner, pr.Repo, pr.Number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list reviews of %s: %w", pr, err)
		}
		for _, r := range page {
			if r.SubmittedAt == nil {
				continue // Pending reviews have not been submitted yet.
			}
			reviews = append(reviews, Review{State: r.GetState(), SubmittedAt: r.GetSubmittedAt().Time})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return reviews, nil
}

// splitRepositoryURL extracts owner and name from an API repository URL
// such as https://api.github.com/repos/owner/name.
func splitRepositoryURL(raw string) (owner, repo string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 3 || parts[len(parts)-3] != "repos" {
		return "", "", false
	}
	return parts[len(parts)-2], parts[len(parts)-1], true
}
