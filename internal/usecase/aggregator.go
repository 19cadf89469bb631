// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/naka-gawa/pr-dashboard/internal/domain"
	"github.com/naka-gawa/pr-dashboard/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// Review categories of the stacked charts, bottom of the stack first.
const (
	CategoryCommented        = "commented"
	CategoryChangesRequested = "changes_requested"
	CategoryApproved         = "approved"
)

// ReviewCategories is the stacked chart schema's category order.
var ReviewCategories = []string{CategoryCommented, CategoryChangesRequested, CategoryApproved}

var reviewStateCategory = map[string]string{
	"COMMENTED":         CategoryCommented,
	"CHANGES_REQUESTED": CategoryChangesRequested,
	"APPROVED":          CategoryApproved,
}

const (
	defaultBucketWidth       = 2
	defaultReviewConcurrency = 4
	weekLayout               = "2006-01-02"
)

// Options selects what the aggregator collects.
type Options struct {
	// RepoQuery is a GitHub repository search query. Empty skips the bar chart data.
	RepoQuery string
	// PRQuery is a GitHub issue search query for pull requests. Empty skips
	// the stacked chart data.
	PRQuery           string
	BucketWidth       int
	ReviewConcurrency int
}

// Aggregator is the use case for collecting dashboard statistics from GitHub.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Aggregate fetches repository PR counts and pull request reviews
// concurrently and shapes them into the dashboard payload.
func (a *Aggregator) Aggregate(ctx context.Context, opts Options) (*domain.Payload, error) {
	a.logger.Println("Usecase: Starting data aggregation...")

	var repoCounts []gateway.RepoPRCount
	var reviews []gateway.Review

	eg, egCtx := errgroup.WithContext(ctx)

	if opts.RepoQuery != "" {
		eg.Go(func() error {
			var err error
			repoCounts, err = a.fetcher.FetchRepositoryPRCounts(egCtx, opts.RepoQuery)
			return err
		})
	}

	if opts.PRQuery != "" {
		eg.Go(func() error {
			var err error
			reviews, err = a.fetchReviews(egCtx, opts.PRQuery, opts.ReviewConcurrency)
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	a.logger.Println("Usecase: All data fetched successfully.")

	payload := &domain.Payload{
		BarData:     BucketRepositories(repoCounts, opts.BucketWidth),
		StackedData: WeeklyReviewCategories(reviews),
		Schema: domain.Schema{
			KeyField:   domain.FieldWeek,
			Categories: append([]string(nil), ReviewCategories...),
		},
	}

	a.logger.Println("Usecase: Aggregation complete.")
	return payload, nil
}

// fetchReviews lists the matching pull requests, then their reviews with
// at most concurrency requests in flight.
func (a *Aggregator) fetchReviews(ctx context.Context, query string, concurrency int) ([]gateway.Review, error) {
	prs, err := a.fetcher.FetchPullRequests(ctx, query)
	if err != nil {
		return nil, err
	}
	a.logger.Printf("[3/3] Fetching reviews of %d pull requests...\n", len(prs))

	if concurrency <= 0 {
		concurrency = defaultReviewConcurrency
	}
	perPR := make([][]gateway.Review, len(prs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, pr := range prs {
		i, pr := i, pr
		eg.Go(func() error {
			reviews, err := a.fetcher.FetchReviews(egCtx, pr)
			if err != nil {
				return err
			}
			perPR[i] = reviews
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []gateway.Review
	for _, reviews := range perPR {
		all = append(all, reviews...)
	}
	return all, nil
}

// BucketRepositories counts repositories per PR-count range. Ranges are
// width wide and contiguous from zero up to the largest count, so the
// chart shows empty ranges too.
func BucketRepositories(repos []gateway.RepoPRCount, width int) []domain.SimpleRecord {
	if len(repos) == 0 {
		return nil
	}
	if width < 1 {
		width = defaultBucketWidth
	}
	maxCount := 0
	for _, r := range repos {
		maxCount = max(maxCount, r.PRCount)
	}
	buckets := make([]domain.SimpleRecord, maxCount/width+1)
	for i := range buckets {
		buckets[i].Category = bucketLabel(i, width)
	}
	for _, r := range repos {
		buckets[max(r.PRCount, 0)/width].Count++
	}
	return buckets
}

func bucketLabel(i, width int) string {
	low := i * width
	if width == 1 {
		return fmt.Sprint(low)
	}
	return fmt.Sprintf("%d-%d", low, low+width-1)
}

// WeeklyReviewCategories counts reviews per week and category. Weeks start
// on Monday (UTC) and run contiguously from the first to the last review.
// Reviews in states outside ReviewCategories are ignored.
func WeeklyReviewCategories(reviews []gateway.Review) []domain.MultiRecord {
	counts := make(map[time.Time]map[string]float64)
	for _, r := range reviews {
		category, ok := reviewStateCategory[r.State]
		if !ok {
			continue
		}
		week := weekStart(r.SubmittedAt)
		if counts[week] == nil {
			counts[week] = make(map[string]float64, len(ReviewCategories))
		}
		counts[week][category]++
	}
	if len(counts) == 0 {
		return nil
	}

	weeks := make([]time.Time, 0, len(counts))
	for w := range counts {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	var records []domain.MultiRecord
	for w := weeks[0]; !w.After(weeks[len(weeks)-1]); w = w.AddDate(0, 0, 7) {
		values := make(map[string]float64, len(ReviewCategories))
		for _, c := range ReviewCategories {
			values[c] = counts[w][c]
		}
		records = append(records, domain.MultiRecord{Key: w.Format(weekLayout), Values: values})
	}
	return records
}

// weekStart returns midnight UTC of the Monday on or before t.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
