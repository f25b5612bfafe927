// Package ingest orchestrates one full refresh cycle: fetch every configured
// feed, score every article, then dedupe and sort into a single collection.
package ingest

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"news-trust/internal/feeds"
	"news-trust/internal/models"
	"news-trust/internal/sanitize"
	"news-trust/internal/scoring"

	"github.com/google/uuid"
)

const (
	// defaultPerFeedCap is the secondary cap applied when merging feeds;
	// the fetcher itself retains up to 1000 items.
	defaultPerFeedCap = 30

	// defaultScoreWorkers bounds concurrent calls to the scoring service.
	defaultScoreWorkers = 4

	// contentExcerptRunes is how much sanitized description the dashboard
	// keeps per article.
	contentExcerptRunes = 200
)

// FeedSource fetches the raw items of one feed.
type FeedSource interface {
	Fetch(ctx context.Context, feed models.FeedDescriptor) ([]feeds.Item, error)
}

// Scorer rates one (title, body) pair. Implementations never fail; they
// substitute a neutral result instead.
type Scorer interface {
	Score(ctx context.Context, title, body string) scoring.Result
}

// FeedOutcome records how one feed fared during a cycle.
type FeedOutcome struct {
	Feed     models.FeedDescriptor `json:"feed"`
	Articles int                   `json:"articles"`
	Error    string                `json:"error,omitempty"`
}

// Result is the outcome of one ingestion cycle. An empty Articles slice with
// Failed() == false means the feeds genuinely had nothing; Failed() == true
// means every feed failed, which the presentation layer shows differently
// from "no data".
type Result struct {
	Articles    []models.Article `json:"articles"`
	Feeds       []FeedOutcome    `json:"feeds"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
}

// Failed reports whether the whole cycle produced nothing because every
// feed failed.
func (r Result) Failed() bool {
	if len(r.Feeds) == 0 {
		return true
	}
	for _, outcome := range r.Feeds {
		if outcome.Error == "" {
			return false
		}
	}
	return true
}

// Pipeline wires the feed source and scorer into the refresh workflow.
type Pipeline struct {
	source     FeedSource
	scorer     Scorer
	feeds      []models.FeedDescriptor
	perFeedCap int
	workers    int
	now        func() time.Time
}

// Deps carries the pipeline's collaborators. Zero PerFeedCap and Workers
// get defaults.
type Deps struct {
	Source     FeedSource
	Scorer     Scorer
	Feeds      []models.FeedDescriptor
	PerFeedCap int
	Workers    int
	Now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps Deps) *Pipeline {
	p := &Pipeline{
		source:     deps.Source,
		scorer:     deps.Scorer,
		feeds:      deps.Feeds,
		perFeedCap: deps.PerFeedCap,
		workers:    deps.Workers,
		now:        deps.Now,
	}
	if p.perFeedCap <= 0 {
		p.perFeedCap = defaultPerFeedCap
	}
	if p.workers <= 0 {
		p.workers = defaultScoreWorkers
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Run executes one full cycle and never panics across its boundary: an
// unexpected panic yields an all-failed Result.
func (p *Pipeline) Run(ctx context.Context) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ ingestion cycle panicked: %v", r)
			result = Result{
				Feeds:       []FeedOutcome{},
				StartedAt:   result.StartedAt,
				CompletedAt: p.now(),
			}
		}
	}()

	result.StartedAt = p.now()
	log.Printf("🔄 Starting ingestion cycle (%d feeds)...", len(p.feeds))

	articles, outcomes := p.fetchAll(ctx)
	p.scoreAll(ctx, articles)

	articles = dedupeByTitle(articles)
	sortByPublishedDesc(articles)

	result.Articles = articles
	result.Feeds = outcomes
	result.CompletedAt = p.now()

	log.Printf("✅ Ingestion cycle complete: %d articles from %d feeds", len(articles), len(p.feeds))
	return result
}

// fetchAll runs stage one: every feed, sequentially, each failure local to
// its feed.
func (p *Pipeline) fetchAll(ctx context.Context) ([]models.Article, []FeedOutcome) {
	var all []models.Article
	outcomes := make([]FeedOutcome, 0, len(p.feeds))

	for _, feed := range p.feeds {
		outcome := FeedOutcome{Feed: feed}

		items, err := p.source.Fetch(ctx, feed)
		if err != nil {
			log.Printf("⚠️  feed %s yielded no articles: %v", feed.Name, err)
			outcome.Error = err.Error()
			outcomes = append(outcomes, outcome)
			continue
		}

		if len(items) > p.perFeedCap {
			items = items[:p.perFeedCap]
		}
		for _, item := range items {
			all = append(all, p.buildArticle(feed, item))
		}
		outcome.Articles = len(items)
		outcomes = append(outcomes, outcome)
		log.Printf("📡 %s: %d articles collected", feed.Name, len(items))
	}

	return all, outcomes
}

// buildArticle converts a raw feed item into an unscored article.
func (p *Pipeline) buildArticle(feed models.FeedDescriptor, item feeds.Item) models.Article {
	publishedAt, ok := feeds.ParsePubDate(item.PubDate)
	if !ok {
		publishedAt = p.now()
	}

	return models.Article{
		ID:          uuid.New(),
		Title:       sanitize.Clean(item.Title),
		Content:     sanitize.Truncate(sanitize.Clean(item.Description), contentExcerptRunes),
		Publisher:   feed.Name,
		Author:      fmt.Sprintf("%s staff", feed.Name),
		PublishedAt: publishedAt.UTC(),
		URL:         item.Link,
	}
}

// scoreAll runs stage two: one scoring call per article through a bounded
// worker pool. Results land in an index-aligned slice so each score stays
// associated with exactly its article regardless of completion order.
func (p *Pipeline) scoreAll(ctx context.Context, articles []models.Article) {
	if len(articles) == 0 {
		return
	}

	results := make([]scoring.Result, len(articles))
	jobCh := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(articles) {
		workers = len(articles)
	}

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobCh {
				if ctx.Err() != nil {
					results[idx] = scoring.Neutral()
					continue
				}
				results[idx] = p.scorer.Score(ctx, articles[idx].Title, articles[idx].Content)
			}
		}()
	}

	for idx := range articles {
		jobCh <- idx
	}
	close(jobCh)
	wg.Wait()

	for i := range articles {
		articles[i].ClickbaitRate = results[i].ClickbaitRate
		articles[i].Accuracy = results[i].Accuracy
		articles[i].Scored = results[i].Scored
	}
}

// dedupeByTitle keeps the first occurrence of each exact title. Identity is
// title equality regardless of publisher.
func dedupeByTitle(articles []models.Article) []models.Article {
	seen := make(map[string]struct{}, len(articles))
	out := articles[:0]
	for _, a := range articles {
		if _, dup := seen[a.Title]; dup {
			continue
		}
		seen[a.Title] = struct{}{}
		out = append(out, a)
	}
	return out
}

func sortByPublishedDesc(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}
