package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-shopping-agent-be/internal/dto"
	"ai-shopping-agent-be/internal/mapper"
	"ai-shopping-agent-be/internal/model"
	"ai-shopping-agent-be/internal/pkg/logger"
	"ai-shopping-agent-be/internal/repository/memory"
	"ai-shopping-agent-be/internal/repository/specification"
	"ai-shopping-agent-be/internal/service"
	"ai-shopping-agent-be/pkg/ai/intent"
	"ai-shopping-agent-be/pkg/ai/router"
	"ai-shopping-agent-be/pkg/catalog"
	"ai-shopping-agent-be/pkg/events"
	"ai-shopping-agent-be/pkg/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductService(t *testing.T) service.IProductService {
	t.Helper()
	store, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	return service.NewProductService(store, catalog.NewSearcher(store, catalog.DefaultSearchConfig()), mapper.NewProductMapper())
}

func ptr(v int) *int { return &v }

func TestProductListFiltersAndSorts(t *testing.T) {
	svc := newProductService(t)
	ctx := context.Background()

	cards := svc.List(ctx, dto.ListProductsQuery{MaxPrice: ptr(30000), SortBy: "price_asc"})
	require.NotEmpty(t, cards)
	for i, c := range cards {
		assert.LessOrEqual(t, c.PriceINR, 30000)
		assert.LessOrEqual(t, len(c.KeyFeatures), mapper.MaxKeyFeatures)
		if i > 0 {
			assert.LessOrEqual(t, cards[i-1].PriceINR, c.PriceINR)
		}
	}

	limited := svc.List(ctx, dto.ListProductsQuery{Limit: 3})
	assert.Len(t, limited, 3)
	for i := 1; i < len(limited); i++ {
		assert.GreaterOrEqual(t, limited[i-1].Rating, limited[i].Rating)
	}

	for _, c := range svc.List(ctx, dto.ListProductsQuery{Brand: "samsung"}) {
		assert.Equal(t, "Samsung", c.Brand)
	}
}

func TestProductGetAndCompare(t *testing.T) {
	svc := newProductService(t)
	ctx := context.Background()

	detail, err := svc.Get(ctx, "pixel-8a")
	require.NoError(t, err)
	assert.Equal(t, "Google Pixel 8a", detail.FullName)

	_, err = svc.Get(ctx, "nokia-3310")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	cmp, err := svc.Compare(ctx, []string{"pixel-8a", "oneplus-12r"})
	require.NoError(t, err)
	assert.Len(t, cmp.Phones, 2)
	assert.Len(t, cmp.Highlights, len(catalog.HighlightOrder))

	_, err = svc.Compare(ctx, []string{"pixel-8a"})
	assert.ErrorIs(t, err, catalog.ErrCompareCount)
	_, err = svc.Compare(ctx, []string{"pixel-8a", "nokia-3310"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestProductSearchAndStats(t *testing.T) {
	svc := newProductService(t)
	ctx := context.Background()

	hits := svc.Search(ctx, "pixel", 1)
	require.Len(t, hits, 1)
	assert.Equal(t, "Google", hits[0].Brand)

	stats := svc.Stats(ctx)
	assert.Greater(t, stats.TotalPhones, 0)
	assert.LessOrEqual(t, stats.MinPrice, stats.AvgPrice)
	assert.Contains(t, svc.Brands(ctx).Brands, "Samsung")
}

func TestChatHistoryUnknownSession(t *testing.T) {
	log := logger.NewNopLogger()
	sessions := session.NewStore(memory.NewSessionRepository(time.Hour, 0), log)
	svc := service.NewChatService(nil, sessions, mapper.NewChatMapper(mapper.NewProductMapper()))

	_, err := svc.History(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	assert.ErrorIs(t, svc.DeleteHistory(context.Background(), "missing"), service.ErrSessionNotFound)

	sess := sessions.GetOrCreate("known")
	sessions.RecordTurn(sess, session.Turn{UserMessage: "hi", Response: "hello", Intent: "greeting"})

	history, err := svc.History(context.Background(), "known")
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "user", history.Messages[0].Role)
	require.NoError(t, svc.DeleteHistory(context.Background(), "known"))
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type evictions struct{ total int }

func (e *evictions) SessionsEvicted(n int) { e.total += n }

func TestCleanupEvictsIdleSessions(t *testing.T) {
	clk := &clock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	sessions := session.NewStore(memory.NewSessionRepository(24*time.Hour, 0), logger.NewNopLogger(), session.WithClock(clk.Now))
	rec := &evictions{}
	cleanup := service.NewCleanupService(sessions, time.Hour, time.Minute, rec, logger.NewNopLogger())

	sessions.GetOrCreate("old")
	clk.Advance(50 * time.Minute)
	sessions.GetOrCreate("fresh")
	clk.Advance(20 * time.Minute)

	assert.Equal(t, 1, cleanup.RunOnce())
	assert.Equal(t, 1, rec.total)
	_, ok := sessions.Get("old")
	assert.False(t, ok)
	_, ok = sessions.Get("fresh")
	assert.True(t, ok)
}

type fakeTurnLogs struct {
	mu   sync.Mutex
	logs []*model.TurnLog
	done chan struct{}
}

func (f *fakeTurnLogs) Create(_ context.Context, l *model.TurnLog) error {
	f.mu.Lock()
	f.logs = append(f.logs, l)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeTurnLogs) FindAll(context.Context, ...specification.Specification) ([]*model.TurnLog, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTurnLogs) CountByIntent(context.Context, ...specification.Specification) (map[string]int64, error) {
	return nil, errors.New("not implemented")
}

type failingForwarder struct{}

func (failingForwarder) Publish(context.Context, events.Event) error {
	return errors.New("broker down")
}

func TestTurnEventsFlowFromObserverToTurnLog(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.NewNopLogger()
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	defer pubSub.Close()

	chatMapper := mapper.NewChatMapper(mapper.NewProductMapper())
	repo := &fakeTurnLogs{done: make(chan struct{}, 1)}
	consumer := service.NewConsumerService(pubSub, "turn.completed", repo, failingForwarder{}, chatMapper, log)
	require.NoError(t, consumer.Consume(ctx))

	publisher := service.NewPublisherService("turn.completed", pubSub, chatMapper, log)
	publisher.ObserveTurn(ctx, &router.TurnResult{
		SessionID:           "s-42",
		Intent:              intent.LabelCompare,
		ReferencedEntityIDs: []string{"pixel-8a", "oneplus-12r"},
		Generated:           true,
	}, 250*time.Millisecond)

	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatal("turn log was never written")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.logs, 1)
	got := repo.logs[0]
	assert.Equal(t, "s-42", got.SessionId)
	assert.Equal(t, "compare", got.Intent)
	assert.Equal(t, []string{"pixel-8a", "oneplus-12r"}, []string(got.CandidateIds))
	assert.Equal(t, int64(250), got.LatencyMs)
	assert.True(t, got.Generated)
}
