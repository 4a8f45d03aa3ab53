package test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"sort"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"luxestate/property"
	"luxestate/test/actors"
	"luxestate/test/infra"
)

var (
	flDuration    = flag.Duration("duration", 30*time.Second, "how long to churn the properties table")
	flConcurrency = flag.Int("concurrency", 4, "number of concurrent writers per role")
	flSeed        = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flDSN         = flag.String("dsn", "", "existing Postgres DSN to reuse (avoids Docker)")
)

// TestLiveQueryConcurrency churns the properties table with concurrent
// writers while a subscription consumes snapshots. Every snapshot must
// satisfy the subscription's filter, price bounds included, and be
// ordered newest first. After the writers stop, the stream must
// converge to the store's state.
func TestLiveQueryConcurrency(t *testing.T) {
	flag.Parse()
	seed := *flSeed
	rng := rand.New(rand.NewSource(seed))

	ctx, cancel := context.WithTimeout(context.Background(), *flDuration+120*time.Second)
	defer cancel()

	var (
		pgC        *infra.PGContainer
		dsn        string
		err        error
		usedShared bool
	)
	switch {
	case *flDSN != "":
		dsn = *flDSN
		usedShared = true
		pgC = &infra.PGContainer{}
	case os.Getenv("LIVE_TEST_PG_DSN") != "":
		dsn = os.Getenv("LIVE_TEST_PG_DSN")
		usedShared = true
		pgC = &infra.PGContainer{}
	default:
		if dockerAvailable(ctx) {
			pgC, dsn, err = infra.StartPostgres16(ctx, "")
			if err != nil {
				t.Fatalf("start postgres: %v", err)
			}
		} else {
			dsn, err = infra.InitLocalDatabase(ctx)
			if err != nil {
				t.Skipf("no Docker and no local Postgres: %v", err)
			}
			pgC = &infra.PGContainer{}
		}
	}
	defer pgC.Terminate(context.Background())

	pool, teardown, err := infra.ApplyMigrations(ctx, dsn, usedShared)
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	defer pool.Close()
	defer func() {
		if err := teardown(context.Background()); err != nil {
			t.Logf("teardown warning: %v", err)
		}
	}()

	city := fmt.Sprintf("Streamford-%d", rng.Int63())
	minBeds := 2
	minPrice := 100000.0
	maxPrice := 800000.0
	filter := property.Filter{
		City:     &city,
		Bedrooms: &minBeds,
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	}

	repo := property.NewRepository(pool)
	watcher := property.NewWatcher(pool, repo)

	subCtx, subCancel := context.WithCancel(ctx)
	defer subCancel()
	sub := watcher.Watch(subCtx, filter)
	defer sub.Close()

	// The consumer validates every snapshot and remembers the latest
	// visible ID set.
	var (
		mu        sync.Mutex
		latestIDs map[string]bool
		snapshots int
	)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for snapshot := range sub.Updates() {
			visible := filter.ApplyPriceBounds(snapshot)
			for _, p := range visible {
				if !filter.Matches(p) {
					t.Errorf("snapshot row violates filter (seed=%d): %+v", seed, p)
					return
				}
			}
			for i := 1; i < len(visible); i++ {
				if visible[i].CreatedAt.After(visible[i-1].CreatedAt) {
					t.Errorf("snapshot not ordered newest first (seed=%d)", seed)
					return
				}
			}
			ids := make(map[string]bool, len(visible))
			for _, p := range visible {
				ids[p.ID] = true
			}
			mu.Lock()
			latestIDs = ids
			snapshots++
			mu.Unlock()
		}
	}()

	// Writers churn the table for the configured duration.
	g, gctx := errgroup.WithContext(ctx)
	stop := make(chan struct{})
	for i := 0; i < *flConcurrency; i++ {
		listerRNG := rand.New(rand.NewSource(rng.Int63()))
		flipperRNG := rand.New(rand.NewSource(rng.Int63()))
		g.Go(func() error { return actors.Lister(gctx, pool, listerRNG, city, stop) })
		g.Go(func() error { return actors.Flipper(gctx, pool, flipperRNG, city, stop) })
	}
	removerRNG := rand.New(rand.NewSource(rng.Int63()))
	g.Go(func() error { return actors.Remover(gctx, pool, removerRNG, city, stop) })

	time.Sleep(*flDuration)
	close(stop)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("writers errored (seed=%d): %v", seed, err)
	}

	// A sentinel insert marks the final state; once its snapshot lands,
	// the stream and the store must agree.
	var sentinelID string
	err = pool.QueryRow(ctx, `
		INSERT INTO properties (title, description, price, city, bedrooms, bathrooms, sqft, property_type, agent_id)
		VALUES ('sentinel', 'final state marker', 400000, $1, 5, 3, 2400, 'house', 'agent-live')
		RETURNING id
	`, city).Scan(&sentinelID)
	if err != nil {
		t.Fatalf("insert sentinel: %v", err)
	}

	want, err := repo.Search(ctx, filter)
	if err != nil {
		t.Fatalf("final search: %v", err)
	}
	wantIDs := make(map[string]bool)
	for _, p := range filter.ApplyPriceBounds(want) {
		wantIDs[p.ID] = true
	}
	if !wantIDs[sentinelID] {
		t.Fatalf("sentinel does not satisfy the filter; test bug")
	}

	deadline := time.Now().Add(20 * time.Second)
	for {
		mu.Lock()
		got := latestIDs
		count := snapshots
		mu.Unlock()

		if got != nil && got[sentinelID] {
			if !sameIDs(got, wantIDs) {
				t.Fatalf("final snapshot diverges from store (seed=%d): got %v want %v", seed, keys(got), keys(wantIDs))
			}
			t.Logf("validated %d snapshots (seed=%d)", count, seed)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("sentinel snapshot never arrived after %d snapshots (seed=%d)", count, seed)
		}
		time.Sleep(100 * time.Millisecond)
	}

	sub.Close()
	<-consumerDone
	if err := sub.Err(); err != nil {
		t.Fatalf("subscription error (seed=%d): %v", seed, err)
	}
}

func sameIDs(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func dockerAvailable(ctx context.Context) bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	c := exec.CommandContext(ctx, "docker", "info")
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c.Run() == nil
}
