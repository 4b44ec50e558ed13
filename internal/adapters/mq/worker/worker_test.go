package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	worker "github.com/okian/ebladvance/internal/adapters/mq/worker"
	model "github.com/okian/ebladvance/internal/domain/model"
	logging "github.com/okian/ebladvance/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockFetcher struct {
	mu    sync.Mutex
	calls int
	err   error
	block chan struct{}
}

func (f *mockFetcher) FetchLeague(ctx context.Context) (model.LeagueData, error) {
	f.mu.Lock()
	f.calls++
	n, err, block := f.calls, f.err, f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return model.LeagueData{}, ctx.Err()
		}
	}
	if err != nil {
		return model.LeagueData{}, err
	}
	d := model.NewLeagueData()
	d.Performances["5214"] = []model.Performance{{MatchID: "M1-Q1", RankingPoints: n}}
	return d, nil
}

func (f *mockFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type mockSink struct {
	mu   sync.Mutex
	last model.LeagueData
	n    int
	err  error
}

func (s *mockSink) ReplaceLeague(_ context.Context, d model.LeagueData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.last = d
	s.n++
	return nil
}

func (s *mockSink) Stored() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestRefreshNow(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a refresher", t, func() {
		ctx := context.Background()
		f := &mockFetcher{}
		s := &mockSink{}
		r := worker.NewRefresher(f, s, worker.WithName("test-refresher"))

		convey.Convey("When a refresh succeeds", func() {
			err := r.RefreshNow(ctx)

			convey.Convey("Then the sink receives the pull and status is updated", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.Stored(), convey.ShouldEqual, 1)
				st := r.Status()
				convey.So(st.Runs, convey.ShouldEqual, 1)
				convey.So(st.LastError, convey.ShouldBeEmpty)
				convey.So(st.LastSuccess.IsZero(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the fetch fails", func() {
			f.err = errors.New("upstream down")
			err := r.RefreshNow(ctx)

			convey.Convey("Then nothing is stored and the error is kept", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(s.Stored(), convey.ShouldEqual, 0)
				convey.So(r.Status().LastError, convey.ShouldContainSubstring, "upstream down")
				convey.So(r.Status().LastSuccess.IsZero(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the sink fails", func() {
			s.err = errors.New("disk full")
			err := r.RefreshNow(ctx)

			convey.Convey("Then the error names the store", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "store league")
			})
		})
	})
}

func TestRefresherLoop(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a running refresher", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		f := &mockFetcher{}
		s := &mockSink{}
		r := worker.NewRefresher(f, s, worker.WithInterval(time.Hour))
		go r.Run(ctx)

		convey.Convey("Then it fetches on start", func() {
			convey.So(eventually(func() bool { return s.Stored() == 1 }), convey.ShouldBeTrue)
		})

		convey.Convey("Then a trigger causes another fetch", func() {
			convey.So(eventually(func() bool { return s.Stored() == 1 }), convey.ShouldBeTrue)
			convey.So(r.Trigger(), convey.ShouldBeTrue)
			convey.So(eventually(func() bool { return s.Stored() == 2 }), convey.ShouldBeTrue)
		})

		convey.Convey("Then shutdown stops the loop", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			convey.So(r.Shutdown(sctx), convey.ShouldBeNil)
			convey.So(r.Shutdown(sctx), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a refresher busy with a slow fetch", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		f := &mockFetcher{block: make(chan struct{})}
		s := &mockSink{}
		r := worker.NewRefresher(f, s, worker.WithInterval(time.Hour))
		go r.Run(ctx)
		convey.So(eventually(func() bool { return f.Calls() == 1 }), convey.ShouldBeTrue)

		convey.Convey("When triggered repeatedly", func() {
			first := r.Trigger()
			second := r.Trigger()

			convey.Convey("Then later triggers coalesce into the pending one", func() {
				convey.So(first, convey.ShouldBeTrue)
				convey.So(second, convey.ShouldBeFalse)
				close(f.block)
				convey.So(eventually(func() bool { return s.Stored() == 2 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutdown times out", func() {
			sctx, scancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer scancel()
			err := r.Shutdown(sctx)

			convey.Convey("Then it reports the timeout", func() {
				convey.So(err, convey.ShouldNotBeNil)
				close(f.block)
			})
		})
	})
}

func TestFetcherFunc(t *testing.T) {
	convey.Convey("FetcherFunc forwards to the function", t, func() {
		called := false
		var f worker.Fetcher = worker.FetcherFunc(func(context.Context) (model.LeagueData, error) {
			called = true
			return model.NewLeagueData(), nil
		})
		_, err := f.FetchLeague(context.Background())
		convey.So(err, convey.ShouldBeNil)
		convey.So(called, convey.ShouldBeTrue)
	})
}
