package service

import (
	"context"
	"fmt"

	"github.com/okian/ebladvance/internal/adapters/ftcscout"
	"github.com/okian/ebladvance/internal/adapters/mq/worker"
	"github.com/okian/ebladvance/internal/adapters/repository"
	"github.com/okian/ebladvance/internal/config"
	"github.com/okian/ebladvance/internal/domain/model"
	"github.com/okian/ebladvance/pkg/logger"
)

// Runtime is a fully wired service with the components it owns.
type Runtime struct {
	Store     repository.Store
	Client    *ftcscout.Client
	Refresher *worker.Refresher
	Service   *Service
}

// Bootstrap opens the store and wires the upstream client, the refresher,
// and the service from cfg. The refresher is not started.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	store, err := repository.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	client := ftcscout.New(cfg.FTCScoutURL, cfg.Season,
		ftcscout.WithTimeout(cfg.FetchTimeout),
		ftcscout.WithRate(cfg.FetchRatePerSecond),
		ftcscout.WithLogger(logger.Named("ftcscout")),
	)
	meets := upstreamMeets(cfg.Meets)
	fetch := worker.FetcherFunc(func(ctx context.Context) (model.LeagueData, error) {
		return client.FetchLeague(ctx, meets)
	})
	refresher := worker.NewRefresher(fetch, store,
		worker.WithInterval(cfg.RefreshInterval),
		worker.WithName("league-refresher"),
	)

	svc := New(store, cfg.Teams,
		WithRefresher(refresher),
		WithMeets(cfg.Meets),
		WithAdvanceSlots(cfg.AdvanceSlots),
		WithLogger(logger.Named("service")),
	)
	return &Runtime{Store: store, Client: client, Refresher: refresher, Service: svc}, nil
}

// Close releases the store.
func (r *Runtime) Close() error {
	return r.Store.Close()
}

func upstreamMeets(meets []config.Meet) []ftcscout.Meet {
	out := make([]ftcscout.Meet, len(meets))
	for i, m := range meets {
		out[i] = ftcscout.Meet{Code: m.Code, Prefix: m.Prefix, Key: m.Key}
	}
	return out
}
