package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/ebladvance/internal/adapters/http/api"
	"github.com/okian/ebladvance/internal/adapters/repository"
	app "github.com/okian/ebladvance/internal/app"
	"github.com/okian/ebladvance/internal/config"
	"github.com/okian/ebladvance/pkg/logger"
	"github.com/okian/ebladvance/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When loading configuration from the environment", func() {
			_ = os.Setenv("EBL_ADDR", ":8080")
			_ = os.Setenv("EBL_DB_PATH", repository.MemoryPath)
			_ = os.Setenv("EBL_ADVANCE_SLOTS", "3")
			defer func() {
				_ = os.Unsetenv("EBL_ADDR")
				_ = os.Unsetenv("EBL_DB_PATH")
				_ = os.Unsetenv("EBL_ADVANCE_SLOTS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DBPath, convey.ShouldEqual, repository.MemoryPath)
				convey.So(cfg.AdvanceSlots, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When wiring the runtime over an in-memory store", func() {
			cfg := config.New()
			cfg.DBPath = repository.MemoryPath
			rt, err := app.Bootstrap(context.Background(), cfg)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = rt.Close() }()

			srv := newHTTPServer(":0", api.NewServer(rt.Service).Router())

			convey.Convey("Then the server carries the configured timeouts", func() {
				convey.So(srv.ReadTimeout, convey.ShouldEqual, readTimeout)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, writeTimeout)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			})

			convey.Convey("And every rostered team is served", func() {
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/teams", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"number":"5214"`)
			})
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the metrics registry", t, func() {
		convey.Convey("When system metrics are updated", func() {
			updateSystemMetrics()

			convey.Convey("Then the gauges are registered", func() {
				families, err := metrics.GetRegistry().Gather()
				convey.So(err, convey.ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				convey.So(names["ebl_standings_system_goroutine_count"], convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the updater's context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			cancel()

			convey.Convey("Then it returns", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					t.Fatal("updater did not stop")
				}
			})
		})
	})
}
