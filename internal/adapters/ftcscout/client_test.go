package ftcscout_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/ebladvance/internal/adapters/ftcscout"
	"github.com/okian/ebladvance/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const meet1Body = `{"data":{"eventByCode":{"matches":[
 {"matchNum":2,
  "teams":[{"teamNumber":5214,"alliance":"Red","surrogate":false},{"teamNumber":11920,"alliance":"Red","surrogate":true},
           {"teamNumber":14770,"alliance":"Blue","surrogate":false},{"teamNumber":30473,"alliance":"Blue","surrogate":false}],
  "scores":{"red":{"totalPoints":50,"movementRp":1,"goalRp":0,"patternRp":0},
            "blue":{"totalPoints":50,"movementRp":0,"goalRp":1,"patternRp":1}}},
 {"matchNum":1,
  "teams":[{"teamNumber":5214,"alliance":"Blue","surrogate":false},{"teamNumber":14770,"alliance":"Red","surrogate":false}],
  "scores":{"red":{"totalPoints":30,"movementRp":0,"goalRp":0,"patternRp":0},
            "blue":{"totalPoints":90,"movementRp":1,"goalRp":1,"patternRp":0}}},
 {"matchNum":3,
  "teams":[{"teamNumber":5214,"alliance":"Red","surrogate":false}],
  "scores":null}
]}}}`

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func server(t *testing.T, handler func(code string) (int, string)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		code, _ := req.Variables["code"].(string)
		status, body := handler(code)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestEventMatches(t *testing.T) {
	Convey("Given an upstream that knows one event", t, func() {
		srv, _ := server(t, func(code string) (int, string) {
			switch code {
			case "USCANOEBM1":
				return http.StatusOK, meet1Body
			case "MISSING":
				return http.StatusOK, `{"data":{"eventByCode":null}}`
			case "BROKEN":
				return http.StatusOK, `{"errors":[{"message":"bad season"}]}`
			default:
				return http.StatusInternalServerError, "boom"
			}
		})
		c := ftcscout.New(srv.URL, 2025, ftcscout.WithRate(1000), ftcscout.WithTimeout(time.Second))
		ctx := context.Background()

		Convey("When fetching the known event", func() {
			ms, err := c.EventMatches(ctx, "USCANOEBM1")

			Convey("Then every match is decoded", func() {
				So(err, ShouldBeNil)
				So(ms, ShouldHaveLength, 3)
				So(ms[0].Teams[1].Surrogate, ShouldBeTrue)
				So(ms[2].Scored(), ShouldBeFalse)
			})
		})

		Convey("When the event is unknown", func() {
			_, err := c.EventMatches(ctx, "MISSING")
			So(errors.Is(err, ftcscout.ErrEventNotFound), ShouldBeTrue)
		})

		Convey("When the API returns GraphQL errors", func() {
			_, err := c.EventMatches(ctx, "BROKEN")
			So(errors.Is(err, ftcscout.ErrGraphQL), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "bad season")
		})

		Convey("When the API fails", func() {
			_, err := c.EventMatches(ctx, "OTHER")
			So(errors.Is(err, ftcscout.ErrUpstreamStatus), ShouldBeTrue)
		})
	})
}

func TestFetchLeague(t *testing.T) {
	Convey("Given an upstream serving two meets", t, func() {
		srv, calls := server(t, func(code string) (int, string) {
			if code == "USCANOEBM2" {
				return http.StatusOK, `{"data":{"eventByCode":{"matches":[]}}}`
			}
			return http.StatusOK, meet1Body
		})
		c := ftcscout.New(srv.URL, 2025, ftcscout.WithRate(1000), ftcscout.WithHTTPClient(srv.Client()))
		meets := []ftcscout.Meet{
			{Code: "USCANOEBM1", Prefix: "M1", Key: "meet1"},
			{Code: "USCANOEBM2", Prefix: "M2", Key: "meet2"},
		}

		Convey("When pulling the league", func() {
			data, err := c.FetchLeague(context.Background(), meets)
			So(err, ShouldBeNil)
			So(calls.Load(), ShouldEqual, 2)

			Convey("Then performances follow match number order", func() {
				want := []model.Performance{
					{MatchID: "M1-Q1", RankingPoints: 5, Score: 90},
					{MatchID: "M1-Q2", RankingPoints: 2, Score: 50},
				}
				So(cmp.Diff(want, data.Performances["5214"]), ShouldBeEmpty)
			})

			Convey("Then surrogates are recorded without ranking points or score", func() {
				So(data.Performances["11920"], ShouldResemble, []model.Performance{
					{MatchID: "M1-Q2", RankingPoints: 0, Score: 0, IsSurrogate: true},
				})
			})

			Convey("Then meets carry structured, scored matches only", func() {
				So(data.Meets["meet1"], ShouldHaveLength, 2)
				So(data.Meets["meet1"][1], ShouldResemble, model.MeetMatch{
					MatchNum: 2, Red: []string{"5214", "11920"}, Blue: []string{"14770", "30473"},
					RedScore: 50, BlueScore: 50, RedRP: 2, BlueRP: 3,
				})
				So(data.Meets["meet2"], ShouldBeEmpty)
				So(data.FetchedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When one meet fails", func() {
			bad, _ := server(t, func(code string) (int, string) {
				if code == "USCANOEBM2" {
					return http.StatusBadGateway, "down"
				}
				return http.StatusOK, meet1Body
			})
			c := ftcscout.New(bad.URL, 2025, ftcscout.WithRate(1000))

			_, err := c.FetchLeague(context.Background(), meets)

			Convey("Then the whole pull fails", func() {
				So(errors.Is(err, ftcscout.ErrUpstreamStatus), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "meet2")
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := c.FetchLeague(ctx, meets)
			So(err, ShouldNotBeNil)
		})
	})
}
