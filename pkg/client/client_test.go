package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	kv "github.com/okian/brainmark/internal/adapters/kv"
	"github.com/okian/brainmark/internal/domain/evaluation"
	"github.com/okian/brainmark/internal/domain/fingerprint"
	types "github.com/okian/brainmark/internal/domain/types"
	client "github.com/okian/brainmark/pkg/client"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSubmitResult(t *testing.T) {
	Convey("Given a server that accepts scores", t, func() {
		var received map[string]any
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/scores" || r.Method != http.MethodPost {
				http.NotFound(w, r)
				return
			}
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"accepted"}`))
		}))
		defer ts.Close()

		c := client.New(ts.URL, client.WithKV(kv.NewMemory()))

		Convey("When submitting a typing result", func() {
			sub, err := c.SubmitResult(context.Background(), types.Typing, 72, map[string]any{"accuracy": 0.97})

			Convey("Then the upload succeeds with a local evaluation", func() {
				So(err, ShouldBeNil)
				So(sub.Uploaded, ShouldBeTrue)
				So(sub.NewBest, ShouldBeTrue)
				So(sub.Evaluation.Level, ShouldEqual, evaluation.Excellent)
			})

			Convey("Then the request carries identity and metadata", func() {
				So(received["testType"], ShouldEqual, "typing")
				So(received["result"], ShouldEqual, 72.0)
				So(received["fingerprint"], ShouldEqual, c.Fingerprint())
				So(received["anonymousId"], ShouldStartWith, "anon_")
				meta, ok := received["metadata"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(meta["accuracy"], ShouldEqual, 0.97)
			})

			Convey("Then the best score is recorded locally", func() {
				best, ok := c.BestScore(types.Typing)
				So(ok, ShouldBeTrue)
				So(best.Score, ShouldEqual, 72)
			})

			Convey("And a worse follow-up is not a new best", func() {
				again, err := c.SubmitResult(context.Background(), types.Typing, 60, nil)
				So(err, ShouldBeNil)
				So(again.NewBest, ShouldBeFalse)
				best, _ := c.BestScore(types.Typing)
				So(best.Score, ShouldEqual, 72)
			})

			Convey("And the anonymous ID is stable across submissions", func() {
				first := received["anonymousId"]
				_, err := c.SubmitResult(context.Background(), types.Typing, 60, nil)
				So(err, ShouldBeNil)
				So(received["anonymousId"], ShouldEqual, first)
			})
		})

		Convey("When submitting an unknown test type", func() {
			sub, err := c.SubmitResult(context.Background(), types.TestType("telepathy"), 50, nil)

			Convey("Then it fails locally before any upload", func() {
				So(sub, ShouldBeNil)
				var se *client.SubmissionError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Kind, ShouldEqual, client.KindValidation)
			})
		})
	})

	Convey("Given a server that rate limits", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":"rate_limited","message":"please wait before submitting again"}`))
		}))
		defer ts.Close()

		c := client.New(ts.URL, client.WithKV(kv.NewMemory()))

		Convey("When submitting", func() {
			sub, err := c.SubmitResult(context.Background(), types.Typing, 72, nil)

			Convey("Then the rejection is classified but the result survives", func() {
				var se *client.SubmissionError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Kind, ShouldEqual, client.KindRateLimited)
				So(se.StatusCode, ShouldEqual, http.StatusTooManyRequests)

				So(sub, ShouldNotBeNil)
				So(sub.Uploaded, ShouldBeFalse)
				So(sub.Evaluation.Level, ShouldEqual, evaluation.Excellent)
				So(sub.NewBest, ShouldBeTrue)
			})
		})
	})

	Convey("Given a server that errors", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		c := client.New(ts.URL, client.WithKV(kv.NewMemory()))

		Convey("When submitting", func() {
			sub, err := c.SubmitResult(context.Background(), types.Typing, 72, nil)

			Convey("Then the error is a server-kind failure", func() {
				var se *client.SubmissionError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Kind, ShouldEqual, client.KindServer)
				So(err.Error(), ShouldEqual, "score upload failed, result kept locally")
				So(sub.Uploaded, ShouldBeFalse)
			})
		})
	})

	Convey("Given an unreachable server", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		ts.Close() // connection refused from here on

		c := client.New(ts.URL, client.WithKV(kv.NewMemory()))

		Convey("When submitting", func() {
			sub, err := c.SubmitResult(context.Background(), types.Typing, 72, nil)

			Convey("Then the failure is transient and the result is kept", func() {
				var se *client.SubmissionError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Kind, ShouldEqual, client.KindTransient)
				So(sub, ShouldNotBeNil)
				So(sub.NewBest, ShouldBeTrue)
				best, ok := c.BestScore(types.Typing)
				So(ok, ShouldBeTrue)
				So(best.Score, ShouldEqual, 72)
			})
		})
	})
}

func TestLeaderboard(t *testing.T) {
	Convey("Given a server with rankings", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/leaderboard/typing" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"rankings": [
					{"rank":1,"test_type":"typing","result":90,"anonymous_id":"anon-a","created_at":"2026-08-01T12:00:00Z"},
					{"rank":2,"test_type":"typing","result":65,"anonymous_id":"anon-b","created_at":"2026-08-01T12:01:00Z"}
				],
				"stats": {"totalPlayers":2,"averageScore":77.5,"bestScore":90}
			}`))
		}))
		defer ts.Close()

		c := client.New(ts.URL, client.WithKV(kv.NewMemory()))

		Convey("When fetching the leaderboard", func() {
			entries, stats, err := c.Leaderboard(context.Background(), types.Typing, 10)

			Convey("Then rankings and stats decode", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[0].Result, ShouldEqual, 90)
				So(stats.TotalPlayers, ShouldEqual, 2)
				So(stats.BestScore, ShouldEqual, 90)
			})
		})

		Convey("When fetching stats only", func() {
			stats, err := c.TestStats(context.Background(), types.Typing)

			Convey("Then the aggregate comes back", func() {
				So(err, ShouldBeNil)
				So(stats.AverageScore, ShouldEqual, 77.5)
			})
		})
	})

	Convey("Given a failing server", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		c := client.New(ts.URL, client.WithKV(kv.NewMemory()))

		Convey("When fetching the leaderboard", func() {
			_, _, err := c.Leaderboard(context.Background(), types.Typing, 10)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFingerprintStability(t *testing.T) {
	Convey("Given two clients with the same signals", t, func() {
		signals := fingerprint.Signals{
			UserAgent: "test-agent",
			Platform:  "Linux x86_64",
			Timezone:  "UTC",
		}
		a := client.New("http://localhost", client.WithSignals(signals))
		b := client.New("http://localhost", client.WithSignals(signals))

		Convey("Then their fingerprints match", func() {
			So(a.Fingerprint(), ShouldEqual, b.Fingerprint())
			So(len(a.Fingerprint()), ShouldEqual, 64)
		})
	})
}
