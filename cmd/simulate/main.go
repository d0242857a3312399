// Command simulate drives a running brainmark server with synthetic
// devices, useful for demoing leaderboards and exercising the rate limiter.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/brainmark/internal/adapters/kv"
	"github.com/okian/brainmark/internal/domain/fingerprint"
	"github.com/okian/brainmark/internal/domain/types"
	"github.com/okian/brainmark/pkg/client"
	"github.com/okian/brainmark/pkg/logger"
)

type options struct {
	baseURL  string
	devices  int
	rounds   int
	interval time.Duration
	seed     int64
}

func main() {
	opts := options{}
	flag.StringVar(&opts.baseURL, "base-url", "http://localhost:9080", "score API base URL")
	flag.IntVar(&opts.devices, "devices", 10, "number of synthetic devices")
	flag.IntVar(&opts.rounds, "rounds", 1, "submission rounds per device")
	flag.DurationVar(&opts.interval, "interval", 100*time.Millisecond, "pause between submissions")
	flag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rng := rand.New(rand.NewSource(opts.seed))

	var accepted, rateLimited, failed int
	for d := 0; d < opts.devices; d++ {
		c := client.New(opts.baseURL,
			client.WithKV(kv.NewMemory()),
			client.WithSignals(deviceSignals(rng, d)),
		)

		for r := 0; r < opts.rounds; r++ {
			testType := types.All()[rng.Intn(len(types.All()))]
			result := plausibleScore(rng, testType)

			sub, err := c.SubmitResult(ctx, testType, result, map[string]any{
				"source": "simulate",
				"device": d,
			})
			switch {
			case err == nil:
				accepted++
				log.Info(ctx, "score accepted",
					logger.Int("device", d),
					logger.String("testType", testType.String()),
					logger.Float64("result", result),
					logger.String("level", string(sub.Evaluation.Level)),
					logger.Int("percentile", sub.Evaluation.Percentile),
				)
			case isRateLimited(err):
				rateLimited++
				log.Warn(ctx, "submission rate limited",
					logger.Int("device", d),
					logger.String("testType", testType.String()),
				)
			default:
				failed++
				log.Error(ctx, "submission failed",
					logger.Int("device", d),
					logger.Error(err),
				)
			}

			select {
			case <-ctx.Done():
				log.Info(ctx, "interrupted")
				return
			case <-time.After(opts.interval):
			}
		}
	}

	log.Info(ctx, "simulation finished",
		logger.Int("accepted", accepted),
		logger.Int("rateLimited", rateLimited),
		logger.Int("failed", failed),
	)
}

func isRateLimited(err error) bool {
	var se *client.SubmissionError
	return errors.As(err, &se) && se.Kind == client.KindRateLimited
}

// deviceSignals invents a distinct but stable identity for each device.
func deviceSignals(rng *rand.Rand, device int) fingerprint.Signals {
	platforms := []string{"MacIntel", "Win32", "Linux x86_64"}
	languages := []string{"en-US", "en-GB", "de-DE", "ja-JP", "pt-BR"}
	timezones := []string{"America/New_York", "Europe/Berlin", "Asia/Tokyo", "UTC"}

	return fingerprint.Signals{
		UserAgent:           fmt.Sprintf("simulate-device/%d", device),
		ScreenWidth:         1280 + rng.Intn(4)*320,
		ScreenHeight:        720 + rng.Intn(4)*180,
		Timezone:            timezones[rng.Intn(len(timezones))],
		Language:            languages[rng.Intn(len(languages))],
		Platform:            platforms[rng.Intn(len(platforms))],
		HardwareConcurrency: 2 << rng.Intn(4),
		HeapSizeLimit:       2 << 30,
		Canvas:              fmt.Sprintf("canvas-%d", device),
		WebGL:               fmt.Sprintf("webgl-%d", device),
		Audio:               fmt.Sprintf("audio-%d", device),
	}
}

// plausibleScore draws a value from a realistic range for the test type.
func plausibleScore(rng *rand.Rand, testType types.TestType) float64 {
	switch testType {
	case types.Reaction:
		return 150 + rng.Float64()*450 // milliseconds
	case types.Memory:
		return float64(3 + rng.Intn(12)) // digits
	case types.Visual, types.Sequence:
		return float64(1 + rng.Intn(14)) // levels
	case types.Typing:
		return 15 + rng.Float64()*95 // WPM
	case types.Chimp:
		return float64(4 + rng.Intn(12)) // numbers
	default:
		return 20 + rng.Float64()*140 // points
	}
}
