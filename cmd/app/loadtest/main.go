// Load test for the preflight pipeline: drives transaction flows and
// store reads at a configurable rate against an in-process instance and
// reports throughput and latency percentiles.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	notify "github.com/blocknative/notify-go"
)

type opType int

const (
	opSend opType = iota
	opRead
)

func main() {
	var (
		dur     = flag.Duration("dur", 60*time.Second, "test duration")
		warmup  = flag.Duration("warmup", 5*time.Second, "warmup duration (not counted)")
		avgRPS  = flag.Int("avg-rps", 300, "avg RPS")
		peakRPS = flag.Int("peak-rps", 1500, "peak RPS (during ramp)")
		ramp    = flag.Duration("ramp", 10*time.Second, "ramp-up duration to peak")
		rwRatio = flag.Int("rw", 15, "R/W ratio, reads per 1 send")
		workers = flag.Int("workers", 64, "concurrent workers")
	)
	flag.Parse()

	ctx := context.Background()

	fmt.Println("starting warmup:", *warmup)
	runPhase(ctx, *workers, *avgRPS, *avgRPS, 0, *warmup, *rwRatio, false)

	fmt.Println("starting measured test:", *dur)
	res := runPhase(ctx, *workers, *avgRPS, *peakRPS, *ramp, *dur, *rwRatio, true)

	printReport(res)
}

type results struct {
	totalOps   uint64
	readOps    uint64
	sendOps    uint64
	errOps     uint64
	latencies  []time.Duration // measured ops only
	startedAt  time.Time
	finishedAt time.Time
}

func runPhase(
	ctx context.Context,
	workers int,
	avgRPS int,
	peakRPS int,
	ramp time.Duration,
	dur time.Duration,
	rw int,
	collect bool,
) results {
	ctx, cancel := context.WithTimeout(ctx, dur)
	defer cancel()

	// Fresh instance per phase so the warmup queue does not inflate the
	// measured phase's duplicate scans.
	n := notify.New(notify.Config{})

	// RPS limiter with optional ramp to peak:
	// If ramp == 0 => constant avgRPS
	lim := rate.NewLimiter(rate.Limit(avgRPS), avgRPS)

	type job struct {
		op opType
	}

	jobs := make(chan job, 1024)

	var (
		res results
		mu  sync.Mutex
	)

	res.startedAt = time.Now()

	// workers
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano()))
			for j := range jobs {
				t0 := time.Now()
				err := doOp(ctx, n, j.op, r)
				dt := time.Since(t0)

				atomic.AddUint64(&res.totalOps, 1)
				if j.op == opRead {
					atomic.AddUint64(&res.readOps, 1)
				} else {
					atomic.AddUint64(&res.sendOps, 1)
				}
				if err != nil {
					atomic.AddUint64(&res.errOps, 1)
					continue
				}
				if collect {
					mu.Lock()
					res.latencies = append(res.latencies, dt)
					mu.Unlock()
				}
			}
		}()
	}

	// producer
	go func() {
		defer close(jobs)

		// pattern: rw reads per 1 send
		pattern := make([]opType, 0, rw+1)
		for i := 0; i < rw; i++ {
			pattern = append(pattern, opRead)
		}
		pattern = append(pattern, opSend)
		idx := 0

		rampStart := time.Now()

		for {
			if err := lim.Wait(ctx); err != nil {
				return
			}

			// ramp logic
			if ramp > 0 {
				el := time.Since(rampStart)
				if el < ramp {
					// linear from avgRPS -> peakRPS
					cur := float64(avgRPS) + (float64(peakRPS-avgRPS) * (float64(el) / float64(ramp)))
					lim.SetLimit(rate.Limit(cur))
				} else {
					lim.SetLimit(rate.Limit(peakRPS))
				}
			}

			jobs <- job{op: pattern[idx]}
			idx++
			if idx == len(pattern) {
				idx = 0
			}
		}
	}()

	wg.Wait()
	res.finishedAt = time.Now()
	return res
}

func doOp(ctx context.Context, n *notify.Notify, op opType, r *rand.Rand) error {
	switch op {
	case opRead:
		// snapshot read, what a rendering layer does per frame
		_ = n.Notifications().Get()
		return nil
	case opSend:
		tx, err := n.Transaction(fakeOptions(r))
		if err != nil {
			return err
		}
		_, err = tx.Send(ctx)
		return err
	default:
		return nil
	}
}

func fakeOptions(r *rand.Rand) notify.TransactionOptions {
	hash := fmt.Sprintf("0x%064x", r.Uint64())
	to := fmt.Sprintf("0x%040x", r.Uint64())
	from := fmt.Sprintf("0x%040x", r.Uint64())

	return notify.TransactionOptions{
		TxDetails: &notify.TxDetails{
			To:    to,
			From:  from,
			Value: fmt.Sprintf("%d000000000000000", 1+r.Intn(999)),
		},
		Balance: "1000000000000000000000", // never gates
		EstimateGas: func(ctx context.Context) (string, error) {
			return "21000", nil
		},
		GasPrice: func(ctx context.Context) (string, error) {
			return "1000000000", nil
		},
		SendTransaction: func(ctx context.Context) (string, error) {
			return hash, nil
		},
	}
}

func printReport(res results) {
	d := res.finishedAt.Sub(res.startedAt)
	total := atomic.LoadUint64(&res.totalOps)
	errs := atomic.LoadUint64(&res.errOps)
	reads := atomic.LoadUint64(&res.readOps)
	sends := atomic.LoadUint64(&res.sendOps)

	fmt.Printf("\n== REPORT ==\n")
	fmt.Printf("duration: %s\n", d)
	fmt.Printf("ops: total=%d read=%d send=%d errors=%d\n", total, reads, sends, errs)
	if d > 0 {
		fmt.Printf("throughput: %.2f ops/s\n", float64(total)/d.Seconds())
	}
	if len(res.latencies) == 0 {
		fmt.Println("no latency samples")
		return
	}
	sort.Slice(res.latencies, func(i, j int) bool { return res.latencies[i] < res.latencies[j] })
	p := func(q float64) time.Duration {
		i := int(q * float64(len(res.latencies)-1))
		return res.latencies[i]
	}
	fmt.Printf("latency p50=%s p95=%s p99=%s max=%s\n",
		p(0.50), p(0.95), p(0.99), res.latencies[len(res.latencies)-1],
	)
}
