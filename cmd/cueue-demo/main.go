// Command cueue-demo runs a producer and a consumer goroutine against a
// cueue Producer/Consumer pair and reports throughput, in the same spirit as the teacher
// harness's hand-rolled benchmark loop in main.go: a fixed-seed xorshift
// generator drives message sizes so runs are reproducible, and elapsed
// time is converted to a per-message cost at the end.
package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/ejyy/cueue"
)

var cli struct {
	Capacity    uint64 `help:"Requested queue capacity in bytes; rounded up to a page-aligned power of two." default:"1048576"`
	Messages    uint64 `help:"Number of messages to push through the queue." default:"10000000"`
	MaxMsgBytes uint64 `help:"Maximum size, in bytes, of a generated message." default:"256"`
	Seed        uint64 `help:"Seed for the xorshift message-size generator." default:"1755956219406641000"`
}

// fastRand is the teacher's xorshift PRNG (main.go), kept verbatim: it's
// much faster than crypto/rand and deterministic given a seed, which is
// what makes this demo's throughput numbers reproducible run to run.
type fastRand struct{ state uint64 }

func (r *fastRand) next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

func main() {
	kong.Parse(&cli)

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	p, c, err := cueue.New(cli.Capacity)
	if err != nil {
		logger.Fatal("failed to build queue", zap.Error(err))
	}
	defer p.Close()
	defer c.Close()

	logger.Info("queue ready",
		zap.Uint64("requested_capacity", cli.Capacity),
		zap.Uint64("effective_capacity", p.Capacity()),
		zap.Uint64("messages", cli.Messages),
	)

	var totalWritten, totalRead uint64
	var wg sync.WaitGroup
	wg.Add(2)

	start := time.Now()

	go func() {
		defer wg.Done()
		rng := fastRand{state: cli.Seed}
		for i := uint64(0); i < cli.Messages; i++ {
			n := rng.next()%cli.MaxMsgBytes + 1
			msg := make([]byte, n)
			for {
				span := p.BeginWriteIfNeeded(n)
				if uint64(len(span)) >= n {
					break
				}
			}
			if err := p.Write(msg); err != nil {
				logger.Fatal("unexpected write failure", zap.Error(err))
			}
			p.EndWrite()
			totalWritten += n
		}
	}()

	go func() {
		defer wg.Done()
		var read uint64
		rng := fastRand{state: cli.Seed}
		want := uint64(0)
		for i := uint64(0); i < cli.Messages; i++ {
			want += rng.next()%cli.MaxMsgBytes + 1
		}
		for read < want {
			span := c.BeginRead()
			if len(span) == 0 {
				continue
			}
			read += uint64(len(span))
			c.EndRead()
		}
		totalRead = read
	}()

	wg.Wait()
	elapsed := time.Since(start)

	logger.Info("run complete",
		zap.Duration("elapsed", elapsed),
		zap.Uint64("bytes_written", totalWritten),
		zap.Uint64("bytes_read", totalRead),
		zap.Float64("ns_per_message", float64(elapsed.Nanoseconds())/float64(cli.Messages)),
	)
	fmt.Printf("%d messages, %d bytes, in %v -> %.1f ns/msg\n",
		cli.Messages, totalWritten, elapsed, float64(elapsed.Nanoseconds())/float64(cli.Messages))
}
