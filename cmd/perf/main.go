package main

import (
	"context"
	"flag"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/chn0318/logqueue/queueserver"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "gRPC server address")
	totalReq := flag.Int("total-requests", 10000, "total number of push+commit rounds")
	concurrency := flag.Int("concurrency", 32, "number of concurrent workers")
	pushesPerReq := flag.Int("pushes-per-req", 10, "number of pushes before each commit")
	valueSize := flag.Int("value-bytes", 4*1024, "bytes per push")

	flag.Parse()

	log.Info().
		Str("addr", *addr).
		Int("total", *totalReq).
		Int("concurrency", *concurrency).
		Int("pushes_per_req", *pushesPerReq).
		Int("value_bytes", *valueSize).
		Msg("Push/commit benchmark start")

	// All workers share one connection.
	conn, err := grpc.NewClient(*addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("dial error")
	}
	defer conn.Close()

	client := queueserver.NewClient(conn)

	// Writes are rejected until recovery has drained the log.
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), time.Minute)
	recovered, err := client.Drain(drainCtx, 1<<20)
	cancelDrain()
	if err != nil {
		log.Fatal().Err(err).Msg("drain error")
	}
	log.Info().Int("bytes", recovered).Msg("Recovery drained")

	value := make([]byte, *valueSize)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rng.Read(value)

	jobs := make(chan int, *totalReq)
	var wg sync.WaitGroup

	var (
		mu        sync.Mutex
		errCount  int
		startTime = time.Now()
	)

	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range jobs {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				err := round(ctx, client, value, *pushesPerReq)
				cancel()
				if err != nil {
					mu.Lock()
					errCount++
					mu.Unlock()
				}
			}
		}()
	}

	for i := 0; i < *totalReq; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	elapsed := time.Since(startTime).Seconds()

	successReq := *totalReq - errCount
	totalBytes := float64(successReq * (*pushesPerReq) * (*valueSize))

	log.Info().
		Int("total", *totalReq).
		Int("succeeded", successReq).
		Int("failed", errCount).
		Float64("elapsed_s", elapsed).
		Float64("commits_per_s", float64(successReq)/elapsed).
		Float64("mb_per_s", totalBytes/(1024*1024)/elapsed).
		Msg("Push/commit benchmark result")
}

func round(ctx context.Context, client *queueserver.Client, value []byte, pushes int) error {
	for i := 0; i < pushes; i++ {
		if _, err := client.Push(ctx, value); err != nil {
			return err
		}
	}
	return client.Commit(ctx)
}
