package vecpress_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/vecpress"
)

// Example demonstrates a lossless round trip.
func Example() {
	ctx := context.Background()

	vectors := [][]float32{
		{0.10, 0.20, 0.30},
		{0.11, 0.20, 0.31},
		{0.12, 0.21, 0.32},
	}

	c, err := vecpress.New("delta")
	if err != nil {
		log.Fatal(err)
	}

	blob, err := c.Encode(ctx, vectors)
	if err != nil {
		log.Fatal(err)
	}

	restored, err := c.Decode(ctx, blob)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(len(restored), len(restored[0]), restored[2][1] == vectors[2][1])
	// Output: 3 3 true
}

// Example_metrics demonstrates collecting compression statistics.
func Example_metrics() {
	ctx := context.Background()
	metrics := &vecpress.BasicMetricsCollector{}

	c, _ := vecpress.New("delta-ans", vecpress.WithMetricsCollector(metrics))

	vectors := make([][]float32, 100)
	for i := range vectors {
		vectors[i] = make([]float32, 64)
		for j := range vectors[i] {
			vectors[i][j] = float32(i) * 0.001
		}
	}

	if _, err := c.Encode(ctx, vectors); err != nil {
		log.Fatal(err)
	}

	stats := metrics.GetStats()
	fmt.Println(stats.EncodeCount, stats.BytesIn, stats.Ratio > 10)
	// Output: 1 25600 true
}
