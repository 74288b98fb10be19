package kv

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/redisds/cmd/util"
	"github.com/ValentinKolb/redisds/lib/value"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for a dataspace",
		Long:    "Runs parallel benchmarks against the configured dataspace. All workers share one client, so the numbers include waiting for the dispatch lock.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix  = "__test"
	perfNumThreads = 10
	perfKeySpread  = 100
	perfSkip       = make([]string, 0)
)

func init() {
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,read)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfKeySpread = viper.GetInt("keys")
	perfNumThreads = viper.GetInt("threads")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	if perfKeySpread <= 0 {
		return fmt.Errorf("keys must be positive, got %d", perfKeySpread)
	}
	if perfNumThreads <= 0 {
		return fmt.Errorf("threads must be positive, got %d", perfNumThreads)
	}
	return nil
}

// perfTest is one benchmark: prepare runs once per key before timing, op is timed
type perfTest struct {
	name    string
	prepare func(key string)
	op      func(key string, i int)
}

// perfResult is the outcome of one perfTest
type perfResult struct {
	name     string
	bench    testing.BenchmarkResult
	latency  gometrics.Timer
	fairness float64
}

func run(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for redisds dataspaces")

	config := util.GetServerConfig()
	ds := util.GetDataspaceConfig()

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(config.String())
	fmt.Printf("Dataspace: %s (db %d, prefix %q)\n", ds.Name, ds.Database, ds.Prefix)
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	setValue := func(key string) {
		if _, err := client.Set(dsName, "%s", "%s", 0, key, "test"); err != nil {
			Logger.Errorf("(prepare) - error setting key: %v", err)
		}
	}

	tests := []perfTest{
		{
			name: "set",
			op: func(key string, _ int) {
				_, _ = client.Set(dsName, "%s", "%s", 0, key, "test")
			},
		},
		{
			name:    "read",
			prepare: setValue,
			op: func(key string, _ int) {
				_, _ = client.Read(dsName, "%s", key)
			},
		},
		{
			name: "read-missing",
			op: func(key string, _ int) {
				_, _ = client.Read(dsName, "%s", key)
			},
		},
		{
			name: "incr",
			op: func(key string, _ int) {
				_, _ = client.Increment(dsName, "%s", 1, 60, key)
			},
		},
		{
			name: "append",
			op: func(key string, i int) {
				_, _ = client.Append(dsName, "%s", "%d", 60, key, i%16)
			},
		},
		{
			name:    "check",
			prepare: setValue,
			op: func(key string, _ int) {
				_, _ = client.Check(dsName, "%s", key)
			},
		},
		{
			name:    "mixed",
			prepare: setValue,
			op: func(key string, i int) {
				switch i % 4 {
				case 0:
					_, _ = client.Set(dsName, "%s", "%s", 0, key, "test")
				case 1:
					_, _ = client.Read(dsName, "%s", key)
				case 2:
					_, _ = client.TTL(dsName, "%s", key)
				case 3:
					_, _ = client.Check(dsName, "%s", key)
				}
			},
		},
	}

	results := make([]perfResult, 0, len(tests))
	for _, test := range tests {
		result := runPerfTest(test)
		results = append(results, result)
		printResult(result)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// runPerfTest runs a test with testing.Benchmark. Latencies and per-worker counts are
// taken from the last (longest) round testing.Benchmark runs.
func runPerfTest(test perfTest) perfResult {
	result := perfResult{name: test.name}
	if shouldSkip(test.name) {
		return result
	}

	getKey, iter := getKeys(test.name)
	if test.prepare != nil {
		iter(test.prepare)
	}
	defer iter(deleteKey)

	result.bench = testing.Benchmark(func(b *testing.B) {
		if result.latency != nil {
			result.latency.Stop()
		}
		latency := gometrics.NewTimer()
		result.latency = latency

		var mu sync.Mutex
		var workerOps []float64
		var nextWorker int64

		b.SetParallelism(perfNumThreads)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			offset := int(atomic.AddInt64(&nextWorker, 1)) * perfKeySpread / perfNumThreads
			ops := 0
			for pb.Next() {
				start := time.Now()
				test.op(getKey(offset+ops), ops)
				latency.UpdateSince(start)
				ops++
			}
			mu.Lock()
			workerOps = append(workerOps, float64(ops))
			mu.Unlock()
		})

		result.fairness = util.NewStats(workerOps).Fairness()
	})

	if result.latency != nil {
		result.latency.Stop()
	}
	return result
}

func deleteKey(key string) {
	if _, err := client.Store(dsName, "%s", value.Absent(), 0, key); err != nil {
		Logger.Errorf("(cleanup) - error deleting key: %v", err)
	}
}

func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// opsPerSec converts a benchmark result, 0 means the test was skipped
func opsPerSec(result testing.BenchmarkResult) (nsPerOp, perSec float64) {
	if result.NsPerOp() == 0 {
		return 0, 0
	}
	nsPerOp = math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	return nsPerOp, 1.0 / (nsPerOp / 1e9)
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(result perfResult) {
	nsPerOp, perSec := opsPerSec(result.bench)
	if nsPerOp == 0 {
		fmt.Printf("%-20sskipped\n", result.name)
		return
	}

	snap := result.latency.Snapshot()
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50=%s p99=%s\tfairness=%.2f\n",
		result.name, nsPerOp, time.Duration(nsPerOp), perSec,
		time.Duration(snap.Percentile(0.5)), time.Duration(snap.Percentile(0.99)),
		result.fairness)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []perfResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	config := util.GetServerConfig().WithDefaults()
	ds := util.GetDataspaceConfig()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"P50Ns", "P99Ns", "Fairness",
		"Address", "TimeoutMs", "Database", "Prefix",
		"Threads", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for _, result := range results {
		nsPerOp, perSec := opsPerSec(result.bench)
		skipped := strconv.FormatBool(nsPerOp == 0)

		var p50, p99 float64
		if result.latency != nil {
			snap := result.latency.Snapshot()
			p50, p99 = snap.Percentile(0.5), snap.Percentile(0.99)
		}

		row := []string{
			result.name,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", perSec),
			skipped,
			fmt.Sprintf("%.0f", p50),
			fmt.Sprintf("%.0f", p99),
			fmt.Sprintf("%.3f", result.fairness),
			config.Addr(),
			strconv.Itoa(config.TimeoutMs),
			strconv.Itoa(ds.Database),
			ds.Prefix,
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", result.name, err)
		}
	}

	return nil
}
