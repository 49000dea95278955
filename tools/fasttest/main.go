package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"labliq/analyzer/internal/business"
	"labliq/analyzer/internal/rating"
	"labliq/analyzer/internal/refdata"
	"labliq/analyzer/pkg/config"
	"labliq/analyzer/pkg/infra/mysql"
	"labliq/analyzer/pkg/infra/redis"
	"labliq/analyzer/pkg/logger"
)

var (
	configPath   = flag.String("config", "./config/worker.yaml", "配置文件路径")
	testcasePath = flag.String("testcase", "./tools/fasttest/testcase/shipments.json", "测试用例路径")
	skipDB       = flag.Bool("skip-db", false, "跳过数据库操作（仅测试费率计算）")
)

// TestCase 测试用例结构
type TestCase struct {
	Name      string            `json:"name"`
	Shipments []rating.Shipment `json:"shipments"`
	Overrides *rating.Overrides `json:"overrides"`
}

func main() {
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("  FastTest - Analyzer Worker 快速测试工具")
	fmt.Println("========================================")

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Config loaded: %s\n", cfg.App.Name)

	// 2. 加载参考数据集
	store, err := refdata.Load(cfg.RefData.Path, logger.NopLogger{})
	if err != nil {
		fmt.Printf("❌ Failed to load reference data: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Reference data loaded: version=%d\n", store.Version())

	// 3. 加载测试用例
	testCases, err := loadTestCases(*testcasePath)
	if err != nil {
		fmt.Printf("❌ Failed to load test cases: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Loaded %d test cases from %s\n", len(testCases), *testcasePath)

	// 4. 初始化依赖（根据 skip-db 参数决定）
	var analysisService *business.AnalysisService
	var analysisDAO *mysql.AnalysisDAO
	if *skipDB {
		fmt.Println("⚠️  Skip-DB mode: Database and Redis operations disabled")
		// 只测试费率计算，不连接数据库和 Redis
		analysisService = business.NewAnalysisService(store, business.AnalysisServiceOptions{}, logger.NopLogger{})
	} else {
		// 完整模式：初始化数据库和 Redis
		analysisDAO, err = mysql.NewAnalysisDAO(cfg.MySQL.DSN)
		if err != nil {
			fmt.Printf("❌ Failed to create AnalysisDAO: %v\n", err)
			os.Exit(1)
		}
		defer analysisDAO.Close()

		redisPubSub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			fmt.Printf("❌ Failed to create Redis PubSub: %v\n", err)
			os.Exit(1)
		}
		defer redisPubSub.Close()

		analysisService = business.NewAnalysisService(store, business.AnalysisServiceOptions{
			AnalysisDAO:   analysisDAO,
			PubSub:        redisPubSub,
			NotifyChannel: cfg.Redis.Channel,
		}, logger.NopLogger{})
		fmt.Println("✅ Database and Redis initialized")
	}

	// 5. 执行测试用例
	fmt.Println("\n========================================")
	fmt.Println("  Running Test Cases")
	fmt.Println("========================================")

	successCount := 0
	failureCount := 0

	for i, tc := range testCases {
		fmt.Printf("\n[Test %d/%d] %s (%d shipments)\n", i+1, len(testCases), tc.Name, len(tc.Shipments))
		fmt.Println("----------------------------------------")

		startTime := time.Now()

		if *skipDB {
			// Skip-DB 模式：只跑同步预览
			err = runTestCasePreview(analysisService, tc)
		} else {
			// 完整模式：落库 + 执行 + 通知
			err = runTestCaseFull(analysisService, analysisDAO, tc)
		}

		duration := time.Since(startTime)

		if err != nil {
			fmt.Printf("❌ FAILED: %v\n", err)
			fmt.Printf("⏱️  Duration: %v\n", duration)
			failureCount++
		} else {
			fmt.Printf("✅ PASSED\n")
			fmt.Printf("⏱️  Duration: %v\n", duration)
			successCount++
		}
	}

	// 6. 输出测试汇总
	fmt.Println("\n========================================")
	fmt.Println("  Test Summary")
	fmt.Println("========================================")
	fmt.Printf("Total: %d\n", len(testCases))
	fmt.Printf("Passed: %d ✅\n", successCount)
	fmt.Printf("Failed: %d ❌\n", failureCount)

	if failureCount > 0 {
		os.Exit(1)
	}
}

// loadTestCases 从 JSON 文件加载测试用例
func loadTestCases(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read testcase file: %w", err)
	}

	var testCases []TestCase
	if err := json.Unmarshal(data, &testCases); err != nil {
		return nil, fmt.Errorf("failed to unmarshal testcase: %w", err)
	}

	return testCases, nil
}

// runTestCasePreview 运行测试用例（跳过数据库，仅测试费率计算）
func runTestCasePreview(service *business.AnalysisService, tc TestCase) error {
	ctx := context.Background()

	output, err := service.Preview(ctx, tc.Shipments, tc.Overrides)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	printResults(output.Results)
	fmt.Printf("  Summary: shipments=%d, total_final=%.2f, total_savings=%.2f, avg_savings=%.2f%%\n",
		output.Summary.TotalShipments, output.Summary.TotalFinalRate,
		output.Summary.TotalSavings, output.Summary.AvgSavingsPct)
	for _, w := range output.Warnings {
		fmt.Printf("  ⚠️  [%s] %s: %s\n", w.Level, w.Type, w.Message)
	}

	return nil
}

// runTestCaseFull 运行测试用例（完整模式：落库 + 计算 + Redis 通知）
func runTestCaseFull(service *business.AnalysisService, dao *mysql.AnalysisDAO, tc TestCase) error {
	ctx := context.Background()

	input := &business.AnalysisInput{
		RequestID:  uuid.New().String(),
		AnalysisID: uuid.New().String(),
		Shipments:  tc.Shipments,
		Overrides:  tc.Overrides,
	}

	if _, err := dao.Create(ctx, input.AnalysisID, input.RequestID, input.Shipments); err != nil {
		return fmt.Errorf("create analysis record failed: %w", err)
	}

	if err := service.ExecuteAnalysis(ctx, input); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Printf("  AnalysisID: %s\n", input.AnalysisID)
	fmt.Println("  ✓ Database updated")
	fmt.Println("  ✓ Redis notification sent")

	return nil
}

func printResults(results []rating.RateResult) {
	fmt.Printf("  Results: %d\n", len(results))
	for i := range results {
		r := &results[i]
		if r.IsError() {
			fmt.Printf("    - %s: zone=%s, error=%s\n", r.ShipmentID, r.Zone, r.Errors)
			continue
		}
		fmt.Printf("    - %s: zone=%s, final=%.2f, carrier=%.2f, savings=%.2f\n",
			r.ShipmentID, r.Zone, r.FinalRate, r.CarrierRate, r.Savings)
	}
}
