package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"labliq/analyzer/internal/business"
	"labliq/analyzer/internal/refdata"
	"labliq/analyzer/internal/worker"
	"labliq/analyzer/pkg/config"
	"labliq/analyzer/pkg/infra/mysql"
	"labliq/analyzer/pkg/infra/redis"
	"labliq/analyzer/pkg/lmstfy"
	"labliq/analyzer/pkg/logger"
)

var (
	configPath = flag.String("config", "./config/worker.yaml", "配置文件路径")
)

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	log.Printf("Config loaded: %s, env: %s, log_level: %s\n", cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)

	// 2. 初始化 Logger
	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// 3. 加载参考数据集（致命错误直接退出，引擎缺数据无法工作）
	store, err := refdata.Load(cfg.RefData.Path, zapLogger)
	if err != nil {
		log.Fatalf("Failed to load reference data: %v", err)
	}

	// 4. 初始化基础设施
	analysisDAO, err := mysql.NewAnalysisDAO(cfg.MySQL.DSN)
	if err != nil {
		log.Fatalf("Failed to create AnalysisDAO: %v", err)
	}
	defer analysisDAO.Close()

	pubsub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to create Redis PubSub: %v", err)
	}
	defer pubsub.Close()

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		log.Fatalf("Failed to create lmstfy client: %v", err)
	}

	// 5. 组装分析服务
	var callbackQueue string
	if len(cfg.Workers) > 0 {
		callbackQueue = cfg.Workers[0].CallbackQueue
	}
	if callbackQueue == "" {
		log.Fatalf("callback_queue is required in worker config")
	}

	analysisService := business.NewAnalysisService(store, business.AnalysisServiceOptions{
		AnalysisDAO:   analysisDAO,
		PubSub:        pubsub,
		LmstfyClient:  lmstfyClient,
		CallbackQueue: callbackQueue,
		NotifyChannel: cfg.Redis.Channel,
	}, zapLogger)

	// 6. 创建 Manager
	mgr, err := worker.NewManagerInstance(cfg, lmstfyClient, analysisService, zapLogger)
	if err != nil {
		log.Fatalf("Failed to create manager: %v", err)
	}

	// 7. 启动 Manager（goroutine）
	go func() {
		if err := mgr.Start(); err != nil {
			log.Fatalf("Manager start failed: %v", err)
		}
	}()

	log.Println("Worker started. Press Ctrl+C to shutdown.")

	// 8. 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Printf("Received signal: %v, shutting down worker...\n", sig)

	// 9. 优雅关闭 Manager
	mgr.Shutdown()

	log.Println("Worker exited gracefully")
}
