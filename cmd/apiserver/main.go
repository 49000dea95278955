package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labliq/analyzer/internal/business"
	"labliq/analyzer/internal/refdata"
	"labliq/analyzer/internal/server"
	"labliq/analyzer/pkg/config"
	"labliq/analyzer/pkg/infra/mysql"
	"labliq/analyzer/pkg/lmstfy"
	"labliq/analyzer/pkg/logger"
)

var (
	configPath = flag.String("config", "./config/apiserver.yaml", "配置文件路径")
)

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	log.Printf("Config loaded: %s, env: %s, addr: %s\n", cfg.App.Name, cfg.App.Env, cfg.Server.Addr)

	// 2. 初始化 Logger
	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// 3. 加载参考数据集
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

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		log.Fatalf("Failed to create lmstfy client: %v", err)
	}

	// 5. 组装分析服务（apiserver 只投递任务，不消费回调，不发 Redis 通知）
	analysisService := business.NewAnalysisService(store, business.AnalysisServiceOptions{
		AnalysisDAO:  analysisDAO,
		LmstfyClient: lmstfyClient,
		JobQueue:     cfg.Lmstfy.Queue,
	}, zapLogger)

	// 6. 注册路由并启动 HTTP 服务
	handler := server.NewAnalysisHandler(analysisService, analysisDAO, store, zapLogger)
	router := server.SetupRoutes(handler)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("API server listening on %s\n", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// 7. 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Printf("Received signal: %v, shutting down server...\n", sig)

	// 8. 优雅关闭 HTTP 服务
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v\n", err)
	}

	log.Println("API server exited gracefully")
}
