package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/betbot/volarb/clob/client"
	"github.com/betbot/volarb/clob/types"
	"github.com/betbot/volarb/internal/execution"
	"github.com/betbot/volarb/internal/runner"
	"github.com/betbot/volarb/pkg/config"
	"github.com/betbot/volarb/pkg/feed"
	"github.com/betbot/volarb/pkg/logger"
	"github.com/betbot/volarb/pkg/shutdown"
)

func main() {
	configPath := flag.String("config", "yml/config.yaml", "配置文件路径（.yaml/.yml）")
	dryRun := flag.Bool("dry-run", false, "纸交易模式：打印订单意图但不真实下单")
	flag.Parse()

	// .env 可选：钱包凭证只从环境变量读取
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *dryRun {
		cfg.Trade.DryRun = true
	}

	if err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	logrus.Info("🚀 启动交易机器人...")
	if cfg.Trade.DryRun {
		logrus.Warn("📝 纸交易模式已启用：订单意图仅记录在日志中")
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	clobClient, err := client.NewClient(client.Options{
		Host:          cfg.Clob.Host,
		ChainID:       types.Chain(cfg.Clob.ChainID),
		PrivateKeyHex: cfg.Wallet.PrivateKey,
		FunderAddress: cfg.Wallet.FunderAddress,
		SignatureType: types.SignatureType(cfg.Clob.SignatureType),
	})
	if err != nil {
		logrus.Errorf("创建 CLOB 客户端失败: %v", err)
		os.Exit(1)
	}

	logrus.Info("推导 API 凭证...")
	creds, err := clobClient.DeriveAPICreds(rootCtx)
	if err != nil {
		logrus.Errorf("推导 API 凭证失败: %v", err)
		os.Exit(1)
	}
	clobClient.SetAPICreds(creds)
	logrus.Infof("API 凭证已获取: key=%s...", shortKey(creds.Key))

	// 启动自检：能力检查 + REST 可达性
	if err := runner.Preflight(rootCtx, clobClient, cfg.Retry); err != nil {
		logrus.Errorf("启动自检失败: %v", err)
		os.Exit(1)
	}

	tokenIDs := make([]string, 0, len(cfg.Strategies))
	for _, sc := range cfg.Strategies {
		tokenIDs = append(tokenIDs, sc.TokenID)
	}

	feedClient := feed.NewClient(cfg.FeedURL, tokenIDs)
	if err := feedClient.Start(rootCtx); err != nil {
		logrus.Errorf("启动行情订阅失败: %v", err)
		os.Exit(1)
	}
	logrus.Infof("行情订阅已启动: tokens=%d", len(tokenIDs))

	executor := execution.NewExecutor(clobClient)

	sess, err := runner.NewSession(runner.Options{
		OrderSize:      cfg.Trade.OrderSize,
		MinUSDCBalance: cfg.Trade.MinUSDCBalance,
		TickInterval:   cfg.Trade.TickInterval.Duration,
		SyncInterval:   cfg.Trade.SyncInterval.Duration,
		QuoteMaxAge:    cfg.Trade.QuoteMaxAge.Duration,
		DryRun:         cfg.Trade.DryRun,
	}, feedClient.Store(), executor, clobClient, clobClient, cfg.Strategies)
	if err != nil {
		logrus.Errorf("创建交易会话失败: %v", err)
		os.Exit(1)
	}

	manager := shutdown.NewManager()
	manager.OnShutdown(func(ctx context.Context, wg *sync.WaitGroup) {
		if err := feedClient.Close(); err != nil {
			logrus.Warnf("关闭行情连接失败: %v", err)
		}
	})

	runDone := make(chan error, 1)
	go func() {
		runDone <- sess.Run(rootCtx)
	}()

	logrus.Infof("✅ 交易会话已启动: id=%s，按 Ctrl+C 停止", sess.ID())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
		logrus.Info("收到停止信号，正在关闭...")
	case err := <-runDone:
		if err != nil && err != context.Canceled {
			logrus.Errorf("交易会话退出: %v", err)
		}
	}
	rootCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	manager.Shutdown(shutdownCtx)

	logrus.Info("✅ 交易机器人已停止")
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
