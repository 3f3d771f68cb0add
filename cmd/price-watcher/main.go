package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/betbot/volarb/internal/markets"
	"github.com/betbot/volarb/pkg/feed"
	"github.com/betbot/volarb/pkg/logger"
)

func main() {
	source := flag.String("source", "", "市场来源：polymarket URL 或 \"yesTokenID,noTokenID\"")
	interval := flag.Duration("interval", 2*time.Second, "最小打印间隔（节流）")
	feedURL := flag.String("feed-url", "", "行情 WebSocket 地址，空则使用默认")
	gammaHost := flag.String("gamma-host", "", "Gamma API 主机，空则使用默认")
	flag.Parse()

	if *source == "" {
		fmt.Fprintln(os.Stderr, "用法: price-watcher -source <URL|yesID,noID> [-interval 2s]")
		os.Exit(1)
	}

	if err := logger.InitDefault(); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := markets.NewService(*gammaHost, markets.DefaultFilterConfig())
	yesID, noID, label, err := svc.ResolveTokenIDs(ctx, *source)
	if err != nil {
		log.Fatalf("解析市场来源失败: %v", err)
	}

	fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("🚀 价格监控\n")
	fmt.Printf("市场: %s\n", label)
	fmt.Printf("YES token: %s\n", shorten(yesID))
	fmt.Printf("NO  token: %s\n", shorten(noID))
	fmt.Printf("打印节流: %v\n", *interval)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	sides := map[string]string{yesID: "YES", noID: "NO"}

	// 节流：每个 token 独立计时，推送过密时只保留最新值打印
	var mu sync.Mutex
	lastPrint := make(map[string]time.Time)

	client := feed.NewClient(*feedURL, []string{yesID, noID})
	client.OnQuote(func(assetID string, q feed.Quote) {
		mu.Lock()
		defer mu.Unlock()
		if time.Since(lastPrint[assetID]) < *interval {
			return
		}
		lastPrint[assetID] = time.Now()
		printQuote(sides[assetID], q)
	})

	if err := client.Start(ctx); err != nil {
		log.Fatalf("连接行情 WebSocket 失败: %v", err)
	}
	defer client.Close()

	fmt.Printf("✅ 行情连接成功，等待价格推送（Ctrl+C 停止）...\n\n")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	fmt.Printf("\n正在关闭...\n")
}

func printQuote(side string, q feed.Quote) {
	const (
		colorReset = "\033[0m"
		colorYes   = "\033[32m"
		colorNo    = "\033[31m"
		colorBold  = "\033[1m"
	)
	color := colorYes
	if side == "NO" {
		color = colorNo
	}
	fmt.Printf("[%s] %s%-3s%s 价格: %s%.4f%s  买一: %.4f  卖一: %.4f\n",
		q.UpdatedAt.Format("15:04:05"),
		colorBold, side, colorReset,
		color, q.Price, colorReset,
		q.BestBid, q.BestAsk,
	)
}

func shorten(id string) string {
	if len(id) > 20 {
		return id[:10] + "..." + id[len(id)-6:]
	}
	return id
}
