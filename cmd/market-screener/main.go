package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/betbot/volarb/internal/markets"
	"github.com/betbot/volarb/pkg/duration"
	"github.com/betbot/volarb/pkg/logger"
)

func main() {
	gammaHost := flag.String("gamma-host", "", "Gamma API 主机，空则使用默认")
	minVolume := flag.Float64("min-volume", 0, "最小成交量（严格大于），0 使用默认")
	minYes := flag.Float64("min-yes", 0, "YES 价格下界（开区间），0 使用默认")
	maxYes := flag.Float64("max-yes", 0, "YES 价格上界（开区间），0 使用默认")
	minToEnd := flag.Duration("min-to-end", 0, "距结束最短时间，0 使用默认")
	maxToEnd := flag.Duration("max-to-end", 0, "距结束最长时间，0 使用默认")
	asJSON := flag.Bool("json", false, "以 JSON 数组输出")
	timeout := flag.Duration("timeout", 2*time.Minute, "整体超时")
	flag.Parse()

	if err := logger.InitDefault(); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}

	cfg := markets.DefaultFilterConfig()
	if *minVolume > 0 {
		cfg.MinimumVolume = *minVolume
	}
	if *minYes > 0 {
		cfg.MinYesPrice = *minYes
	}
	if *maxYes > 0 {
		cfg.MaxYesPrice = *maxYes
	}
	if *minToEnd > 0 {
		cfg.MinTimeToEnd = duration.New(*minToEnd)
	}
	if *maxToEnd > 0 {
		cfg.MaxTimeToEnd = duration.New(*maxToEnd)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc := markets.NewService(*gammaHost, cfg)
	summaries, err := svc.FilteredMarkets(ctx)
	if err != nil {
		log.Fatalf("市场筛选失败: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summaries); err != nil {
			log.Fatalf("输出 JSON 失败: %v", err)
		}
		return
	}

	if len(summaries) == 0 {
		fmt.Println("没有符合条件的市场")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "YES\t成交量\t结束时间\t问题\tURL")
	for _, s := range summaries {
		yes := "-"
		if s.YesPrice != nil {
			yes = fmt.Sprintf("%.3f", *s.YesPrice)
		}
		fmt.Fprintf(w, "%s\t%.0f\t%s\t%s\t%s\n", yes, s.Volume, s.EndDate, s.Question, s.URL)
	}
	w.Flush()
	fmt.Printf("\n共 %d 个市场通过筛选\n", len(summaries))
}
