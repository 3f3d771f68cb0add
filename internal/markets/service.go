package markets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "markets")

// DefaultGammaHost gamma-api 根地址
const DefaultGammaHost = "https://gamma-api.polymarket.com"

const endpointMarkets = "/markets"

// Service gamma-api 市场发现服务
type Service struct {
	http *resty.Client
	cfg  FilterConfig
}

// NewService 创建市场发现服务；host 为空时使用 DefaultGammaHost。
func NewService(host string, cfg FilterConfig) *Service {
	if host == "" {
		host = DefaultGammaHost
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(host, "/")).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetHeader("Accept", "application/json")
	return &Service{http: client, cfg: cfg}
}

// fetchPage 拉取单页市场列表
func (s *Service) fetchPage(ctx context.Context, params map[string]string) ([]Market, error) {
	var page []Market
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&page).
		Get(endpointMarkets)
	if err != nil {
		return nil, errors.Wrap(err, "请求 gamma-api 失败")
	}
	if resp.IsError() {
		return nil, errors.Errorf("gamma-api 返回 %d: %s", resp.StatusCode(), resp.String())
	}
	return page, nil
}

// FetchMarkets 按截止时间 [endMin, endMax] 分窗拉取市场并按 id 去重。
// 单窗命中条数达到单页上限说明结果被截断，窗口折半递归补拉。
func (s *Service) FetchMarkets(ctx context.Context, endMin, endMax time.Time, windowDays int) ([]Market, error) {
	if windowDays <= 0 {
		windowDays = s.cfg.WindowDays
	}
	seen := make(map[string]struct{})
	var all []Market
	if err := s.fetchWindowed(ctx, endMin, endMax, windowDays, seen, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *Service) fetchWindowed(ctx context.Context, endMin, endMax time.Time, windowDays int, seen map[string]struct{}, out *[]Market) error {
	window := time.Duration(windowDays) * 24 * time.Hour
	for cur := endMin; !cur.After(endMax); {
		curEnd := cur.Add(window)
		if curEnd.After(endMax) {
			curEnd = endMax
		}

		chunk, err := s.fetchPage(ctx, map[string]string{
			"limit":          fmt.Sprintf("%d", s.cfg.RequestLimit),
			"order":          "endDate",
			"ascending":      "true",
			"active":         "true",
			"closed":         "false",
			"end_date_min":   cur.UTC().Format("2006-01-02T15:04:05Z"),
			"end_date_max":   curEnd.UTC().Format("2006-01-02T15:04:05Z"),
			"volume_num_min": fmt.Sprintf("%d", int(s.cfg.MinimumVolume)),
		})
		if err != nil {
			// 单窗失败不致命，跳过继续下一窗
			log.Warnf("分窗拉取失败，跳过该窗口: [%s, %s] err=%v", cur.Format(time.RFC3339), curEnd.Format(time.RFC3339), err)
			chunk = nil
		}

		for _, m := range chunk {
			key := m.Key()
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			*out = append(*out, m)
		}

		// 命中上限说明该窗被截断，折半递归细分补拉
		if len(chunk) >= s.cfg.RequestLimit && windowDays > 1 {
			half := windowDays / 2
			if half < 1 {
				half = 1
			}
			if err := s.fetchWindowed(ctx, cur, curEnd, half, seen, out); err != nil {
				return err
			}
		}

		cur = curEnd.Add(time.Second)
	}
	return nil
}

// Summary 市场摘要：策略启动与人工复核都以它为输入
type Summary struct {
	URL          string   `json:"url"`
	Question     string   `json:"question"`
	Group        string   `json:"group,omitempty"`
	YesPrice     *float64 `json:"yes_price,omitempty"`
	NoPrice      *float64 `json:"no_price,omitempty"`
	YesTokenID   string   `json:"yes_token_id,omitempty"`
	NoTokenID    string   `json:"no_token_id,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Volume       float64  `json:"volume"`
	OrderMinSize float64  `json:"order_min_size,omitempty"`
	BestBid      float64  `json:"best_bid,omitempty"`
	BestAsk      float64  `json:"best_ask,omitempty"`
}

// BuildSummary 从 gamma 市场构造摘要
func BuildSummary(m Market) Summary {
	sum := Summary{
		URL:          marketURL(m),
		Question:     m.Question,
		Group:        m.GroupItemTitle,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Volume:       float64(m.Volume),
		OrderMinSize: float64(m.OrderMinSize),
		BestBid:      float64(m.BestBid),
		BestAsk:      float64(m.BestAsk),
	}
	if prices := m.OutcomePrices.Floats(); len(prices) > 0 {
		sum.YesPrice = &prices[0]
		if len(prices) > 1 {
			sum.NoPrice = &prices[1]
		}
	}
	if len(m.ClobTokenIDs) > 0 {
		sum.YesTokenID = m.ClobTokenIDs[0]
		if len(m.ClobTokenIDs) > 1 {
			sum.NoTokenID = m.ClobTokenIDs[1]
		}
	}
	return sum
}

func marketURL(m Market) string {
	if len(m.Events) > 0 && m.Events[0].Slug != "" && m.Slug != "" {
		return fmt.Sprintf("https://polymarket.com/event/%s/%s", m.Events[0].Slug, m.Slug)
	}
	if m.Slug != "" {
		return fmt.Sprintf("https://polymarket.com/market/%s", m.Slug)
	}
	return "https://polymarket.com/markets"
}

// FilteredMarkets 拉取 + 筛选的一站式入口：返回当前可交易市场的摘要列表。
func (s *Service) FilteredMarkets(ctx context.Context) ([]Summary, error) {
	now := time.Now().UTC()
	raw, err := s.FetchMarkets(ctx, now.Add(s.cfg.MinTimeToEnd.Duration), now.Add(s.cfg.MaxTimeToEnd.Duration), s.cfg.WindowDays)
	if err != nil {
		return nil, err
	}

	var out []Summary
	for _, m := range raw {
		if !s.cfg.Eligible(m, now) {
			continue
		}
		out = append(out, BuildSummary(m))
	}
	log.Infof("市场筛选完成: 候选=%d 通过=%d", len(raw), len(out))
	return out, nil
}

var (
	marketSlugRe = regexp.MustCompile(`/market/([^/?#]+)`)
	eventSlugRe  = regexp.MustCompile(`/event/(?:[^/?#]+/)?([^/?#]+)`)
)

// FetchMarketBySlug 按 slug 精确查询单个市场
func (s *Service) FetchMarketBySlug(ctx context.Context, slug string) (*Market, error) {
	page, err := s.fetchPage(ctx, map[string]string{"limit": "1", "slug": slug})
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		return nil, errors.Errorf("gamma-api 未找到该市场: slug=%s", slug)
	}
	return &page[0], nil
}

// ExtractSlug 从 Polymarket 市场/事件页 URL 中解析 slug
func ExtractSlug(url string) (string, bool) {
	if m := marketSlugRe.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	if m := eventSlugRe.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	return "", false
}

// ResolveTokenIDs 把市场来源解析为 (yesTokenID, noTokenID, label)。
// 支持两种输入：Polymarket 市场/事件页 URL，或 "YES_id,NO_id" 形式的裸 id 对。
func (s *Service) ResolveTokenIDs(ctx context.Context, source string) (yesID, noID, label string, err error) {
	if strings.HasPrefix(source, "http") {
		slug, ok := ExtractSlug(source)
		if !ok {
			return "", "", "", errors.Errorf("无法从 URL 解析出 market/event slug: %s", source)
		}
		m, err := s.FetchMarketBySlug(ctx, slug)
		if err != nil {
			return "", "", "", err
		}
		if len(m.ClobTokenIDs) > 0 {
			yesID = m.ClobTokenIDs[0]
		}
		if len(m.ClobTokenIDs) > 1 {
			noID = m.ClobTokenIDs[1]
		}
		label = m.Question
		if label == "" {
			label = slug
		}
		return yesID, noID, label, nil
	}

	if strings.Contains(source, ",") {
		parts := strings.SplitN(source, ",", 2)
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), "manual-token-ids", nil
	}

	return "", "", "", errors.Errorf("未识别的市场来源（需要 URL 或 'YES_id,NO_id'）: %s", source)
}
