// Package markets 基于 gamma-api 的市场发现与筛选：
// 按截止时间分窗拉取市场列表，套用波动套利的可交易性规则，
// 产出带 YES/NO token id 的市场摘要。
package markets

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// FlexFloat 兼容数字与带引号数字两种编码（gamma 的 volume 等字段两者都出现过）
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.Wrapf(err, "无法解析数字字符串 %q", s)
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrapf(err, "无法解析数字 %s", string(data))
	}
	*f = FlexFloat(v)
	return nil
}

// FlexStrings 兼容字符串数组与“编码了数组的字符串”两种形态
// （gamma 的 clobTokenIds / outcomePrices 以字符串内嵌 JSON 返回）。
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = nil
		return nil
	}
	var inner string
	if err := json.Unmarshal(data, &inner); err == nil {
		if inner == "" {
			*f = nil
			return nil
		}
		data = []byte(inner)
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return errors.Wrapf(err, "无法解析字符串数组 %s", string(data))
	}
	*f = out
	return nil
}

// Floats 把每个元素按 float64 解析，解析失败的元素被跳过
func (f FlexStrings) Floats() []float64 {
	out := make([]float64, 0, len(f))
	for _, s := range f {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Event gamma 市场所属事件（只取筛选与摘要需要的字段）
type Event struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

// Market gamma-api /markets 返回的单个市场（只建模本包用到的字段）
type Market struct {
	ID              string      `json:"id"`
	Question        string      `json:"question"`
	Slug            string      `json:"slug"`
	GroupItemTitle  string      `json:"groupItemTitle"`
	Description     string      `json:"description"`
	Closed          bool        `json:"closed"`
	AcceptingOrders *bool       `json:"acceptingOrders"`
	Volume          FlexFloat   `json:"volume"`
	StartDate       string      `json:"startDate"`
	EndDate         string      `json:"endDate"`
	OutcomePrices   FlexStrings `json:"outcomePrices"`
	ClobTokenIDs    FlexStrings `json:"clobTokenIds"`
	OrderMinSize    FlexFloat   `json:"orderMinSize"`
	BestBid         FlexFloat   `json:"bestBid"`
	BestAsk         FlexFloat   `json:"bestAsk"`
	Events          []Event     `json:"events"`
}

// Key 去重键：优先 id，退回 slug
func (m Market) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.Slug
}

// YesPrice 首个结果（YES 侧）价格；缺失时 ok=false
func (m Market) YesPrice() (float64, bool) {
	prices := m.OutcomePrices.Floats()
	if len(prices) == 0 {
		return 0, false
	}
	return prices[0], true
}
