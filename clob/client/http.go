package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/betbot/volarb/pkg/ratelimit"
)

// 客户端侧限速：官方 CLOB 通用读写接口约 150 请求/10 秒，
// 留出余量避免触发 429。
const (
	rateLimitRequests = 100
	rateLimitWindow   = 10 * time.Second
)

// httpClient resty 封装：基础超时/重试 + 客户端限速 + 429 Retry-After 处理。
// resty 会自动读取 HTTP_PROXY / HTTPS_PROXY 环境变量。
type httpClient struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
}

func newHTTPClient(host string) *httpClient {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(host, "/")).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		SetRetryAfter(func(client *resty.Client, resp *resty.Response) (time.Duration, error) {
			if resp.StatusCode() == http.StatusTooManyRequests {
				if retryAfter := resp.Header().Get("Retry-After"); retryAfter != "" {
					if d, err := time.ParseDuration(retryAfter + "s"); err == nil {
						return d, nil
					}
				}
				return 10 * time.Second, nil
			}
			return 0, nil
		})

	return &httpClient{
		client:  client,
		limiter: ratelimit.New(rateLimitRequests, rateLimitWindow),
	}
}

func (c *httpClient) newRequest(ctx context.Context, headers map[string]string) *resty.Request {
	r := c.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader("Accept", "*/*")
	r.SetHeader("User-Agent", "volarb/clob-client")
	for k, v := range headers {
		r.SetHeader(k, v)
	}
	return r
}

func (c *httpClient) get(ctx context.Context, endpoint string, headers map[string]string, params map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	r := c.newRequest(ctx, headers)
	if params != nil {
		r.SetQueryParams(params)
	}
	if out != nil {
		r.SetResult(out)
	}
	resp, err := r.Get(endpoint)
	if err != nil {
		return errors.Wrapf(err, "GET %s", endpoint)
	}
	if resp.IsError() {
		return errors.Errorf("GET %s: status=%d body=%s", endpoint, resp.StatusCode(), resp.String())
	}
	return nil
}

// post 以原始字符串提交 body：L2 HMAC 对字节串签名，序列化必须与签名完全一致。
func (c *httpClient) post(ctx context.Context, endpoint string, headers map[string]string, body string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	r := c.newRequest(ctx, headers)
	r.SetHeader("Content-Type", "application/json")
	r.SetBody(body)
	if out != nil {
		r.SetResult(out)
	}
	resp, err := r.Post(endpoint)
	if err != nil {
		return errors.Wrapf(err, "POST %s", endpoint)
	}
	if resp.IsError() {
		return errors.Errorf("POST %s: status=%d body=%s", endpoint, resp.StatusCode(), resp.String())
	}
	return nil
}
