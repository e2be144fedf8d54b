package gradcafe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"gradharvest/lib/restyutil"
)

const publicBaseUrl = "https://www.thegradcafe.com"

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// defaults to the public site
	BaseUrl string
	// bounded retries on transient failures, defaults to 3
	RetryCount int
	// defaults to 500ms
	RetryWaitTime time.Duration
	// defaults to 30s
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = publicBaseUrl
	}
	if opts.RetryCount == 0 {
		opts.RetryCount = 3
	}
	if opts.RetryWaitTime == 0 {
		opts.RetryWaitTime = time.Millisecond * 500
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)

	client.SetRetryCount(opts.RetryCount)
	client.SetRetryWaitTime(opts.RetryWaitTime)
	client.SetRetryMaxWaitTime(opts.RetryWaitTime * 10)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return isRetryableStatus(res.StatusCode())
	})

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// PageUrl renders the survey url for a search query and 1-based page index.
func (c *Client) PageUrl(query string, page int) string {
	values := url.Values{}
	values.Set("q", query)
	values.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("%s/survey/?%s", strings.TrimRight(c.BaseUrl.String(), "/"), values.Encode())
}

// FetchPage retrieves one survey page. Transient failures are retried a
// bounded number of times; a non-2xx final status is not an error here, the
// caller decides whether to skip the page.
func (c *Client) FetchPage(ctx context.Context, pageUrl string) (int, []byte, error) {
	ctx, span := tracer.Start(ctx, "FetchPage")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageUrl))

	res, err := c.Http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return 0, nil, err
	}

	span.SetAttributes(attribute.Int("status", res.StatusCode()))
	return res.StatusCode(), res.Body(), nil
}
