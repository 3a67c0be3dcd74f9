package hiddengems

import (
	"context"
	"time"

	"hiddengems-bot/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const DefaultLeaderboardUrl = "https://hiddengems.gymnasiumsteglitz.de/scrims"

type Client struct {
	http *resty.Client
	url  string
}

type ClientOptions struct {
	// defaults to DefaultLeaderboardUrl
	Url string
	// wraps the transport in a cloudflare bypass, some deployments of
	// the leaderboard page sit behind it
	CloudflareBypass bool
	// optional debug dump target for raw HTTP exchanges
	InstrumentOutput restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) Client {
	if opts.Url == "" {
		opts.Url = DefaultLeaderboardUrl
	}

	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 15)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	return Client{
		http: client,
		url:  opts.Url,
	}
}

// Fetch performs a single round-trip to the leaderboard page and
// parses it. There is no retry and no caching, a failed request
// surfaces as a FetchError.
func (c Client) Fetch(ctx context.Context) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Snapshot{}, FetchError{Cause: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		err := FetchError{Status: res.StatusCode()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "non-success status")
		return Snapshot{}, err
	}

	return Parse(res.String()), nil
}
