package geocode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"sperrmuell/models"
	"sperrmuell/utils"
)

// DefaultNominatimURL is the public OSM search endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

const maxResponseBytes = 1 << 20

// Nominatim resolves addresses through a Nominatim-compatible search API.
// Every HTTP attempt, retries included, waits on the shared throttle first.
type Nominatim struct {
	baseURL   string
	userAgent string
	policy    Policy
	client    *retryablehttp.Client
	throttle  *utils.Throttle
	logger    *utils.Logger
}

func NewNominatim(baseURL, userAgent string, policy Policy, logger *utils.Logger) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	n := &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		policy:    policy,
		throttle:  utils.NewThrottle(policy.MinInterval),
		logger:    logger,
	}

	client := retryablehttp.NewClient()
	client.RetryMax = policy.MaxRetries
	client.RetryWaitMin = policy.BaseDelay
	client.RetryWaitMax = policy.MaxDelay
	client.CheckRetry = retryablehttp.DefaultRetryPolicy
	client.Backoff = retryablehttp.DefaultBackoff
	client.Logger = leveledLogger{logger}
	client.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			logger.Warn("[nominatim] Backing off, retry %d for %s", attempt, req.URL.Query().Get("q"))
		}
		// A cancelled wait fails the request itself right after.
		_ = n.throttle.Wait(req.Context())
	}
	n.client = client
	return n
}

func (n *Nominatim) Resolve(ctx context.Context, address string) (models.Point, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Point{}, false, err
	}

	callCtx := ctx
	if n.policy.MaxElapsed > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, n.policy.MaxElapsed)
		defer cancel()
	}

	body, err := n.search(callCtx, address)
	if err != nil {
		if ctx.Err() != nil {
			return models.Point{}, false, ctx.Err()
		}
		n.logger.Warn("[nominatim] Giving up on %s: %v", address, err)
		return models.Point{}, false, nil
	}

	hit := gjson.GetBytes(body, "0")
	if !hit.Exists() {
		n.logger.Debug("[nominatim] No result for %s", address)
		return models.Point{}, false, nil
	}
	if !hit.Get("address.house_number").Exists() {
		n.logger.Debug("[nominatim] No house-number match for %s", address)
		return models.Point{}, false, nil
	}
	lat, lon := hit.Get("lat"), hit.Get("lon")
	if !lat.Exists() || !lon.Exists() {
		n.logger.Warn("[nominatim] Result without coordinates for %s", address)
		return models.Point{}, false, nil
	}
	return models.Point{Label: address, Lat: lat.Float(), Lon: lon.Float()}, true, nil
}

func (n *Nominatim) search(ctx context.Context, address string) ([]byte, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("limit", "1")

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim: build request: %w", err)
	}
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("nominatim: read body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("nominatim: invalid JSON response")
	}
	return body, nil
}

// leveledLogger routes retryablehttp's own messages into the debug log.
type leveledLogger struct {
	log *utils.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.log.Debug("[nominatim] %s %s", msg, pairs(kv)) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.log.Debug("[nominatim] %s %s", msg, pairs(kv)) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.log.Debug("[nominatim] %s %s", msg, pairs(kv)) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.log.Debug("[nominatim] %s %s", msg, pairs(kv)) }

func pairs(kv []interface{}) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
	}
	return b.String()
}
