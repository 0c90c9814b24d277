package dolarapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quotedash/internal/quote"
)

// rate is the upstream record. DolarAPI returns either a single object or an
// array of these depending on the endpoint. Prices are pointers so records
// with missing legs can be told apart from genuine zeros and dropped.
type rate struct {
	Casa               string   `json:"casa"`
	Nombre             string   `json:"nombre"`
	Compra             *float64 `json:"compra"`
	Venta              *float64 `json:"venta"`
	FechaActualizacion string   `json:"fechaActualizacion"`
}

// Rates fetches {baseURL}/{path} and maps the payload into normalized quotes.
// The upstream currency label is untrusted; every record's currency is forced
// to forceCurrency. Records that fail schema validation are dropped.
func (c *Client) Rates(ctx context.Context, path, forceCurrency string) ([]quote.Quote, error) {
	url := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return nil, fmt.Errorf("GET %s -> %d: %s", url, resp.StatusCode, string(b))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	records, err := decodeRates(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}

	out := make([]quote.Quote, 0, len(records))
	for _, r := range records {
		if r.Compra == nil || r.Venta == nil {
			continue
		}
		q := quote.Quote{
			InstrumentCode: r.Casa,
			CurrencyCode:   forceCurrency,
			DisplayName:    r.Nombre,
			BuyPrice:       *r.Compra,
			SellPrice:      *r.Venta,
			UpdatedAt:      parseUpdatedAt(r.FechaActualizacion),
		}
		if q.Validate() != nil {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// decodeRates accepts a single JSON object or a JSON array of objects.
func decodeRates(body []byte) ([]rate, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var rs []rate
		if err := json.Unmarshal(body, &rs); err != nil {
			return nil, err
		}
		return rs, nil
	}
	var r rate
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	return []rate{r}, nil
}

// parseUpdatedAt parses the upstream timestamp best-effort. The value is
// upstream-reported freshness, not validated; unparseable input maps to the
// zero time rather than failing the record.
func parseUpdatedAt(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
