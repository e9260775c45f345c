package zscaler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tbckr/edl/internal/services"
	"github.com/tbckr/edl/internal/worker"
)

// hubIndex is the position of the hub address table in the fcr data array.
const hubIndex = 9

// hubHosts returns the hostnames whose A records are added to the hub list.
func hubHosts(cloud string) []string {
	return []string{"mobile." + cloud, "login." + cloud}
}

func (s *Service) resolveHub(ctx context.Context, cloud string) ([]string, error) {
	body, err := s.fetcher.Fetch(ctx, expand(s.urls.Hub, cloud))
	if err != nil {
		return nil, err
	}

	ips, err := parseHub(body)
	if err != nil {
		return nil, err
	}

	// A failed lookup only loses that host's addresses.
	for _, r := range worker.Run(ctx, hubHosts(cloud), 2, s.resolver.LookupA) {
		if r.Err != nil {
			s.logger.Warn("hub hostname lookup failed, skipping", "host", r.Input, "error", r.Err)
			continue
		}
		ips = append(ips, r.Output...)
	}
	return ips, nil
}

// hubError reports which step of the hub traversal failed.
func hubError(step, format string, args ...any) error {
	return services.Malformed("zscaler hub", "step %s: %s", step, fmt.Sprintf(format, args...))
}

// parseHub extracts the non-empty "required" values from
// data[9].body.json.rows[0].cols of the fcr response. The path is not a
// published API, so every step fails with its own error.
func parseHub(body []byte) ([]string, error) {
	var root struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, hubError("data", "decoding response: %v", err)
	}
	if root.Data == nil {
		return nil, hubError("data", "missing")
	}

	var data []json.RawMessage
	if err := json.Unmarshal(root.Data, &data); err != nil {
		return nil, hubError("data", "not an array: %v", err)
	}
	if len(data) <= hubIndex {
		return nil, hubError("data[9]", "array has only %d entries", len(data))
	}

	var section struct {
		Body *struct {
			JSON json.RawMessage `json:"json"`
		} `json:"body"`
	}
	if err := json.Unmarshal(data[hubIndex], &section); err != nil {
		return nil, hubError("data[9]", "not an object: %v", err)
	}
	if section.Body == nil || section.Body.JSON == nil {
		return nil, hubError("body.json", "missing")
	}

	var table struct {
		Rows []json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(section.Body.JSON, &table); err != nil {
		return nil, hubError("body.json", "not an object: %v", err)
	}
	if len(table.Rows) == 0 {
		return nil, hubError("rows[0]", "no rows")
	}

	var row struct {
		Cols json.RawMessage `json:"cols"`
	}
	if err := json.Unmarshal(table.Rows[0], &row); err != nil {
		return nil, hubError("rows[0]", "not an object: %v", err)
	}
	if row.Cols == nil {
		return nil, hubError("cols", "missing")
	}

	cols, err := members(row.Cols)
	if err != nil {
		return nil, hubError("cols", "%v", err)
	}

	var ips []string
	for _, raw := range cols {
		var col struct {
			Required any `json:"required"`
		}
		if json.Unmarshal(raw, &col) != nil {
			continue
		}
		if v, ok := col.Required.(string); ok && v != "" {
			ips = append(ips, v)
		}
	}
	return ips, nil
}
