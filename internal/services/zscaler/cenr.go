package zscaler

import (
	"context"
	"encoding/json"

	"github.com/tbckr/edl/internal/services"
)

type datacentre struct {
	Range string `json:"range"`
}

// resolveCENR walks <cloud> → continent → city → datacentres and collects
// each datacentre's range in document order. Cities may hold their
// datacentres as an array or as an object.
func (s *Service) resolveCENR(ctx context.Context, cloud string) ([]string, error) {
	body, err := s.fetcher.Fetch(ctx, expand(s.urls.CENR, cloud))
	if err != nil {
		return nil, err
	}

	var root map[string]json.RawMessage
	if err := services.DecodeJSON("zscaler cenr", body, &root); err != nil {
		return nil, err
	}
	continents, ok := root[cloud]
	if !ok {
		return nil, services.Malformed("zscaler cenr", "missing %q key", cloud)
	}

	continentList, err := members(continents)
	if err != nil {
		return nil, services.Malformed("zscaler cenr", "continents: %v", err)
	}

	var ips []string
	for _, continent := range continentList {
		cities, err := members(continent)
		if err != nil {
			return nil, services.Malformed("zscaler cenr", "cities: %v", err)
		}
		for _, city := range cities {
			dcs, err := members(city)
			if err != nil {
				return nil, services.Malformed("zscaler cenr", "datacentres: %v", err)
			}
			for _, raw := range dcs {
				var dc datacentre
				if json.Unmarshal(raw, &dc) != nil || dc.Range == "" {
					continue
				}
				ips = append(ips, dc.Range)
			}
		}
	}
	return ips, nil
}
