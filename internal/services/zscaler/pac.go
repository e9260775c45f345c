package zscaler

import (
	"context"

	"github.com/tbckr/edl/internal/services"
)

type pacResponse struct {
	IP []string `json:"ip"`
}

func (s *Service) resolvePAC(ctx context.Context, cloud string) ([]string, error) {
	body, err := s.fetcher.Fetch(ctx, expand(s.urls.PAC, cloud))
	if err != nil {
		return nil, err
	}

	var resp pacResponse
	if err := services.DecodeJSON("zscaler pac", body, &resp); err != nil {
		return nil, err
	}
	if resp.IP == nil {
		return nil, services.Malformed("zscaler pac", "missing ip array")
	}
	return resp.IP, nil
}
