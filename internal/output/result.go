package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tbckr/edl/internal/apperr"
	"github.com/tbckr/edl/internal/validate"
)

// Result is the address list returned for one vendor query.
type Result struct {
	Vendor  string   `json:"vendor"`
	Service string   `json:"service,omitempty"`
	IPs     []string `json:"ips"`
}

// Build normalises every candidate with validate.IPv4, drops the rejects and
// removes duplicates keeping the first occurrence. A list with no surviving
// address is apperr.ErrEmptyResult.
func Build(vendor, service string, candidates []string) (*Result, error) {
	seen := make(map[string]struct{}, len(candidates))
	ips := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ip, ok := validate.IPv4(c)
		if !ok {
			continue
		}
		if _, dup := seen[ip]; dup {
			continue
		}
		seen[ip] = struct{}{}
		ips = append(ips, ip)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: %d candidates, none valid", apperr.ErrEmptyResult, len(candidates))
	}
	return &Result{Vendor: vendor, Service: service, IPs: ips}, nil
}

// WritePlain writes one address per line, each terminated by a newline.
func (r *Result) WritePlain(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, ip := range r.IPs {
		if _, err := bw.WriteString(ip + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTable renders the addresses grouped under vendor and service.
func (r *Result) WriteTable(w io.Writer) error {
	service := r.Service
	if service == "" {
		service = "-"
	}
	tbl := NewGroupedWrappingTable(w, 20, 30)
	tbl.Header([]string{"Vendor", "Service", "Address"})
	rows := make([][]string, 0, len(r.IPs))
	for _, ip := range r.IPs {
		rows = append(rows, []string{r.Vendor, service, StripANSI(ip)})
	}
	if err := tbl.Bulk(rows); err != nil {
		return err
	}
	return tbl.Render()
}
