package dispatch

import (
	"fmt"
	"io"
	"strings"

	"github.com/tbckr/edl/internal/output"
)

// Vendor describes one registered vendor.
type Vendor struct {
	Name            string   `json:"name"`
	Services        []string `json:"services,omitempty"`
	ServiceRequired bool     `json:"service_required"`
}

// VendorList is the result of Dispatcher.Vendors.
type VendorList []Vendor

// WritePlain writes one vendor per line followed by its services.
func (l VendorList) WritePlain(w io.Writer) error {
	for _, v := range l {
		line := v.Name
		if len(v.Services) > 0 {
			line += " " + strings.Join(v.Services, ",")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders the vendors as a table.
func (l VendorList) WriteTable(w io.Writer) error {
	tbl := output.NewWrappingTable(w, 20, 30)
	tbl.Header([]string{"Vendor", "Services", "Service Required"})
	rows := make([][]string, 0, len(l))
	for _, v := range l {
		required := "no"
		if v.ServiceRequired {
			required = "yes"
		}
		rows = append(rows, []string{v.Name, strings.Join(v.Services, ", "), required})
	}
	if err := tbl.Bulk(rows); err != nil {
		return err
	}
	return tbl.Render()
}
