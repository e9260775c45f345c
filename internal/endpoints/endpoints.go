// Package endpoints holds the table of vendor feed URLs.
//
// The defaults are embedded; an override file with the same keys may replace
// any subset of them, which lets operators follow a vendor that moves its
// feed without a rebuild.
package endpoints

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed endpoints.yaml
var embeddedEndpoints []byte

// Endpoints maps each feed to its URL template (or hostname template for polycom).
type Endpoints struct {
	Microsoft   string `yaml:"microsoft"`
	Okta        string `yaml:"okta"`
	AWS         string `yaml:"aws"`
	GCP         string `yaml:"gcp"`
	ZscalerPAC  string `yaml:"zscaler_pac"`
	ZscalerCENR string `yaml:"zscaler_cenr"`
	ZscalerHub  string `yaml:"zscaler_hub"`
	PolycomHost string `yaml:"polycom_host"`
}

// Default returns the embedded endpoint table.
func Default() Endpoints {
	var e Endpoints
	if err := yaml.Unmarshal(embeddedEndpoints, &e); err != nil {
		panic(fmt.Sprintf("parsing embedded endpoints: %v", err))
	}
	return e
}

// Load returns the embedded table with every non-empty key of the YAML file at
// path applied on top. An empty path or a missing file yields the defaults.
func Load(path string) (Endpoints, error) {
	e := Default()
	if path == "" {
		return e, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return e, nil
		}
		return Endpoints{}, fmt.Errorf("reading endpoints file %q: %w", path, err)
	}
	var override Endpoints
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Endpoints{}, fmt.Errorf("parsing endpoints file %q: %w", path, err)
	}
	e.merge(override)
	return e, nil
}

func (e *Endpoints) merge(o Endpoints) {
	type field struct {
		dst *string
		src string
	}
	for _, f := range []field{
		{&e.Microsoft, o.Microsoft},
		{&e.Okta, o.Okta},
		{&e.AWS, o.AWS},
		{&e.GCP, o.GCP},
		{&e.ZscalerPAC, o.ZscalerPAC},
		{&e.ZscalerCENR, o.ZscalerCENR},
		{&e.ZscalerHub, o.ZscalerHub},
		{&e.PolycomHost, o.PolycomHost},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}

// Expand substitutes {name} placeholders in template with vars.
func Expand(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
