package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/edl/internal/apperr"
	"github.com/tbckr/edl/internal/services"
)

func TestNewQuery(t *testing.T) {
	params := map[string]string{"region": "eu-west-1", "scope": ""}
	q := services.NewQuery(" aws ", "", params)

	assert.Equal(t, "aws", q.Vendor)
	assert.Equal(t, "amazon", q.ServiceOr("amazon"))
	assert.Equal(t, "eu-west-1", q.Param(services.ParamRegion))
	assert.Equal(t, "", q.Param(services.ParamScope))
	assert.Equal(t, map[string]string{"region": "eu-west-1"}, q.Params())

	// The query must not alias the caller's map.
	params["region"] = "us-east-1"
	assert.Equal(t, "eu-west-1", q.Param(services.ParamRegion))
}

func TestQuery_ServiceOr(t *testing.T) {
	assert.Equal(t, "teams", services.NewQuery("polycom", "teams", nil).ServiceOr("global"))
	assert.Equal(t, "global", services.NewQuery("polycom", "  ", nil).ServiceOr("global"))
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"share", "SharePoint", true},
		{"SHARE", "SharePoint", true},
		{"exchange|skype", "Skype", true},
		{"exchange|skype", "Common", false},
		{"^amazon$", "AMAZON", true},
		{"^amazon$", "AMAZON_CONNECT", false},
		{"amazon", "AMAZON_CONNECT", true},
		{"eu-.*", "eu-west-1", true},
	}
	for _, tc := range tests {
		f, err := services.CompileFilter("service", tc.pattern)
		require.NoError(t, err, tc.pattern)
		assert.Equal(t, tc.want, f.Match(tc.value), "%q against %q", tc.pattern, tc.value)
	}
}

func TestCompileFilter_EmptyMatchesAll(t *testing.T) {
	f, err := services.CompileFilter("service", "")
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.True(t, f.Match("anything"))
}

func TestCompileFilter_Invalid(t *testing.T) {
	_, err := services.CompileFilter("region", "eu-(west")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
	assert.Contains(t, err.Error(), "region")

	long := make([]byte, services.MaxPatternLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = services.CompileFilter("service", string(long))
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestCompileFilter_NoCatastrophicBacktracking(t *testing.T) {
	f, err := services.CompileFilter("service", "(a+)+$")
	require.NoError(t, err)
	input := make([]byte, 10000)
	for i := range input {
		input[i] = 'a'
	}
	input = append(input, 'b')
	assert.False(t, f.Match(string(input)))
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		IP []string `json:"ip"`
	}
	require.NoError(t, services.DecodeJSON("zscaler pac", []byte(`{"ip":["1.2.3.4"]}`), &v))
	assert.Equal(t, []string{"1.2.3.4"}, v.IP)

	err := services.DecodeJSON("zscaler pac", []byte(`<html>`), &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrMalformed)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.Contains(t, err.Error(), "zscaler pac")
}

func TestMalformed(t *testing.T) {
	err := services.Malformed("zscaler hub", "step %s: missing", "rows[0]")
	assert.ErrorIs(t, err, apperr.ErrMalformed)
	assert.Equal(t, "upstream unavailable: malformed response: zscaler hub: step rows[0]: missing", err.Error())
}
