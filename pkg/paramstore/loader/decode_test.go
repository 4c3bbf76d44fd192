package loader_test

import (
	"testing"

	"github.com/randalmurphal/paramstore/pkg/paramstore"
	"github.com/randalmurphal/paramstore/pkg/paramstore/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromYAML(t *testing.T) {
	p, err := loader.FromYAML([]byte(`
name: svc
replicas: 3
ratio: 0.25
enabled: true
nothing: ~
quoted: "42"
db:
  host: db.internal
  pool:
    size: 10
empty: {}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "replicas", "ratio", "enabled", "nothing", "quoted", "db.host", "db.pool.size"}, p.Keys())
	assert.Equal(t, map[string]any{
		"name":         "svc",
		"replicas":     int64(3),
		"ratio":        0.25,
		"enabled":      true,
		"nothing":      nil,
		"quoted":       "42",
		"db.host":      "db.internal",
		"db.pool.size": int64(10),
	}, p.ToMap())
}

func TestFromYAML_MergeKeys(t *testing.T) {
	p, err := loader.FromYAML([]byte(`
base: &base
  timeout: 5s
  retries: 2
service:
  <<: *base
  retries: 4
`))
	require.NoError(t, err)

	assert.Equal(t, "5s", paramstore.MustGetOr(p, "service.timeout", ""))
	assert.Equal(t, 4, paramstore.MustGetOr(p, "service.retries", 0))
	assert.Equal(t, 2, paramstore.MustGetOr(p, "base.retries", 0))
}

func TestFromYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"sequence", "hosts: [a, b]", `parameter "hosts": unsupported value type []interface {}`},
		{"scalar root", "just text", "parse yaml: document root must be a mapping"},
		{"sequence root", "- a\n- b", "parse yaml: document root must be a mapping"},
		{"syntax", "a: [", "parse yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.FromYAML([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	p, err := loader.FromYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
}

func TestFromJSON(t *testing.T) {
	p, err := loader.FromJSON([]byte(`{
		"zeta": 1,
		"alpha": {"big": 12345678901234, "ratio": 1.5},
		"flag": false,
		"nothing": null,
		"name": "svc"
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha.big", "alpha.ratio", "flag", "nothing", "name"}, p.Keys())
	v, _ := p.Lookup("alpha.big")
	assert.True(t, paramstore.IntValue(12345678901234).Equal(v))
	v, _ = p.Lookup("alpha.ratio")
	assert.True(t, paramstore.DoubleValue(1.5).Equal(v))
	v, _ = p.Lookup("nothing")
	assert.True(t, v.IsNull())
}

func TestFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"array", `{"a": [1]}`, `parameter "a": unsupported value type []interface {}`},
		{"array root", `[1, 2]`, "parse json: document root must be an object"},
		{"scalar root", `"x"`, "parse json: document root must be an object"},
		{"trailing", `{"a": 1} {"b": 2}`, "parse json: unexpected data after document root"},
		{"syntax", `{"a": }`, "parse json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.FromJSON([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	p, err := loader.FromJSON([]byte("  "))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
}

func TestFromTOML(t *testing.T) {
	p, err := loader.FromTOML([]byte(`
title = "svc"
port = 8080

[owner]
dob = 1979-05-27
since = 1979-05-27T07:32:00Z

[database]
enabled = true
ratio = 0.5
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"database.enabled", "database.ratio", "owner.dob", "owner.since", "port", "title"}, p.Keys())
	assert.Equal(t, "1979-05-27", paramstore.MustGetOr(p, "owner.dob", ""))
	assert.Equal(t, "1979-05-27T07:32:00Z", paramstore.MustGetOr(p, "owner.since", ""))
	assert.Equal(t, 8080, paramstore.MustGetOr(p, "port", 0))
	assert.True(t, paramstore.MustGetOr(p, "database.enabled", false))

	_, err = loader.FromTOML([]byte("hosts = [\"a\"]\n"))
	assert.EqualError(t, err, `parameter "hosts": unsupported value type []interface {}`)
}

func TestFromMap_Nested(t *testing.T) {
	p, err := loader.FromMap(map[string]any{
		"server": map[string]any{"port": 80, "tls": map[string]any{"enabled": false}},
		"name":   "svc",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "server.port", "server.tls.enabled"}, p.Keys())

	_, err = loader.FromMap(map[string]any{"server": map[string]any{"ports": []int{1}}})
	assert.EqualError(t, err, `parameter "server.ports": unsupported value type []int`)
}

func TestDecoders_StoreOptions(t *testing.T) {
	ps := paramstore.NewParsers()
	p, err := loader.FromJSON([]byte(`{"port": "80"}`), loader.WithStoreOptions(paramstore.WithParsers(ps)))
	require.NoError(t, err)

	_, _, err = paramstore.Get[int](p, "port")
	assert.ErrorIs(t, err, paramstore.ErrNoParser)
}
