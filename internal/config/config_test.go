package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("version: v1\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Engine.FetchWorkers != 8 || cfg.Engine.QueueDepth != 256 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Cases.Path != "configs/cases.yaml" {
		t.Errorf("cases.path = %q", cfg.Cases.Path)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaulted config should validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.yaml")
	body := `version: v1
server:
  addr: ":9090"
engine:
  fetch_workers: 2
  fetch_retries: 3
cases:
  path: /data/cases.yaml
  watch: true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Engine.FetchWorkers != 2 || cfg.Engine.FetchRetries != 3 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !cfg.Cases.Watch || cfg.Cases.Path != "/data/cases.yaml" {
		t.Errorf("unexpected cases conf %+v", cfg.Cases)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Parse([]byte("version: [")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*ServiceConfig)
		wantErr string
	}{
		{name: "ok", mutate: func(*ServiceConfig) {}},
		{name: "no version", mutate: func(c *ServiceConfig) { c.Version = "" }, wantErr: "version is required"},
		{name: "no workers", mutate: func(c *ServiceConfig) { c.Engine.FetchWorkers = 0 }, wantErr: "fetch_workers"},
		{name: "negative retries", mutate: func(c *ServiceConfig) { c.Engine.FetchRetries = -1 }, wantErr: "fetch_retries"},
		{name: "no cases path", mutate: func(c *ServiceConfig) { c.Cases.Path = "" }, wantErr: "cases.path"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := Validate(cfg)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}
