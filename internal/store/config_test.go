package store

import "testing"

func validConfig() *Config {
	c := &Config{}
	c.Edgar.UserAgent = "Acme Corp admin@acme.com"
	c.Graph.URI = "bolt://localhost:7687"
	return c
}

func TestValidateFillsDefaults(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Edgar.RequestsPerSec != 10 {
		t.Errorf("expected default requests_per_sec 10, got %d", c.Edgar.RequestsPerSec)
	}
	if c.Edgar.TimeoutSeconds != 30 {
		t.Errorf("expected default timeout_seconds 30, got %d", c.Edgar.TimeoutSeconds)
	}
	if c.OFAC.CacheDir != "data/ofac_cache" {
		t.Errorf("expected default OFAC cache dir, got %q", c.OFAC.CacheDir)
	}
	if c.Scheduler.MinClusterLevel != "medium" {
		t.Errorf("expected default min_cluster_level medium, got %q", c.Scheduler.MinClusterLevel)
	}
	if c.Scheduler.LargePurchaseThreshold != 500000 {
		t.Errorf("expected default large_purchase_threshold 500000, got %v", c.Scheduler.LargePurchaseThreshold)
	}
	if c.Scheduler.CheckpointPath != "data/form4_checkpoint.json" {
		t.Errorf("expected default checkpoint path, got %q", c.Scheduler.CheckpointPath)
	}
	if c.ReviewQueue.StorePath != "data/review_queue.json" {
		t.Errorf("expected default review queue store path, got %q", c.ReviewQueue.StorePath)
	}
}

func TestValidateRejectsMissingUserAgent(t *testing.T) {
	c := validConfig()
	c.Edgar.UserAgent = ""
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing user agent")
	}
}

func TestValidateRejectsPlaceholderUserAgent(t *testing.T) {
	c := validConfig()
	c.Edgar.UserAgent = "placeholder"
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for placeholder user agent")
	}
}

func TestValidateRejectsUserAgentWithoutEmail(t *testing.T) {
	c := validConfig()
	c.Edgar.UserAgent = "Acme Corp"
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for user agent missing an email")
	}
}

func TestValidateRejectsMissingGraphURI(t *testing.T) {
	c := validConfig()
	c.Graph.URI = ""
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing graph URI")
	}
}

func TestValidatePreservesExplicitValues(t *testing.T) {
	c := validConfig()
	c.Edgar.RequestsPerSec = 3
	c.Scheduler.CheckpointPath = "custom/path.json"
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Edgar.RequestsPerSec != 3 {
		t.Errorf("expected explicit requests_per_sec to be preserved, got %d", c.Edgar.RequestsPerSec)
	}
	if c.Scheduler.CheckpointPath != "custom/path.json" {
		t.Errorf("expected explicit checkpoint path to be preserved, got %q", c.Scheduler.CheckpointPath)
	}
}
