package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadRegistryExpandsAWSCredentials(t *testing.T) {
	t.Setenv("TEST_AWS_KEY", "AKID")
	t.Setenv("TEST_AWS_SECRET", "secret")

	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.json")
	raw := `{"publishers":[{"id":"topic","type":"SNS","sns":{"topic_arn":" arn:aws:sns:us-east-1:1:inv ","region":"us-east-1","credentials":{"access_key_id":"${TEST_AWS_KEY}","secret_access_key":"${TEST_AWS_SECRET}"}}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("topic")
	if !ok {
		t.Fatalf("topic publisher missing")
	}
	if cfg.Type != TypeSNS {
		t.Fatalf("type = %q", cfg.Type)
	}
	if cfg.SNS.TopicARN != "arn:aws:sns:us-east-1:1:inv" {
		t.Fatalf("topic arn not trimmed: %q", cfg.SNS.TopicARN)
	}
	if cfg.SNS.Credentials == nil || cfg.SNS.Credentials.AccessKeyID != "AKID" || cfg.SNS.Credentials.SecretAccessKey != "secret" {
		t.Fatalf("credentials not expanded: %#v", cfg.SNS.Credentials)
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: hook
    type: http
    http:
      url: https://example.com
  - id: hook
    type: http
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfigBrokers(t *testing.T) {
	cases := []struct {
		name string
		cfg  PublisherConfig
		ok   bool
	}{
		{"sqs missing region", PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}}, false},
		{"sqs complete", PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q", Region: "us-east-1"}}, true},
		{"sns missing block", PublisherConfig{ID: "s", Type: TypeSNS}, false},
		{"sns complete", PublisherConfig{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn", Region: "us-east-1"}}, true},
		{"pubsub missing topic", PublisherConfig{ID: "p", Type: TypeGCPPubSub, PubSub: &GCPQueueConfig{ProjectID: "proj"}}, false},
		{"pubsub complete", PublisherConfig{ID: "p", Type: TypeGCPPubSub, PubSub: &GCPQueueConfig{ProjectID: "proj", Topic: "t"}}, true},
	}
	for _, tc := range cases {
		err := validatePublisherConfig(tc.cfg)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestSanitizeAWSCredentialsDropsIncomplete(t *testing.T) {
	if got := sanitizeAWSCredentials(&AWSCredentials{AccessKeyID: "AKID"}); got != nil {
		t.Fatalf("expected nil for incomplete credentials, got %#v", got)
	}
}
