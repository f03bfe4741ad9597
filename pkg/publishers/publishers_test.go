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
  - id: queue
    type: SQS
    sqs:
      uri: " https://sqs.us-east-1.amazonaws.com/000000000000/decisions "
      region: us-east-1
      access_key_id: AKIA
      secret_access_key: secret
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "http2" || enabled[1].ID != "queue" {
		t.Fatalf("expected http2 and queue enabled, got %#v", enabled)
	}
	if enabled[0].HTTP.Method != "POST" || enabled[0].HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %#v", enabled[0].HTTP)
	}

	queue, ok := reg.ByID("queue")
	if !ok {
		t.Fatalf("ByID(queue) not found")
	}
	if queue.Type != TypeSQS || queue.SQS.QueueURL != "https://sqs.us-east-1.amazonaws.com/000000000000/decisions" {
		t.Fatalf("sqs config not sanitized: %#v", queue.SQS)
	}
	if queue.SQS.AccessKeyID != "AKIA" || queue.SQS.SecretAccessKey != "secret" {
		t.Fatalf("inline credentials not decoded: %#v", queue.SQS.AWSAccessConfig)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	raw := `{"publishers":[{"id":"gcp","type":"pubsub","pubsub":{"project_id":"p","topic":"t"}},{"id":"sns","type":"sns","sns":{"topic_arn":"arn:aws:sns:us-east-1:0:t","region":"us-east-1","access_key_id":"k","secret_access_key":"s"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 publishers, got %d", len(reg.All()))
	}
	sns, _ := reg.ByID("sns")
	if sns.SNS.AccessKeyID != "k" {
		t.Fatalf("embedded credentials not decoded from json: %#v", sns.SNS)
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing http block":   {ID: "h1", Type: TypeHTTP},
		"bad http method":      {ID: "h1", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://x", Method: "GET"}},
		"missing sns topic":    {ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "us-east-1"}},
		"missing pubsub topic": {ID: "g1", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}},
		"missing sqs region":   {ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}},
		"unknown type":         {ID: "k1", Type: "kafka"},
		"missing id":           {Type: TypeHTTP},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if err := validatePublisherConfig(cfg); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
