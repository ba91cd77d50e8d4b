package ingest

import (
	"testing"
)

func TestParseS3Event(t *testing.T) {
	body := `{
		"Records": [
			{"s3": {"bucket": {"name": "raw-emails"}, "object": {"key": "inbound/abc%40def.eml"}}},
			{"s3": {"bucket": {"name": "raw-emails"}, "object": {"key": "inbound/with+space.eml"}}}
		]
	}`
	refs, err := parseS3Event([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 2 {
		t.Fatalf("Got %v refs, want: 2", len(refs))
	}
	if refs[0].Bucket != "raw-emails" {
		t.Errorf("Got bucket %q, want: %q", refs[0].Bucket, "raw-emails")
	}
	// Keys arrive URL-encoded.
	if refs[0].Key != "inbound/abc@def.eml" {
		t.Errorf("Got key %q, want: %q", refs[0].Key, "inbound/abc@def.eml")
	}
	if refs[1].Key != "inbound/with space.eml" {
		t.Errorf("Got key %q, want: %q", refs[1].Key, "inbound/with space.eml")
	}
}

func TestParseS3EventErrors(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "not json", body: "not json"},
		{name: "empty records", body: `{"Records": []}`},
		{name: "no records", body: `{}`},
		{name: "bad key encoding", body: `{"Records": [{"s3": {"object": {"key": "bad%zz"}}}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseS3Event([]byte(tc.body)); err == nil {
				t.Errorf("Got nil error for %q, want error", tc.body)
			}
		})
	}
}
