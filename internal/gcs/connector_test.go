package gcs

import (
	"testing"
	"time"

	"cloud.google.com/go/storage"
)

func TestClientOptions_CredentialPrecedence(t *testing.T) {
	cases := []struct {
		name       string
		path, json string
		wantSource string
		wantOpts   int
	}{
		{"file wins", "/tmp/sa.json", `{"type":"service_account"}`, "file", 1},
		{"json when no file", "", `{"type":"service_account"}`, "json", 1},
		{"default when neither", "", "", "default", 0},
		{"blank json is default", "", "   ", "default", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New("proj", tc.path, tc.json)
			opts, source := c.clientOptions()
			if source != tc.wantSource || len(opts) != tc.wantOpts {
				t.Fatalf("got (%d opts, %q), want (%d, %q)", len(opts), source, tc.wantOpts, tc.wantSource)
			}
		})
	}
}

func TestGsURL(t *testing.T) {
	if got := gsURL("bkt", "a/b.txt"); got != "gs://bkt/a/b.txt" {
		t.Fatalf("unexpected URL %q", got)
	}
}

func TestInfoFromAttrs(t *testing.T) {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	attrs := &storage.ObjectAttrs{
		Name:        "sessions/x/transcript.json",
		Size:        42,
		ContentType: "application/json",
		Created:     created,
		Updated:     created.Add(time.Minute),
		MD5:         []byte{0xde, 0xad, 0xbe, 0xef},
		Metadata:    map[string]string{"session": "x"},
	}
	info := infoFromAttrs("bkt", attrs)
	if info.URL != "gs://bkt/sessions/x/transcript.json" || info.Size != 42 {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.MD5 != "3q2+7w==" {
		t.Fatalf("MD5 not base64 encoded: %q", info.MD5)
	}
	if info.Metadata["session"] != "x" {
		t.Fatalf("metadata lost: %+v", info.Metadata)
	}
}

func TestInfoFromAttrs_NilAttrs(t *testing.T) {
	info := infoFromAttrs("bkt", nil)
	if info.Bucket != "bkt" || info.Name != "" {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestCloseWithoutClientIsNoop(t *testing.T) {
	if err := New("", "", "").Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
