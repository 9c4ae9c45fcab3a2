package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"clustermon/internal/experiments"
)

func TestEncodeJSONSingleDocument(t *testing.T) {
	var buf bytes.Buffer
	res := experiments.Resolution{Experiment: "a&b", Status: experiments.StatusFound, Path: "/exp/a&b/<run>.out"}
	if err := encodeJSON(&buf, res); err != nil {
		t.Fatalf("encodeJSON: %v", err)
	}
	out := buf.String()
	if !strings.HasSuffix(out, "}\n") || strings.Count(out, "\n}") != 1 {
		t.Fatalf("expected one document ending in a single newline, got %q", out)
	}
	if !strings.Contains(out, `"/exp/a&b/<run>.out"`) {
		t.Fatalf("expected unescaped path, got %q", out)
	}

	dec := json.NewDecoder(&buf)
	var got experiments.Resolution
	if err := dec.Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec.More() {
		t.Fatal("expected nothing after the document")
	}
}

func TestEncodeJSONReportsFailure(t *testing.T) {
	if err := encodeJSON(&bytes.Buffer{}, make(chan int)); err == nil || !strings.Contains(err.Error(), "encode json output") {
		t.Fatalf("expected wrapped encode error, got %v", err)
	}
}
