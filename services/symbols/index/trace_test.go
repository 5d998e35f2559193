// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package index

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var spanRecorder = tracetest.NewSpanRecorder()

func TestMain(m *testing.M) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))
	otel.SetTracerProvider(tp)
	code := m.Run()
	_ = tp.Shutdown(context.Background())
	os.Exit(code)
}

// endedSpans returns the ended spans named name whose trace also holds
// the span root.
func endedSpans(root sdktrace.ReadOnlySpan, name string) []sdktrace.ReadOnlySpan {
	var out []sdktrace.ReadOnlySpan
	for _, s := range spanRecorder.Ended() {
		if s.Name() == name && s.SpanContext().TraceID() == root.SpanContext().TraceID() {
			out = append(out, s)
		}
	}
	return out
}

func lastBuildSpan(t *testing.T) sdktrace.ReadOnlySpan {
	t.Helper()
	var last sdktrace.ReadOnlySpan
	for _, s := range spanRecorder.Ended() {
		if s.Name() == "Indexer.Build" {
			last = s
		}
	}
	require.NotNil(t, last, "no Indexer.Build span recorded")
	return last
}

func attrValue(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestBuild_Spans(t *testing.T) {
	_, err := NewIndexer().Build(context.Background(),
		Pass{Name: "a", Manifest: mustParse(t, "symbols:\n  - name: A::B\n")},
		Pass{Name: "b", Manifest: mustParse(t, "symbols:\n  - name: C\n")},
	)
	require.NoError(t, err)

	span := lastBuildSpan(t)
	assert.Equal(t, codes.Unset, span.Status().Code)

	v, ok := attrValue(span, "index.pass_count")
	require.True(t, ok)
	assert.Equal(t, int64(2), v.AsInt64())

	v, ok = attrValue(span, "index.node_count")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.AsInt64())

	applies := endedSpans(span, "manifest.Apply")
	require.Len(t, applies, 2)
	for _, s := range applies {
		assert.Equal(t, span.SpanContext().SpanID(), s.Parent().SpanID())
	}
}

func TestBuild_SpanRecordsFailure(t *testing.T) {
	_, err := NewIndexer().Build(context.Background(),
		Pass{Name: "bad", Manifest: mustParse(t, "edges:\n  - type: call\n    from: A\n    to: B\n")},
	)
	require.Error(t, err)

	span := lastBuildSpan(t)
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.NotEmpty(t, span.Events(), "error should be recorded as a span event")
}
