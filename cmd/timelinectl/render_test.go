package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/casetimeline/internal/engine"
	"github.com/gyaneshwarpardhi/casetimeline/internal/event"
	"github.com/gyaneshwarpardhi/casetimeline/internal/record"
)

func sampleResult() *engine.Result {
	return &engine.Result{
		CaseID: "c1",
		Events: []event.Event{
			{ID: "doc:d1", Title: "Procuração.pdf", Category: event.CategoryDocs, Date: "2026-01-31", Author: "Maria"},
			{ID: "note:n1", Title: "Sem autor", Category: event.CategoryHumano},
		},
		FailedSources: []record.Kind{record.KindAgenda},
	}
}

func TestWriteTimeline_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTimeline(&buf, sampleResult(), false))
	assert.Equal(t,
		"2026-01-31  [docs]  Procuração.pdf — Maria\n"+
			"-  [humano]  Sem autor\n"+
			"! source agenda unavailable\n",
		buf.String())
}

func TestWriteTimeline_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTimeline(&buf, sampleResult(), true))

	var got engine.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "c1", got.CaseID)
	assert.Len(t, got.Events, 2)
	assert.Equal(t, []record.Kind{record.KindAgenda}, got.FailedSources)
}
