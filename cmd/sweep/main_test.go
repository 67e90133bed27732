package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepKeepsJobOrder(t *testing.T) {
	jobs := []job{{"hourglass", 1}, {"sandbox", 2}, {"hourglass", 3}}
	base := map[string]string{"w": "24", "h": "20"}
	results, err := sweep(context.Background(), jobs, base, 20, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, jobs[i], r.job)
		assert.Equal(t, 20, r.steps)
		assert.NotEmpty(t, r.population)
	}
}

func TestSweepUnknownScene(t *testing.T) {
	_, err := sweep(context.Background(), []job{{"nowhere", 1}}, nil, 5, 1)
	assert.ErrorContains(t, err, "nowhere seed 1")
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	report(&buf, []scenarioResult{
		{job: job{"sandbox", 2}, settledAt: -1, steps: 10, elapsed: time.Second},
		{job: job{"hourglass", 1}, settledAt: 7, steps: 10, elapsed: time.Second},
	}, time.Second)
	out := buf.String()
	assert.Contains(t, out, "hourglass  seed=1    settled=7")
	assert.Contains(t, out, "settled=never")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("hourglass")), bytes.Index(buf.Bytes(), []byte("sandbox")))
}
