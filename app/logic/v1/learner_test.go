package v1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/postpilot-ai/postpilot/app/logic/v1"
)

func TestBatchIngestDryRun(t *testing.T) {
	app := newTestCore(t)
	logic := v1.NewLearnerLogic(ctx, app)

	summary, err := logic.BatchIngest(v1.BatchIngestOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Zero(t, summary.Succeeded)
	assert.Zero(t, summary.Failed)
}

func TestStatus(t *testing.T) {
	app := newTestCore(t)
	logic := v1.NewLearnerLogic(ctx, app)

	status, err := logic.Status()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, int(status.Vectors), 0)
	assert.Equal(t, 1, status.Config.RetrievalK)
	assert.Equal(t, 200, status.Config.MemoryTokenBudget)
}
