package worker_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/worker"
)

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("dashboard refresh", func(t *testing.T) {
		builder := newMockBuilder()
		archiver, _ := newArchive()
		job := worker.NewRefreshJob(worker.RefreshJobConfig{Dashboards: builder, Archiver: archiver, Logger: zerolog.Nop()})

		require.NoError(t, worker.HandleMessage(ctx, job, []byte(`{"job_type":"dashboard_refresh"}`)))
		for _, c := range location.Cities() {
			assert.Equal(t, 1, builder.callsFor(c.Slug))
		}
	})

	t.Run("single city", func(t *testing.T) {
		builder := newMockBuilder()
		job := worker.NewRefreshJob(worker.RefreshJobConfig{Dashboards: builder, Logger: zerolog.Nop()})

		require.NoError(t, worker.HandleMessage(ctx, job, []byte(`{"job_type":"dashboard_refresh","city":"osaka"}`)))
		assert.Equal(t, 1, builder.callsFor("osaka"))
		assert.Zero(t, builder.callsFor("tokyo"))
	})

	t.Run("unknown city is malformed", func(t *testing.T) {
		job := worker.NewRefreshJob(worker.RefreshJobConfig{Dashboards: newMockBuilder(), Logger: zerolog.Nop()})

		err := worker.HandleMessage(ctx, job, []byte(`{"job_type":"dashboard_refresh","city":"atlantis"}`))
		assert.ErrorIs(t, err, worker.ErrMalformedMessage)
		assert.ErrorIs(t, err, location.ErrUnknownCity)
	})

	t.Run("mostly failing refresh", func(t *testing.T) {
		builder := newMockBuilder()
		for _, c := range location.Cities() {
			builder.fail[c.Slug] = true
		}
		job := worker.NewRefreshJob(worker.RefreshJobConfig{Dashboards: builder, Logger: zerolog.Nop()})

		err := worker.HandleMessage(ctx, job, []byte(`{"job_type":"dashboard_refresh"}`))
		require.Error(t, err)
		assert.NotErrorIs(t, err, worker.ErrMalformedMessage)
		assert.Contains(t, err.Error(), "too many refresh failures")
	})

	t.Run("health check", func(t *testing.T) {
		builder := newMockBuilder()
		job := worker.NewRefreshJob(worker.RefreshJobConfig{Dashboards: builder, Logger: zerolog.Nop()})

		require.NoError(t, worker.HandleMessage(ctx, job, []byte(`{"job_type":"health_check"}`)))
		assert.Equal(t, 1, builder.callsFor("tokyo"))

		builder.fail["tokyo"] = true
		assert.Error(t, worker.HandleMessage(ctx, job, []byte(`{"job_type":"health_check"}`)))
	})

	t.Run("prune", func(t *testing.T) {
		archiver, _ := newArchive()
		job := worker.NewRefreshJob(worker.RefreshJobConfig{Dashboards: newMockBuilder(), Archiver: archiver, Logger: zerolog.Nop()})

		require.NoError(t, worker.HandleMessage(ctx, job, []byte(`{"job_type":"prune"}`)))
		assert.Equal(t, int64(0), job.GetMetrics().Pruned)
	})

	t.Run("unknown job type is ignored", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)
		builder := newMockBuilder()
		job := worker.NewRefreshJob(worker.RefreshJobConfig{Dashboards: builder, Logger: zerolog.Nop()})

		require.NoError(t, worker.HandleMessage(logger.WithContext(ctx), job, []byte(`{"job_type":"alert_evaluation"}`)))
		assert.Zero(t, builder.callsFor("tokyo"))
		assert.Contains(t, buf.String(), "unknown job type")
	})

	t.Run("invalid json", func(t *testing.T) {
		job := worker.NewRefreshJob(worker.RefreshJobConfig{Dashboards: newMockBuilder(), Logger: zerolog.Nop()})
		assert.ErrorIs(t, worker.HandleMessage(ctx, job, []byte(`{`)), worker.ErrMalformedMessage)
	})
}
