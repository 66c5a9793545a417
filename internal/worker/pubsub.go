package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/cityobservatory/cityobservatory/internal/location"
)

// Job types carried by Pub/Sub messages.
const (
	JobDashboardRefresh = "dashboard_refresh"
	JobHealthCheck      = "health_check"
	JobPrune            = "prune"
)

// ErrMalformedMessage is returned for messages that can never succeed.
var ErrMalformedMessage = errors.New("malformed message")

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	refreshJob       *RefreshJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	RefreshJob       *RefreshJob
	Logger           zerolog.Logger
}

// JobMessage is the payload of a worker message.
type JobMessage struct {
	JobType string `json:"job_type"`
	// City limits a dashboard refresh to one city key.
	City string `json:"city,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		refreshJob:       cfg.RefreshJob,
		logger:           cfg.Logger.With().Str("component", "pubsub").Logger(),
	}, nil
}

// Start receives messages until ctx is done.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		logger := h.logger.With().
			Str("message_id", msg.ID).
			Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
			Logger()

		if err := HandleMessage(logger.WithContext(ctx), h.refreshJob, msg.Data); err != nil {
			logger.Error().Err(err).Msg("job failed")
			if errors.Is(err, ErrMalformedMessage) {
				// Redelivery cannot fix a bad payload.
				msg.Ack()
				return
			}
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

// HandleMessage runs the job described by data. Unknown job types are
// logged and ignored so they are not redelivered.
func HandleMessage(ctx context.Context, job *RefreshJob, data []byte) error {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	var msg JobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	var err error
	switch msg.JobType {
	case JobDashboardRefresh:
		err = handleRefresh(ctx, job, msg)
	case JobHealthCheck:
		err = job.Check(ctx)
	case JobPrune:
		var n int64
		n, err = job.Prune(ctx)
		logger.Info().Int64("pruned", n).Msg("archive pruned")
	default:
		logger.Warn().Str("job_type", msg.JobType).Msg("unknown job type")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", msg.JobType, err)
	}

	logger.Info().
		Str("job_type", msg.JobType).
		Dur("duration", time.Since(start)).
		Msg("job completed successfully")
	return nil
}

func handleRefresh(ctx context.Context, job *RefreshJob, msg JobMessage) error {
	if msg.City != "" {
		loc, err := location.Lookup(msg.City)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedMessage, err)
		}
		return job.RunCity(ctx, loc)
	}

	result := job.Run(ctx)
	// Succeed while at least half the cities refreshed.
	if result.Failed > result.Successful {
		return fmt.Errorf("too many refresh failures: %d/%d", result.Failed, result.TotalCities)
	}
	return nil
}
