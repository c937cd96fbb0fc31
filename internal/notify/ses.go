package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

const (
	maxRetries     = 3
	baseRetryDelay = 1 * time.Second
)

// SESConfig holds the settings for an SES notifier.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Sender          string
}

// SendEmailAPI is the SES v2 SendEmail operation.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES sends notices through AWS SES v2, retrying transient failures with
// exponential backoff.
type SES struct {
	sender     string
	client     SendEmailAPI
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewSES creates an SES notifier. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain applies.
func NewSES(ctx context.Context, cfg SESConfig, logger *slog.Logger) (*SES, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return NewSESWithClient(cfg.Sender, sesv2.NewFromConfig(awsCfg), baseRetryDelay, logger), nil
}

// NewSESWithClient creates an SES notifier over an existing client.
func NewSESWithClient(sender string, client SendEmailAPI, retryDelay time.Duration, logger *slog.Logger) *SES {
	return &SES{
		sender:     sender,
		client:     client,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

func (s *SES) Notify(ctx context.Context, n Notice) error {
	if n.Owner == "" {
		return nil
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{n.Owner},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subjectFor(n)),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(bodyFor(n)),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			s.logger.DebugContext(ctx, "retrying SES request", "attempt", attempt, "max_retries", maxRetries)
			if err := sleepWithContext(ctx, s.backoff(attempt)); err != nil {
				return fmt.Errorf("context cancelled during retry wait: %w", err)
			}
		}

		_, err := s.client.SendEmail(ctx, input)
		if err == nil {
			return nil
		}

		lastErr = err
		s.logger.WarnContext(ctx, "SES request failed", "attempt", attempt, "error", err)
	}

	return fmt.Errorf("SES request failed after %d retries: %w", maxRetries, lastErr)
}

func (s *SES) Name() string {
	return ProviderSES
}

func (s *SES) backoff(attempt int) time.Duration {
	return s.retryDelay << (attempt - 1)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
