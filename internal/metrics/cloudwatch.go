package metrics

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace                = "DrumScore/API"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// putMetricDataAPI is the slice of the CloudWatch client the metrics use
type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      putMetricDataAPI
	enabled     bool
	environment string
	async       bool
}

// NewClient creates a new CloudWatch metrics client
func NewClient(ctx context.Context, environment string) (*Client, error) {
	// Only enable in production
	if environment != "production" {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &Client{
			enabled:     false,
			environment: environment,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &Client{enabled: false}, nil
	}

	client := cloudwatch.NewFromConfig(cfg)
	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", namespace)

	return &Client{
		client:      client,
		enabled:     true,
		environment: environment,
		async:       true,
	}, nil
}

// RecordAPIRequest records an API request metric
func (m *Client) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	if m == nil || !m.enabled {
		return
	}

	m.dispatch(func(ctx context.Context) {
		// Determine if success or error
		metricName := "APIRequests"
		if statusCode >= httpStatusServerError {
			metricName = "APIErrors"
		}

		dimensions := []types.Dimension{
			{
				Name:  aws.String("Endpoint"),
				Value: aws.String(endpoint),
			},
			m.environmentDimension(),
		}

		if err := m.putMetric(ctx, metricName, 1, types.StandardUnitCount, dimensions); err != nil {
			log.Printf("Failed to record %s metric: %v", metricName, err)
		}

		latencyMs := float64(duration.Milliseconds())
		if err := m.putMetric(ctx, "APILatency", latencyMs, types.StandardUnitMilliseconds, dimensions); err != nil {
			log.Printf("Failed to record APILatency metric: %v", err)
		}
	})
}

// RecordRender records notes rendered, events skipped and render latency
func (m *Client) RecordRender(_ context.Context, format string, notes, skipped int, duration time.Duration, success bool) {
	if m == nil || !m.enabled {
		return
	}

	m.dispatch(func(ctx context.Context) {
		dimensions := []types.Dimension{
			{
				Name:  aws.String("Format"),
				Value: aws.String(format),
			},
			{
				Name:  aws.String("Success"),
				Value: aws.String(boolToString(success)),
			},
			m.environmentDimension(),
		}

		if err := m.putMetric(ctx, "RenderDuration", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions); err != nil {
			log.Printf("Failed to record RenderDuration metric: %v", err)
		}
		if !success {
			return
		}

		if err := m.putMetric(ctx, "NotesRendered", float64(notes), types.StandardUnitCount, dimensions); err != nil {
			log.Printf("Failed to record NotesRendered metric: %v", err)
		}

		// Dropped unknown instruments are the main silent-failure signal
		if skipped > 0 {
			if err := m.putMetric(ctx, "EventsSkipped", float64(skipped), types.StandardUnitCount, dimensions); err != nil {
				log.Printf("Failed to record EventsSkipped metric: %v", err)
			}
		}
	})
}

// RecordValidation records validation outcomes
func (m *Client) RecordValidation(_ context.Context, ok bool, errorCount int) {
	if m == nil || !m.enabled {
		return
	}

	m.dispatch(func(ctx context.Context) {
		dimensions := []types.Dimension{
			{
				Name:  aws.String("Valid"),
				Value: aws.String(boolToString(ok)),
			},
			m.environmentDimension(),
		}

		if err := m.putMetric(ctx, "Validations", 1, types.StandardUnitCount, dimensions); err != nil {
			log.Printf("Failed to record Validations metric: %v", err)
		}
		if errorCount > 0 {
			if err := m.putMetric(ctx, "ValidationErrors", float64(errorCount), types.StandardUnitCount, dimensions); err != nil {
				log.Printf("Failed to record ValidationErrors metric: %v", err)
			}
		}
	})
}

func (m *Client) dispatch(fn func(ctx context.Context)) {
	if m.async {
		go fn(context.Background())
		return
	}
	fn(context.Background())
}

func (m *Client) environmentDimension() types.Dimension {
	return types.Dimension{
		Name:  aws.String("Environment"),
		Value: aws.String(m.environment),
	}
}

// putMetric sends a metric to CloudWatch
func (m *Client) putMetric(
	_ context.Context,
	metricName string,
	value float64,
	unit types.StandardUnit,
	dimensions []types.Dimension,
) error {
	if !m.enabled || m.client == nil {
		return nil
	}

	// Create context with timeout for CloudWatch call
	timeout := time.Duration(cloudwatchTimeoutSeconds) * time.Second
	cwCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, err := m.client.PutMetricData(cwCtx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dimensions,
			},
		},
	})

	return err
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
