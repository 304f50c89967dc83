package codepipeline_sdk

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline/types"
	"github.com/aws/smithy-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/davarch/lambda-api-ci/internal/domain"
)

// API is the subset of the CodePipeline client the watcher uses.
type API interface {
	ListPipelineExecutions(ctx context.Context, in *codepipeline.ListPipelineExecutionsInput, optFns ...func(*codepipeline.Options)) (*codepipeline.ListPipelineExecutionsOutput, error)
}

type Client struct {
	api    API
	region string

	// MaxElapsed bounds the retries of a single LatestExecution call.
	MaxElapsed time.Duration
}

// New loads the default AWS credential chain. An empty region defers to the
// environment and shared config.
func New(ctx context.Context, region string) (*Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewWithAPI(codepipeline.NewFromConfig(cfg), cfg.Region), nil
}

func NewWithAPI(api API, region string) *Client {
	return &Client{api: api, region: region, MaxElapsed: 10 * time.Second}
}

func (c *Client) LatestExecution(ctx context.Context, ref domain.PipelineRef) (domain.Execution, error) {
	var out domain.Execution

	op := func() error {
		resp, err := c.api.ListPipelineExecutions(ctx, &codepipeline.ListPipelineExecutionsInput{
			PipelineName: aws.String(ref.Name),
			MaxResults:   aws.Int32(1),
		})
		if err != nil {
			if retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}

		if len(resp.PipelineExecutionSummaries) == 0 {
			out = domain.Execution{Pipeline: ref.Name, Status: domain.StatusOther}
			return nil
		}

		out = c.toExecution(ref, resp.PipelineExecutionSummaries[0])
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 300 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = c.MaxElapsed

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return domain.Execution{}, fmt.Errorf("pipeline %s: %w", ref.Name, err)
	}
	return out, nil
}

func (c *Client) toExecution(ref domain.PipelineRef, s types.PipelineExecutionSummary) domain.Execution {
	e := domain.Execution{
		ID:       aws.ToString(s.PipelineExecutionId),
		Pipeline: ref.Name,
		Status:   mapStatus(s.Status),
		Started:  aws.ToTime(s.StartTime),
	}

	if len(s.SourceRevisions) > 0 {
		e.Revision = aws.ToString(s.SourceRevisions[0].RevisionId)
	}

	if e.ID != "" && c.region != "" {
		e.URL = fmt.Sprintf("https://%s.console.aws.amazon.com/codesuite/codepipeline/pipelines/%s/executions/%s/timeline?region=%s",
			c.region, url.PathEscape(ref.Name), url.PathEscape(e.ID), url.QueryEscape(c.region))
	}

	return e
}

func retryable(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "Throttling", "TooManyRequestsException", "RequestLimitExceeded":
			return true
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() >= 500 || respErr.HTTPStatusCode() == 429
	}

	if errors.As(err, &apiErr) {
		return false
	}

	// transport failures (dns, reset, timeout) carry no API error
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func mapStatus(s types.PipelineExecutionStatus) domain.ExecutionStatus {
	switch s {
	case types.PipelineExecutionStatusInProgress:
		return domain.StatusInProgress
	case types.PipelineExecutionStatusSucceeded:
		return domain.StatusSucceeded
	case types.PipelineExecutionStatusFailed:
		return domain.StatusFailed
	case types.PipelineExecutionStatusStopped, types.PipelineExecutionStatusStopping, types.PipelineExecutionStatusCancelled:
		return domain.StatusStopped
	case types.PipelineExecutionStatusSuperseded:
		return domain.StatusSuperseded
	default:
		return domain.StatusOther
	}
}
