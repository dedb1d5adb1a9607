package adapters

import (
	"context"

	sdk "github.com/inference-gateway/sdk"
	domain "github.com/inference-gateway/triage/internal/domain"
	tracing "github.com/inference-gateway/triage/internal/tracing"
	attribute "go.opentelemetry.io/otel/attribute"
	codes "go.opentelemetry.io/otel/codes"
)

// SDKClientAdapter adapts sdk.Client to domain.SDKClient interface
type SDKClientAdapter struct {
	client sdk.Client
}

// NewSDKClientAdapter creates a new SDK client adapter
func NewSDKClientAdapter(client sdk.Client) domain.SDKClient {
	return &SDKClientAdapter{
		client: client,
	}
}

// WithOptions wraps the SDK client's WithOptions method
func (a *SDKClientAdapter) WithOptions(opts *sdk.CreateChatCompletionRequest) domain.SDKClient {
	return &SDKClientAdapter{
		client: a.client.WithOptions(opts),
	}
}

// WithMiddlewareOptions wraps the SDK client's WithMiddlewareOptions method
func (a *SDKClientAdapter) WithMiddlewareOptions(opts *sdk.MiddlewareOptions) domain.SDKClient {
	return &SDKClientAdapter{
		client: a.client.WithMiddlewareOptions(opts),
	}
}

// GenerateContent wraps the SDK client's GenerateContent method in a span
func (a *SDKClientAdapter) GenerateContent(ctx context.Context, provider sdk.Provider, model string, messages []sdk.Message) (*sdk.CreateChatCompletionResponse, error) {
	ctx, span := tracing.Tracer().Start(ctx, "gateway.generate_content")
	defer span.End()

	span.SetAttributes(
		attribute.String("llm.provider", string(provider)),
		attribute.String("llm.model", model),
		attribute.Int("llm.messages", len(messages)),
	)

	resp, err := a.client.GenerateContent(ctx, provider, model, messages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}
