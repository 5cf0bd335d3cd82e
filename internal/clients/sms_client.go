package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ahsenkhancoding/backend/internal/config"
	"github.com/ahsenkhancoding/backend/pkg/circuitbreaker"
	"github.com/ahsenkhancoding/backend/pkg/errors"
	"github.com/ahsenkhancoding/backend/pkg/logger"
	"github.com/ahsenkhancoding/backend/pkg/retry"
)

// SMSClient talks to the SMS gateway used to deliver order confirmation
// codes. Calls are bounded by the configured timeout; a failed or timed out
// dispatch is reported to the caller rather than swallowed.
type SMSClient struct {
	gatewayURL  string
	apiKey      string
	senderID    string
	httpClient  *http.Client
	logger      logger.Logger
	retryConfig *retry.RetryConfig
	breaker     *circuitbreaker.CircuitBreaker
}

type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

type smsResponse struct {
	MessageID string `json:"message_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
}

// NewSMSClient creates a new SMSClient
func NewSMSClient(cfg *config.SMSConfig, logger logger.Logger) *SMSClient {
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
	}

	retryConfig := &retry.RetryConfig{
		MaxAttempts: 2,
		BackoffStrategy: &retry.ExponentialBackoff{
			InitialInterval: 300 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2.0,
			JitterFactor:    0.2,
		},
		Logger: logger,
		RetryableErrors: []error{
			errors.ErrTimeout,
			errors.ErrTemporaryFailure,
			errors.ErrServiceUnavailable,
		},
	}

	breaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
		HalfOpenMaxCalls: 2,
	})

	return &SMSClient{
		gatewayURL:  cfg.GatewayURL,
		apiKey:      cfg.APIKey,
		senderID:    cfg.SenderID,
		httpClient:  httpClient,
		logger:      logger,
		retryConfig: retryConfig,
		breaker:     breaker,
	}
}

// Send delivers a message to the given phone number via the gateway
func (c *SMSClient) Send(ctx context.Context, phoneNumber, message string) error {
	if !c.breaker.Allow() {
		c.logger.Warn("SMS gateway circuit open, rejecting send", "phone", phoneNumber)
		return errors.NewTemporaryError("SMS gateway unavailable")
	}

	url := fmt.Sprintf("%s/api/v1/messages", c.gatewayURL)

	sendFunc := func() error {
		reqBody, err := json.Marshal(smsRequest{
			To:      phoneNumber,
			From:    c.senderID,
			Message: message,
		})

		if err != nil {
			return errors.NewInternalError(fmt.Sprintf("failed to marshal request: %v", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))

		if err != nil {
			return errors.NewInternalError(fmt.Sprintf("failed to create request: %v", err))
		}

		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)

		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return errors.NewTimeoutError("SMS request timed out")
			}
			return errors.NewTemporaryError(fmt.Sprintf("failed to send request: %v", err))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)

		if err != nil {
			return errors.NewInternalError(fmt.Sprintf("failed to read response body: %v", err))
		}

		if resp.StatusCode >= 400 {
			if resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout {
				return errors.NewTimeoutError("SMS request timed out")
			}

			if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusInternalServerError {
				return errors.NewTemporaryError(fmt.Sprintf("SMS gateway error: %d", resp.StatusCode))
			}

			return errors.NewAppError(
				errors.ErrInternal,
				fmt.Sprintf("SMS gateway returned error: %d", resp.StatusCode),
				resp.StatusCode,
				false,
			)
		}

		response := &smsResponse{}

		if err := json.Unmarshal(body, response); err != nil {
			return errors.NewInternalError(fmt.Sprintf("failed to parse response: %v", err))
		}

		if response.Error != "" {
			if response.Code == "TIMEOUT" {
				return errors.NewTimeoutError(response.Error)
			}
			return errors.NewTemporaryError(response.Error)
		}

		return nil
	}

	err := retry.Retry(ctx, sendFunc, c.retryConfig)

	if err != nil {
		c.breaker.Failure()
		c.logger.Error("Failed to send SMS after retries", "error", err, "phone", phoneNumber)
		return err
	}

	c.breaker.Success()
	return nil
}
