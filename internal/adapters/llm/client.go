// Package llm implements the remote model ports over an OpenAI-compatible
// chat-completions endpoint.
package llm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/time/rate"
)

// Defaults for the remote endpoint.
const (
	DefaultBaseURL         = "https://api.deepseek.com/beta"
	DefaultReasoningModel  = "deepseek-reasoner"
	DefaultChatModel       = "deepseek-chat"
	DefaultTimeout         = 10 * time.Minute
	DefaultBreakerFailures = 5
	DefaultBreakerCooldown = 30 * time.Second

	completionsPath = "/chat/completions"
	maxErrorBody    = 512
)

// Client talks to the remote model. It is safe for concurrent use: every request
// passes through a shared rate limiter and circuit breaker.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	reasoningModel string
	chatModel      string

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[domain.Completion]
	logger  ports.Logger

	breakerFailures uint32
	breakerCooldown time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithModels sets the reasoning and chat model names. Empty names keep the defaults.
func WithModels(reasoningModel, chatModel string) Option {
	return func(c *Client) {
		if reasoningModel != "" {
			c.reasoningModel = reasoningModel
		}
		if chatModel != "" {
			c.chatModel = chatModel
		}
	}
}

// WithRateLimit bounds outgoing requests. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBreaker opens the circuit after failures consecutive failures and probes again
// after cooldown.
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(c *Client) {
		c.breakerFailures = failures
		c.breakerCooldown = cooldown
	}
}

// WithLogger reports circuit state changes.
func WithLogger(l ports.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client for the endpoint at baseURL.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient:      &http.Client{Timeout: DefaultTimeout},
		baseURL:         strings.TrimRight(baseURL, "/"),
		apiKey:          apiKey,
		reasoningModel:  DefaultReasoningModel,
		chatModel:       DefaultChatModel,
		limiter:         rate.NewLimiter(rate.Inf, 0),
		breakerFailures: DefaultBreakerFailures,
		breakerCooldown: DefaultBreakerCooldown,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[domain.Completion](gobreaker.Settings{
		Name:    "remote-model",
		Timeout: c.breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return c.breakerFailures > 0 && counts.ConsecutiveFailures >= c.breakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if c.logger != nil {
				c.logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			}
		},
	})
	return c
}

// Complete sends req to the reasoning model. An empty model name selects the
// configured reasoning model.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	if req.Model == "" {
		req.Model = c.reasoningModel
	}
	return c.complete(ctx, req)
}

func (c *Client) complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	if c.apiKey == "" {
		return domain.Completion{}, domain.ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Completion{}, err
	}

	completion, err := c.breaker.Execute(func() (domain.Completion, error) {
		return c.do(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.Completion{}, errors.Join(domain.ErrTransientRemote, err)
	}
	return completion, err
}

// chatRequest is the wire form of a chat-completions request.
type chatRequest struct {
	Model     string           `json:"model"`
	Messages  []domain.Message `json:"messages"`
	MaxTokens int              `json:"max_tokens,omitempty"`
	Stream    bool             `json:"stream"`
}

type chatChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

func (c *Client) do(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	body, err := json.Marshal(chatRequest{
		Model:     req.Model,
		Messages:  req.Messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return domain.Completion{}, zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return domain.Completion{}, zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Completion{}, ctxErr
		}
		return domain.Completion{}, errors.Join(domain.ErrTransientRemote, zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error()))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.Completion{}, statusError(resp)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Completion{}, errors.Join(domain.ErrTransientRemote, zerr.Wrap(err, "failed to decode completion"))
	}
	if len(decoded.Choices) == 0 {
		return domain.Completion{}, zerr.With(domain.ErrEmptyCompletion, "model", req.Model)
	}

	choice := decoded.Choices[0]
	return domain.Completion{
		Content:      choice.Message.Content,
		FinishReason: domain.FinishReason(choice.FinishReason),
	}, nil
}

// statusError categorizes a non-200 response. Rate limiting and server faults are transient.
func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	detail := zerr.With(zerr.New(resp.Status), "status", resp.StatusCode)
	detail = zerr.With(detail, "body", strings.TrimSpace(string(snippet)))

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return errors.Join(domain.ErrTransientRemote, domain.ErrRemoteRequestFailed, detail)
	}
	return errors.Join(domain.ErrRemoteRequestFailed, detail)
}
