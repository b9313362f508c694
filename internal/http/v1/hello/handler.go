package hello

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/servlet-greeting/internal/platform/logging"
	"github.com/janisto/servlet-greeting/internal/service/greeting"
)

const (
	// Path is the fixed route of the greeting endpoint.
	Path = "/hello"
	// Prefix is written before the provider's text.
	Prefix = "Hello from Servlet: "

	contentTypeText = "text/plain; charset=utf-8"
	msgUnavailable  = "greeting provider unavailable"
)

// ErrProviderNotWired is returned when the handler was built without a provider.
var ErrProviderNotWired = errors.New("greeting provider not wired")

// Handler answers GET /hello using an injected greeting.Provider.
// It holds no mutable state and is safe for concurrent use.
type Handler struct {
	provider greeting.Provider
}

// NewHandler creates a Handler. A nil provider is accepted; requests then fail
// with 503 instead of the process failing at startup.
func NewHandler(provider greeting.Provider) *Handler {
	return &Handler{provider: provider}
}

// Greet calls the provider once and returns Prefix followed by its text, unmodified.
func (h *Handler) Greet(ctx context.Context) (string, error) {
	if h == nil || h.provider == nil {
		return "", ErrProviderNotWired
	}
	text, err := h.provider.SayHello(ctx)
	if err != nil {
		return "", err
	}
	return Prefix + text, nil
}

// Register adds the greeting operation to api.
func Register(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-hello",
		Method:      http.MethodGet,
		Path:        Path,
		Summary:     "Get greeting",
		Description: "Returns \"" + Prefix + "\" followed by the configured greeting as plain text.",
		Tags:        []string{"Hello"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Greeting text",
				Content: map[string]*huma.MediaType{
					"text/plain": {Schema: &huma.Schema{Type: huma.TypeString, Examples: []any{Prefix + "Hello World!"}}},
				},
			},
		},
		Errors: []int{http.StatusServiceUnavailable},
	}, h.get)
}

func (h *Handler) get(ctx context.Context, _ *struct{}) (*huma.StreamResponse, error) {
	body, err := h.Greet(ctx)
	if err != nil {
		applog.LogError(ctx, "greeting provider failed", err, zap.String("path", Path))
		return nil, huma.Error503ServiceUnavailable(msgUnavailable)
	}

	return &huma.StreamResponse{
		Body: func(hctx huma.Context) {
			hctx.SetHeader("Content-Type", contentTypeText)
			hctx.SetStatus(http.StatusOK)
			if _, err := io.WriteString(hctx.BodyWriter(), body); err != nil {
				// The connection is gone; nothing more can be sent to the client.
				applog.LogError(ctx, "write greeting response", err,
					zap.String("path", Path),
					zap.Int("bodyBytes", len(body)),
				)
			}
		},
	}, nil
}
