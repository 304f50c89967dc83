// Package widgets is the API served by the deployed Lambda function.
package widgets

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

type Widget struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Handler struct {
	log     *zap.Logger
	widgets map[string]Widget
}

func NewHandler(log *zap.Logger, widgets []Widget) *Handler {
	m := make(map[string]Widget, len(widgets))
	for _, w := range widgets {
		m[w.Name] = w
	}
	return &Handler{log: log, widgets: m}
}

// Default is the catalogue the function ships with.
func Default() []Widget {
	return []Widget{
		{Name: "sprocket", Description: "toothed wheel"},
		{Name: "gizmo", Description: "small mechanical device"},
		{Name: "doohickey"},
	}
}

func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := strings.Trim(req.Path, "/")
	parts := strings.Split(path, "/")

	if parts[0] != "widgets" || len(parts) > 2 {
		return reply(http.StatusNotFound, errorBody{"not found"})
	}

	if req.HTTPMethod != http.MethodGet {
		resp, err := reply(http.StatusMethodNotAllowed, errorBody{"method not allowed"})
		resp.Headers["Allow"] = http.MethodGet
		return resp, err
	}

	if len(parts) == 1 {
		return reply(http.StatusOK, listBody{Widgets: h.list()})
	}

	w, ok := h.widgets[parts[1]]
	if !ok {
		h.log.Debug("widget not found", zap.String("name", parts[1]))
		return reply(http.StatusNotFound, errorBody{"widget not found"})
	}

	return reply(http.StatusOK, w)
}

func (h *Handler) list() []Widget {
	out := make([]Widget, 0, len(h.widgets))
	for _, w := range h.widgets {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type listBody struct {
	Widgets []Widget `json:"widgets"`
}

type errorBody struct {
	Error string `json:"error"`
}

func reply(status int, v any) (events.APIGatewayProxyResponse, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}, nil
}
