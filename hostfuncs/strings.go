package hostfuncs

import (
	"context"
	"html"
	"net/url"
)

// TextRequest carries a single text argument.
type TextRequest struct {
	Text string `json:"text"`
}

// TextResponse carries a single text result.
type TextResponse struct {
	Text string `json:"text"`
}

// QuerySplitResponse carries decoded query-string fields. Repeated keys
// keep their first value.
type QuerySplitResponse struct {
	Fields map[string]string `json:"fields"`
}

// StringBundle returns the self-contained string helper table:
// string_entity_decode, string_query_escape, string_query_split.
func StringBundle() HostFuncBundle {
	return &staticBundle{
		handlers: map[string]ByteHandler{
			"string_entity_decode": NewJSONHandler(func(ctx context.Context, req TextRequest) (TextResponse, error) {
				return TextResponse{Text: html.UnescapeString(req.Text)}, nil
			}),

			"string_query_escape": NewJSONHandler(func(ctx context.Context, req TextRequest) (TextResponse, error) {
				return TextResponse{Text: url.QueryEscape(req.Text)}, nil
			}),

			"string_query_split": NewJSONHandler(func(ctx context.Context, req TextRequest) (QuerySplitResponse, error) {
				values, err := url.ParseQuery(req.Text)
				if err != nil {
					return QuerySplitResponse{}, err
				}
				fields := make(map[string]string, len(values))
				for k := range values {
					fields[k] = values.Get(k)
				}
				return QuerySplitResponse{Fields: fields}, nil
			}),
		},
	}
}
