// Package middleware validates net/http requests with a skema chain.
//
// The request is gathered into one object {headers, params, query, files,
// body} and parsed with ParseAsync. The parsed parts are stored in the
// request context; on failure the handler answers 400 with a JSON payload.
package middleware

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/source"
)

// Request is the parsed view of an HTTP request.
type Request struct {
	Headers map[string]any
	Params  map[string]any
	Query   map[string]any
	Files   map[string]any
	Body    any
}

type ctxKeyRequest struct{}

// ContextWithRequest attaches a parsed Request to ctx.
func ContextWithRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, ctxKeyRequest{}, req)
}

// FromContext returns the Request stored by Validate.
func FromContext(ctx context.Context) (Request, bool) {
	req, ok := ctx.Value(ctxKeyRequest{}).(Request)
	return req, ok
}

// Options configures Validate.
type Options struct {
	// Params names the path parameters read with (*http.Request).PathValue.
	Params []string
	// MaxBodyBytes limits the body size; zero means 10 MiB.
	MaxBodyBytes int64
	// MaxMemory bounds multipart parsing; zero means 32 MiB.
	MaxMemory int64
	// OnError writes the failure response; nil writes a 400 JSON payload.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

const (
	defaultMaxBody   = 10 << 20
	defaultMaxMemory = 32 << 20
)

func (o Options) withDefaults() Options {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBody
	}
	if o.MaxMemory <= 0 {
		o.MaxMemory = defaultMaxMemory
	}
	return o
}

// ErrBody is returned for a body that cannot be decoded or exceeds
// MaxBodyBytes.
var ErrBody = errors.New("middleware: invalid request body")

// Validate returns middleware that parses every request with s.
func Validate(s skema.Runner, opts Options) func(http.Handler) http.Handler {
	opts = opts.withDefaults()
	if opts.OnError == nil {
		opts.OnError = WriteError
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agg, err := Gather(r, opts)
			if err != nil {
				opts.OnError(w, r, err)
				return
			}
			out, err := s.ParseAsync(r.Context(), agg)
			if err != nil {
				skema.L().Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
				opts.OnError(w, r, err)
				return
			}
			parsed, _ := out.(map[string]any)
			next.ServeHTTP(w, r.WithContext(ContextWithRequest(r.Context(), apply(parsed))))
		})
	}
}

// Gather builds the aggregate object checked by Validate.
func Gather(r *http.Request, opts Options) (map[string]any, error) {
	opts = opts.withDefaults()
	headers := make(map[string]any, len(r.Header))
	for k, vs := range r.Header {
		headers[strings.ToLower(k)] = flatten(vs)
	}
	query := make(map[string]any)
	for k, vs := range r.URL.Query() {
		query[k] = flatten(vs)
	}
	params := make(map[string]any, len(opts.Params))
	for _, name := range opts.Params {
		if v := r.PathValue(name); v != "" {
			params[name] = v
		}
	}
	files := make(map[string]any)
	body, err := readBody(r, opts, files)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"headers": headers,
		"params":  params,
		"query":   query,
		"files":   files,
		"body":    body,
	}, nil
}

func readBody(r *http.Request, opts Options, files map[string]any) (any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return skema.Undefined, nil
	}
	// oversized bodies fail with *http.MaxBytesError
	r.Body = http.MaxBytesReader(nil, r.Body, opts.MaxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		body, err := source.JSONReader(r.Body, source.Options{Duplicates: source.DuplicateError})
		if err != nil {
			return nil, errors.Join(ErrBody, err)
		}
		return body, nil
	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, errors.Join(ErrBody, err)
		}
		form := make(map[string]any, len(r.PostForm))
		for k, vs := range r.PostForm {
			form[k] = flatten(vs)
		}
		return form, nil
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(opts.MaxMemory); err != nil {
			return nil, errors.Join(ErrBody, err)
		}
		form := make(map[string]any, len(r.MultipartForm.Value))
		for k, vs := range r.MultipartForm.Value {
			form[k] = flatten(vs)
		}
		for k, fhs := range r.MultipartForm.File {
			list := make([]any, len(fhs))
			for i, fh := range fhs {
				list[i] = map[string]any{
					"name": fh.Filename,
					"size": fh.Size,
					"type": fh.Header.Get("Content-Type"),
				}
			}
			if len(list) == 1 {
				files[k] = list[0]
			} else {
				files[k] = list
			}
		}
		return form, nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.Join(ErrBody, err)
	}
	if len(data) == 0 {
		return skema.Undefined, nil
	}
	return string(data), nil
}

func flatten(vs []string) any {
	if len(vs) == 1 {
		return vs[0]
	}
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func apply(parsed map[string]any) Request {
	part := func(k string) map[string]any {
		m, _ := parsed[k].(map[string]any)
		return m
	}
	body := parsed["body"]
	if skema.IsUndefined(body) {
		body = nil
	}
	return Request{
		Headers: part("headers"),
		Params:  part("params"),
		Query:   part("query"),
		Files:   part("files"),
		Body:    body,
	}
}

// ErrorPayload shapes a validation failure for JSON responses.
func ErrorPayload(err error) map[string]any {
	payload := map[string]any{"message": err.Error()}
	if errs, ok := skema.AsValidationErrors(err); ok {
		payload["errors"] = errs
	}
	return payload
}

// WriteError answers 400 with ErrorPayload.
func WriteError(w http.ResponseWriter, _ *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(ErrorPayload(err))
}
