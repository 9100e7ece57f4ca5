package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/justgrid/pkg/observability"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const stateKey ctxKey = iota

// requestState is shared between the middleware and the handlers of one
// request.
type requestState struct {
	id   string
	code string // error code written, if any
}

func stateFrom(ctx context.Context) *requestState {
	if st, ok := ctx.Value(stateKey).(*requestState); ok {
		return st
	}
	return &requestState{}
}

// RequestID returns the ID assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	return stateFrom(ctx).id
}

// requestID reuses a well-formed incoming X-Request-ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), stateKey, &requestState{id: id})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		hooks := observability.Current()
		hooks.RequestStarted(r.Context(), r.Method)

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		dur := time.Since(start)
		ctx := r.Context()

		st := stateFrom(ctx)
		hooks.Request(ctx, observability.RequestEvent{
			Method:   r.Method,
			Route:    route,
			Status:   rec.status,
			Duration: dur,
			Code:     st.code,
		})

		fields := []any{
			"method", r.Method,
			"route", route,
			"status", strconv.Itoa(rec.status),
			"bytes", rec.bytes,
			"duration", dur,
			"request_id", st.id,
		}
		switch {
		case rec.status >= 500:
			s.logger.Error("request", append(fields, "code", st.code)...)
		case rec.status >= 400:
			s.logger.Warn("request", append(fields, "code", st.code)...)
		default:
			s.logger.Debug("request", fields...)
		}
	})
}

// limitBody caps request bodies at s.maxBody.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
		next.ServeHTTP(w, r)
	})
}
