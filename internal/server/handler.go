package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resumeparser/internal/errors"
	"resumeparser/internal/formatters"
	"resumeparser/internal/ingest"
	"resumeparser/internal/types"
)

// parseHandler serves POST /parse. A JSON body carries the text and options;
// a text/plain or text/html body is the résumé itself, with options in the query.
func (s *Server) parseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeErrorResponse(w, "Method not allowed", "Use POST", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	span := trace.SpanFromContext(ctx)

	parser := s.parser.Load()
	if parser == nil {
		writeErrorResponse(w, "Service unavailable", "Parser is not ready", http.StatusServiceUnavailable)
		return
	}

	in, format, err := s.decodeParseRequest(r)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.code", errors.CodeOf(err)))
		s.writeAppError(w, err)
		return
	}

	if in.UseAI && !parser.AIEnabled() {
		s.Logger.Debug("AI structuring requested but not configured, parsing heuristically",
			"source", in.SourceName)
	}

	span.SetAttributes(
		attribute.Int("request.text_length", len(in.Text)),
		attribute.Bool("request.use_ai", in.UseAI),
		attribute.String("request.format", format),
	)

	result := parser.Parse(ctx, in)
	w.Header().Set("X-Parse-ID", result.ID)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	s.writeResult(w, result, format, status)
}

// decodeParseRequest reads the request body into parser input and the requested output format
func (s *Server) decodeParseRequest(r *http.Request) (types.ParseResumeInput, string, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "application/json" {
			return s.decodeJSONRequest(r)
		}
	}
	return s.decodeRawRequest(r, contentType)
}

func (s *Server) decodeJSONRequest(r *http.Request) (types.ParseResumeInput, string, error) {
	var req ParseRequest
	if err := parseJSONRequest(r, &req); err != nil {
		return types.ParseResumeInput{}, "", err
	}
	if err := s.validate.Struct(req); err != nil {
		return types.ParseResumeInput{}, "", validationError(err)
	}
	return types.ParseResumeInput{
		Text:       req.Text,
		UseAI:      req.UseAI,
		SourceName: req.SourceName,
	}, defaultFormat(req.Format), nil
}

func (s *Server) decodeRawRequest(r *http.Request, contentType string) (types.ParseResumeInput, string, error) {
	docFormat, err := ingest.FormatFromContentType(contentType)
	if err != nil {
		return types.ParseResumeInput{}, "", err
	}

	query := r.URL.Query()
	useAI := false
	if v := query.Get("useAI"); v != "" {
		if useAI, err = strconv.ParseBool(v); err != nil {
			return types.ParseResumeInput{}, "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
				"useAI must be a boolean", err)
		}
	}
	format := query.Get("format")
	if err := s.validate.Var(format, "omitempty,oneof=json text markdown"); err != nil {
		return types.ParseResumeInput{}, "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"format must be one of json, text, markdown", err)
	}
	source := query.Get("source")
	if err := s.validate.Var(source, "max=255"); err != nil {
		return types.ParseResumeInput{}, "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"source must be at most 255 characters", err)
	}

	body, err := readBody(r)
	if err != nil {
		return types.ParseResumeInput{}, "", err
	}
	if len(body) == 0 {
		return types.ParseResumeInput{}, "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"request body is empty", nil)
	}

	doc, err := ingest.Decode(source, docFormat, body)
	if err != nil {
		return types.ParseResumeInput{}, "", err
	}
	return types.ParseResumeInput{
		Text:       doc.Text,
		UseAI:      useAI,
		SourceName: source,
	}, defaultFormat(format), nil
}

// writeResult renders a parse result as JSON or through the text formatters
func (s *Server) writeResult(w http.ResponseWriter, result types.ParseResult, format string, status int) {
	if format == "json" {
		writeJSON(w, status, result)
		return
	}

	out, err := formatters.GlobalRegistry.Format(result, format)
	if err != nil {
		s.Logger.LogError(err, "Failed to format parse result", "format", format)
		writeErrorResponse(w, "Formatting failed", err.Error(), http.StatusInternalServerError)
		return
	}
	contentType := "text/plain; charset=utf-8"
	if format == "markdown" {
		contentType = "text/markdown; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := io.WriteString(w, out); err != nil {
		s.Logger.Warn("Failed to write parse response", "error", err.Error())
	}
}

// writeAppError maps an application error onto an HTTP status
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		writeErrorResponseWithCode(w, http.StatusText(status), appErr.Message, appErr.Code, status)
		return
	}
	s.Logger.LogError(err, "Unexpected request error")
	writeErrorResponse(w, http.StatusText(status), err.Error(), status)
}

func statusForError(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrCodeInputTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	}
	if errors.IsType(err, errors.ErrorTypeValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// validationError turns validator failures into one readable message
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "invalid request", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return errors.NewValidationError(errors.ErrCodeInvalidRequest, strings.Join(msgs, "; "), err)
}

func defaultFormat(format string) string {
	if format == "" {
		return "json"
	}
	return format
}

// parseJSONRequest decodes a JSON request body into v
func parseJSONRequest(r *http.Request, v any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "failed to parse JSON body", err)
	}
	return nil
}

// readBody reads the whole body, reporting an exceeded size limit as INPUT_TOO_LARGE
func readBody(r *http.Request) ([]byte, error) {
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return nil, errors.NewValidationError(errors.ErrCodeInputTooLarge,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeInvalidRequest, "failed to read request body", err)
	}
	return body, nil
}
