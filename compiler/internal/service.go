package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"simplelang/logger"
	"time"
)

// CompileRequest is the body of POST /compile.
type CompileRequest struct {
	Source string `json:"source"`
}

// ErrorResponse is returned for every request that did not produce a compile result.
// Traceback is only set when the compiler itself failed.
type ErrorResponse struct {
	Error     string `json:"error"`
	Traceback string `json:"traceback,omitempty"`
}

// SourceCompiler is what the service needs from a compiler. *Compiler implements it.
type SourceCompiler interface {
	Compile(source string) (*Result, error)
	Limits() Limits
}

// Service exposes a compiler over HTTP:
//
//   POST /compile   {"source": "..."} -> Result
//   GET  /healthz
type Service struct {
	compiler SourceCompiler
	mux      *http.ServeMux
}

func NewService(compiler SourceCompiler) *Service {
	service := &Service{compiler: compiler, mux: http.NewServeMux()}
	service.mux.HandleFunc("/compile", service.handleCompile)
	service.mux.HandleFunc("/healthz", service.handleHealth)
	return service
}

func (service *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	service.mux.ServeHTTP(recorder, r)
	logger.LogRequest(r.Method, r.URL.Path, recorder.status, time.Since(start))
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (service *Service) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           service,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	logger.Info("Compile service listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (service *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (service *Service) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	// JSON escaping can make the body bigger than the source it carries.
	maxBody := int64(service.compiler.Limits().MaxSourceBytes)*6 + 1024
	var request CompileRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := decoder.Decode(&request); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := service.compile(request.Source)
	var fault *internalFault
	switch {
	case errors.As(err, &fault):
		logger.Error("Compiler fault", "error", fault.msg)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fault.msg, Traceback: fault.stack})
	case errors.Is(err, ErrSourceTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

type internalFault struct {
	msg   string
	stack string
}

func (fault *internalFault) Error() string {
	return fault.msg
}

// compile turns a panic anywhere in the pipeline into an internalFault.
func (service *Service) compile(source string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &internalFault{msg: fmt.Sprint(r), stack: string(debug.Stack())}
		}
	}()
	return service.compiler.Compile(source)
}

// writeJSON encodes body before anything is sent, so an encoding failure still reaches the
// client as a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		logger.Error("Encoding response failed", "error", err)
		status = http.StatusInternalServerError
		buf.Reset()
		json.NewEncoder(buf).Encode(ErrorResponse{Error: "encoding response failed: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warn("Writing response failed", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(status int) {
	recorder.status = status
	recorder.ResponseWriter.WriteHeader(status)
}
