package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jmylchreest/moodboard/internal/apperr"
	"github.com/jmylchreest/moodboard/internal/response"
)

// HandlerError is the JSON body of every API error.
type HandlerError struct {
	ErrorName        string `json:"errorName"`
	Description      string `json:"description"`
	PossibleSolution string `json:"possibleSolution"`
	RequestID        string `json:"requestId,omitempty"`
	// RawOutput is the model text that failed to parse, for Parse Errors.
	RawOutput string `json:"rawOutput,omitempty"`
}

var (
	ErrGET  = fmt.Errorf("GET method required for this endpoint")
	ErrPOST = fmt.Errorf("POST method required for this endpoint")
)

// errNoImage is returned when an upload carries no file.
var errNoImage = errors.New("no image uploaded")

// classify maps an error to its status code and HandlerError.
func classify(err error) (int, HandlerError) {
	switch apperr.KindOf(err) {
	case apperr.KindInput:
		return http.StatusBadRequest, HandlerError{
			ErrorName:        "Input Error",
			Description:      err.Error(),
			PossibleSolution: "Check the uploaded image or message and try again",
		}
	case apperr.KindParse:
		raw, _ := response.RawText(err)
		return http.StatusBadGateway, HandlerError{
			ErrorName:        "Parse Error",
			Description:      err.Error(),
			PossibleSolution: "The model answered in an unexpected format; retry the request",
			RawOutput:        raw,
		}
	case apperr.KindService:
		return http.StatusBadGateway, HandlerError{
			ErrorName:        "Service Error",
			Description:      err.Error(),
			PossibleSolution: "Check the API key, network connection and quota, then retry",
		}
	case apperr.KindConfiguration:
		return http.StatusInternalServerError, HandlerError{
			ErrorName:        "Configuration Error",
			Description:      err.Error(),
			PossibleSolution: "Set GEMINI_API_KEY in the secrets file or environment and restart",
		}
	default:
		return http.StatusInternalServerError, HandlerError{
			ErrorName:        "Internal Server Error",
			Description:      err.Error(),
			PossibleSolution: "Internal Server Error requiring support",
		}
	}
}

func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	body.RequestID = requestID(r.Context())
	app.logError(r, status, err)
	app.writeJSON(w, status, body)
}

func (app *Application) requirePostMethod(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	app.writeJSON(w, http.StatusMethodNotAllowed, HandlerError{
		ErrorName:        "Post Method Required",
		Description:      ErrPOST.Error() + " you used: " + r.Method,
		PossibleSolution: "Use POST method",
		RequestID:        requestID(r.Context()),
	})
}

func (app *Application) notFound(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusNotFound, HandlerError{
		ErrorName:        "Not Found",
		Description:      "no route for " + r.URL.Path,
		PossibleSolution: "Check the request path",
		RequestID:        requestID(r.Context()),
	})
}

func (app *Application) logError(r *http.Request, status int, err error) {
	args := []any{"request_id", requestID(r.Context()), "path", r.URL.Path, "status", status, "error", err}
	if status >= http.StatusInternalServerError {
		app.logger.Error("request failed", args...)
		return
	}
	app.logger.Warn("request failed", args...)
}
