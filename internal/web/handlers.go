package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmylchreest/moodboard/internal/apperr"
	"github.com/jmylchreest/moodboard/internal/colour"
	"github.com/jmylchreest/moodboard/internal/image"
	"github.com/jmylchreest/moodboard/internal/moodboard"
	"github.com/jmylchreest/moodboard/internal/prompt"
	"github.com/jmylchreest/moodboard/internal/reply"
)

// ReplyRequest is the JSON body of POST /api/v1/reply.
type ReplyRequest struct {
	Message string `json:"message"`
	Mode    string `json:"mode"`
	Mood    string `json:"mood"`
}

type indexData struct {
	RequestID      string
	DefaultColours int
	MinColours     int
	MaxColours     int
	Moods          []prompt.Mood
}

type moodboardData struct {
	RequestID string
	Board     *moodboard.Board
	Brief     *moodboard.View
	Error     *HandlerError
}

type replyData struct {
	RequestID string
	Message   string
	Result    *reply.Result
	Error     *HandlerError
}

func (app *Application) index(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet)
		app.writeJSON(w, http.StatusMethodNotAllowed, HandlerError{
			ErrorName:        "GET Method Required",
			Description:      ErrGET.Error(),
			PossibleSolution: "Use GET method",
			RequestID:        requestID(r.Context()),
		})
		return
	}
	app.render(w, r, http.StatusOK, "index.html", indexData{
		RequestID:      requestID(r.Context()),
		DefaultColours: colour.DefaultColours,
		MinColours:     colour.MinColours,
		MaxColours:     colour.MaxColours,
		Moods:          prompt.Moods(),
	})
}

func (app *Application) healthz(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"cache_entries": app.Moodboard.Cache().Len(),
		"cache_policy":  app.Moodboard.Cache().Options().Policy(),
	})
}

// readUpload returns the uploaded image bytes, its name and the requested
// colour count.
func (app *Application) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, int, error) {
	const op = "web.upload"

	r.Body = http.MaxBytesReader(w, r.Body, image.MaxImageBytes+1<<20)
	if err := r.ParseMultipartForm(image.MaxImageBytes); err != nil {
		return nil, "", 0, apperr.Wrap(apperr.KindInput, op, err, "could not read upload")
	}

	count := colour.DefaultColours
	if v := strings.TrimSpace(r.FormValue("colours")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, "", 0, apperr.Input(op, fmt.Sprintf("colours must be a number, got %q", v))
		}
		count = n
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", count, apperr.Wrap(apperr.KindInput, op, errNoImage, "image field is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, image.MaxImageBytes+1))
	if err != nil {
		return nil, "", count, apperr.Wrap(apperr.KindInput, op, err, "could not read upload")
	}
	if len(data) > image.MaxImageBytes {
		return nil, "", count, apperr.Input(op, fmt.Sprintf("image exceeds %d bytes", image.MaxImageBytes))
	}
	return data, header.Filename, count, nil
}

// generate runs the image flow. Without a brief only the palette is built.
func (app *Application) generate(r *http.Request, data []byte, name string, count int, withBrief bool) (*moodboard.Result, error) {
	if !withBrief {
		board, err := app.Moodboard.Analyse(r.Context(), name, data, count)
		if err != nil {
			return nil, err
		}
		return &moodboard.Result{Board: board}, nil
	}
	return app.Moodboard.Generate(r.Context(), name, data, count)
}

func wantsBrief(r *http.Request) bool {
	v := strings.ToLower(strings.TrimSpace(r.FormValue("brief")))
	return v != "false" && v != "0" && v != "no"
}

func (app *Application) apiMoodboard(w http.ResponseWriter, r *http.Request) {
	data, name, count, err := app.readUpload(w, r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	res, err := app.generate(r, data, name, count, wantsBrief(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, res)
}

func (app *Application) moodboardPage(w http.ResponseWriter, r *http.Request) {
	page := moodboardData{RequestID: requestID(r.Context())}

	data, name, count, err := app.readUpload(w, r)
	if err != nil {
		app.renderError(w, r, "moodboard.html", err, func(he *HandlerError) any {
			page.Error = he
			return page
		})
		return
	}

	res, err := app.generate(r, data, name, count, wantsBrief(r))
	if res != nil {
		page.Board = res.Board
		if res.Brief != nil {
			view := moodboard.NewView(res.Brief)
			page.Brief = &view
		}
	}
	if err != nil {
		app.renderError(w, r, "moodboard.html", err, func(he *HandlerError) any {
			page.Error = he
			return page
		})
		return
	}
	app.render(w, r, http.StatusOK, "moodboard.html", page)
}

// runReply validates a reply request and runs the selected flow.
func (app *Application) runReply(r *http.Request, req ReplyRequest) (*reply.Result, error) {
	const op = "web.reply"

	mode, err := reply.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	mood := prompt.MoodExhausted
	if mode == reply.ModeVenting && strings.TrimSpace(req.Mood) != "" {
		if mood, err = prompt.ParseMood(req.Mood); err != nil {
			return nil, apperr.Wrap(apperr.KindInput, op, err, "invalid mood")
		}
	}
	return app.Reply.Run(r.Context(), mode, req.Message, mood)
}

func (app *Application) apiReply(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.errorResponse(w, r, apperr.Wrap(apperr.KindInput, "web.reply", err, "Error Parsing JSON"))
		return
	}

	res, err := app.runReply(r, req)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, res)
}

func (app *Application) replyPage(w http.ResponseWriter, r *http.Request) {
	req := ReplyRequest{
		Message: r.FormValue("message"),
		Mode:    r.FormValue("mode"),
		Mood:    r.FormValue("mood"),
	}
	page := replyData{RequestID: requestID(r.Context()), Message: req.Message}

	res, err := app.runReply(r, req)
	page.Result = res
	if err != nil {
		app.renderError(w, r, "reply.html", err, func(he *HandlerError) any {
			page.Error = he
			return page
		})
		return
	}
	app.render(w, r, http.StatusOK, "reply.html", page)
}

// renderError renders a page with an inline error block; fill attaches the
// error to the page data.
func (app *Application) renderError(w http.ResponseWriter, r *http.Request, name string, err error, fill func(*HandlerError) any) {
	status, body := classify(err)
	body.RequestID = requestID(r.Context())
	app.logError(r, status, err)
	app.render(w, r, status, name, fill(&body))
}

func (app *Application) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf strings.Builder
	if err := app.templates.ExecuteTemplate(&buf, name, data); err != nil {
		app.logger.Error("template failed", "template", name, "request_id", requestID(r.Context()), "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, buf.String())
}

func (app *Application) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		app.logger.Warn("failed to write response", "error", err)
	}
}

func joinTags(tags []colour.Tag) string {
	return strings.Join(colour.TagStrings(tags), ", ")
}

func textColour(c colour.RGB) string {
	return colour.ContrastText(c).Hex()
}
