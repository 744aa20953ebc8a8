package web

import "net/http"

// Routes builds the HTTP handler.
func (app *Application) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/{$}", app.index)
	mux.HandleFunc("/moodboard", app.post(app.moodboardPage))
	mux.HandleFunc("/reply", app.post(app.replyPage))
	mux.HandleFunc("/api/v1/moodboard", app.post(app.apiMoodboard))
	mux.HandleFunc("/api/v1/reply", app.post(app.apiReply))
	mux.HandleFunc("/healthz", app.healthz)
	mux.HandleFunc("/", app.notFound)

	return app.withRequestID(mux)
}

// post rejects every method but POST.
func (app *Application) post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			app.requirePostMethod(w, r)
			return
		}
		h(w, r)
	}
}
