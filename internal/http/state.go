package http

import (
	"net/http"
	"net/url"
)

const stateCookie = "ledger_state"

// AppState is the per-browser UI state. It travels in a cookie so the server
// keeps none between requests.
type AppState struct {
	Exited bool
}

// DecodeAppState reads the state from r. A missing or malformed cookie gives
// the zero state.
func DecodeAppState(r *http.Request) AppState {
	c, err := r.Cookie(stateCookie)
	if err != nil {
		return AppState{}
	}
	v, err := url.ParseQuery(c.Value)
	if err != nil {
		return AppState{}
	}
	return AppState{Exited: v.Get("exited") == "1"}
}

// Encode writes the state back to the response.
func (s AppState) Encode(w http.ResponseWriter) {
	c := &http.Cookie{
		Name:     stateCookie,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s == (AppState{}) {
		c.MaxAge = -1
	} else {
		v := url.Values{}
		if s.Exited {
			v.Set("exited", "1")
		}
		c.Value = v.Encode()
	}
	http.SetCookie(w, c)
}
