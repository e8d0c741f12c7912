package api

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"communitychat/internal/common"
)

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError answers with the error's HTTP status and an ErrorBody.
// Rate-limited responses also carry Retry-After in seconds.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if ce, ok := common.AsChatError(err); ok {
		status = ce.HTTPStatus()
		if ce.RetryAfter > 0 {
			secs := int64(ce.RetryAfter.Seconds() + 0.999)
			w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
		}
	}
	WriteJSON(w, status, ErrorBodyFrom(err))
}

// ReadError decodes an ErrorBody from a non-2xx response.
func ReadError(resp *http.Response) error {
	var body ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Code == "" {
		return &common.TransportError{Err: &httpStatusError{code: resp.StatusCode}}
	}
	if body.Code == "internal" {
		return &common.TransportError{Err: &httpStatusError{code: resp.StatusCode}}
	}
	return body.Err()
}

type httpStatusError struct {
	code int
}

func (e *httpStatusError) Error() string {
	return "http status " + strconv.Itoa(e.code)
}
