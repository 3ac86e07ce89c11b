package api

import (
	"net/http"
)

type editTokenOpt struct {
	token string
}

// EditToken appends the capability token as a query parameter, the way the
// lottery service authenticates every mutation.
func EditToken(token string) *editTokenOpt {
	return &editTokenOpt{token: token}
}

func (opt *editTokenOpt) Do(client defaultClient, req *http.Request) {
	q := req.URL.Query()
	q.Set("token", opt.token)
	req.URL.RawQuery = q.Encode()
}
