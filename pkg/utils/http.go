package utils

import (
	"net/http"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
)

func CreateHTTPClientWithTimeouts() *http.Client {
	return &http.Client{
		Timeout: constants.PriceFeedTimeout,
		Transport: &http.Transport{
			TLSHandshakeTimeout:   constants.TLSHandshakeTimeout,
			ResponseHeaderTimeout: constants.ResponseHeaderTimeout,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // Disable redirects to prevent redirect-based SSRF
		},
	}
}
