package models

// ProxyResult is a response to relay verbatim to the browser.
type ProxyResult struct {
	Status int
	Body   []byte
}
