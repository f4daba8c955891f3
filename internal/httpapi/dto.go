package httpapi

import "github.com/goccy/go-json"

type validateRequest struct {
	Schema   json.RawMessage `json:"schema"`
	Value    json.RawMessage `json:"value"`
	FullScan bool            `json:"fullScan"`
}

type validateResponse struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path,omitempty"`
	Pointer string `json:"pointer,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type diffRequest struct {
	A json.RawMessage `json:"a"`
	B json.RawMessage `json:"b"`
}

type diffResponse struct {
	Changes any `json:"changes"`
}
