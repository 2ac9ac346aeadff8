// Package dto holds the JSON shapes of the REST API and their conversions
// from domain entities. Money is rendered as a fixed two-place string.
package dto

import "time"

type PingResponse struct {
	Message    string    `json:"message"`
	ServerTime time.Time `json:"server_time"`
}
