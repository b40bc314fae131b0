package models

// Country is a single record returned by the countries endpoint.
// Only these three fields are read; anything else in the payload is ignored.
type Country struct {
	Name   string `json:"name"`
	Region string `json:"region"`
	Flag   string `json:"flag"` // URL of the flag image
}
