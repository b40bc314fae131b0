package countries

import (
	"errors"

	"countries_app_echo/internal/models"
)

// ErrFetchFailure marks any network, status or decode failure of the countries endpoint.
var ErrFetchFailure = errors.New("countries: fetch failed")

// FetchResult is the settled outcome of a collection fetch. When Err is set
// Countries is empty.
type FetchResult struct {
	Countries []models.Country
	Err       error
}

// Failed wraps err as a FetchFailure result.
func Failed(err error) FetchResult {
	if err == nil {
		err = ErrFetchFailure
	} else if !errors.Is(err, ErrFetchFailure) {
		err = errors.Join(ErrFetchFailure, err)
	}
	return FetchResult{Err: err}
}

// Succeeded wraps a decoded collection.
func Succeeded(list []models.Country) FetchResult {
	return FetchResult{Countries: list}
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool {
	return r.Err == nil
}
