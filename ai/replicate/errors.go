package replicate

import "errors"

var (
	// ErrPredictionFailed indicates the prediction ended in the failed or canceled state.
	ErrPredictionFailed = errors.New("replicate prediction failed")

	// ErrPredictionTimeout indicates the prediction did not finish within the poll budget.
	ErrPredictionTimeout = errors.New("replicate prediction did not finish")

	// ErrEmptyOutput indicates a successful prediction carried no output.
	ErrEmptyOutput = errors.New("replicate prediction returned no output")

	// ErrAPI indicates a non-2xx response from the API.
	ErrAPI = errors.New("replicate api error")
)
