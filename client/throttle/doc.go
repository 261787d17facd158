// Package throttle provides an [http.RoundTripper] that rate-limits
// outbound HTTP requests using a token-bucket algorithm from
// [golang.org/x/time/rate].
//
// The remote API answers 429 once a client exceeds its request budget,
// so throttling on the client side keeps bulk loads under that budget.
//
//	rt, err := throttle.NewRoundTripper(
//		40, // requests per second
//		20, // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// When the bucket is empty a request waits for its reservation. A request
// whose deadline would pass before the reservation matures fails at once
// with [ErrWaitingFailed]; cancellation while waiting yields [ErrContextEnded].
package throttle
