// Package client provides the HTTP core the tmdb package is built on:
// a configurable [net/http] client with a composable transport chain.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//		client.WithThrottle(40, 20),
//	)
//
// # Making Requests
//
// Construct a [URL] and [Request], then execute with [Client.Do]:
//
//	base, _ := url.Parse("https://api.themoviedb.org/3")
//	u := client.URL(base, "/movie/550")
//	req, err := client.Request(ctx, u, http.MethodGet)
//	err = c.Do(req, http.StatusOK, client.WithDestination(&movie))
//
// # Downloading Files
//
// Stream a response body directly to disk:
//
//	err = c.Download(req, http.StatusOK, "/tmp/poster.jpg",
//		download.WithSkipExisting(),
//	)
//
// Every call is wrapped in an OpenTelemetry client span; a no-op tracer
// is used unless one is given via [WithTracer].
package client
