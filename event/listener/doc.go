// Package listener provides the stock listeners of the tmdb client:
// credential injection, request filters, standard headers and logging.
package listener
