// Package event is the interception point of the tmdb client. Every call
// publishes typed events through a [Dispatcher]; listeners may rewrite the
// outgoing request, observe the response, or inspect payloads before and
// after they are decoded.
//
// Listeners for an event run by descending priority, then in registration
// order. A listener error aborts the call and is returned to the caller.
//
//	d := event.NewDispatcher()
//	region, _ := listener.RegionFilter("nl")
//	d.AddListener(event.NameBeforeRequest, region, 0)
package event
