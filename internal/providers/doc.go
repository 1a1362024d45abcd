// Package providers talks to the completion API.
//
// Anthropic sends one Messages API request per review through a resty client
// with retries disabled and logs through hclog. Authentication failures are
// reported as a distinct error kind (see IsAuthError) and other non-200
// replies as *StatusError.
package providers
