package middleware

import "github.com/aretw0/pagedform/pkg/ports"

// Middleware wraps a SubmissionStore to add behavior.
type Middleware func(ports.SubmissionStore) ports.SubmissionStore

// Chain applies mws to store. The first middleware is the outermost one.
func Chain(store ports.SubmissionStore, mws ...Middleware) ports.SubmissionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
