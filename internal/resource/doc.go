// Package resource binds REST resources to the shared cache.
//
// One generic factory covers every admin entity. A parameter set (Params or
// SingletonParams) names the list key, mutation endpoint, main field and
// payload shape; the Collection and Singleton types supply the mutation flow:
//
//  1. mark the resource as mutating and raise a pending notification
//  2. send the request
//  3. on success apply the matching cache edit (append for create,
//     replace for update, remove for delete), notify, call OnSuccess and
//     revalidate any Invalidates keys
//  4. on a 422 hand the response's field map to OnValidationError and show
//     the server message; otherwise show generic failure copy
//
// Delete asks the Confirmer first and does nothing when declined. It removes
// the record from the cache before the request and, if the request fails,
// refetches the list so the record comes back. There is no inverse patch.
package resource
