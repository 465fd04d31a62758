// Package admission implements a fixed window request counter which
// is used to limit how many requests a single caller can make.
//
// Counter holds the policy: window size and a number of requests
// allowed in a window. Actual counts are kept in a Store: in process
// memory or in Redis if several instances have to share limits.
// Counter fails open: if store cannot answer, request is allowed.
package admission
