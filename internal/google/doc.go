// Package google manages the OAuth credential used against Google APIs.
//
// The credential lives in a single authorized-user JSON file at a fixed
// path. It is loaded at client construction, refreshed through the standard
// oauth2 flow when expired, and rewritten after a successful refresh. There
// is no interactive authorization flow: a credential that cannot be
// refreshed must be replaced by the operator.
package google
