// Package params provides helpers for reading and writing the decoded
// application/x-www-form-urlencoded parameter map used by OAuth token requests.
//
// Every grant parser reads its fields through First so that the
// "first value or absent" rule is applied the same way everywhere.
package params
