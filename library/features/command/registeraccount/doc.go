// Package registeraccount implements self registration.
//
// Input is validated before anything is sent. The duplicate email check scans
// the accounts resource, which has no unique constraint of its own.
package registeraccount
