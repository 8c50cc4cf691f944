// Package coreerr is a helper package for the plain Go error type, in the
// style of the teacher's own curated-error package: every error created
// with Errorf carries an Errno category so callers can test for a specific
// failure class with Is, without string-matching a formatted message.
//
// Unlike a plain wrapped error, the Error() string produced here collapses
// duplicate adjacent "category: category: message" chains that otherwise
// build up as an error is passed back up through several layers of the
// pipeline and each layer re-annotates it.
package coreerr
