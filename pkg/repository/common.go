package repository

import "strings"

// criticalError marks an error as non-retryable so the toggle retry loop
// gives up instead of hammering the database. Unwrapped by the caller
// before it leaves the repository.
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search text;
// queries using the result must carry an ESCAPE '\' clause
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// isLockError reports whether the error is a transient SQLite busy/locked
// condition worth retrying. The driver exposes these only as message text.
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{"SQLITE_BUSY", "database is locked", "database table is locked"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
