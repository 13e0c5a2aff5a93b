package statement

import "strings"

// Classify performs a cheap pre-classification of a SQL statement
// without building an AST. It never fails; callers use it to branch
// before committing to a full Parse.
func Classify(sql string) (bool, Kind) {
	upperSQL := strings.ToUpper(strings.TrimSpace(sql))

	switch {
	case strings.HasPrefix(upperSQL, "INSERT"):
		return true, KindInsert
	case strings.HasPrefix(upperSQL, "SELECT"):
		return true, KindSelect
	case strings.HasPrefix(upperSQL, "UPDATE"):
		return true, KindUpdate
	case strings.HasPrefix(upperSQL, "DELETE"):
		return true, KindDelete
	case strings.HasPrefix(upperSQL, "CREATE"):
		return true, KindCreate
	}

	return false, KindUnknown
}
