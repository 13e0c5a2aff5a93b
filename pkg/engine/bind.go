package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// bindPlaceholders substitutes each %s placeholder with its argument
// as a single-quoted literal. Quoting every argument is safe because
// the parser's literal typing rule restores integers from digit-only
// content.
func bindPlaceholders(sql string, args []interface{}) (string, error) {
	parts := strings.Split(sql, "%s")
	if len(parts)-1 != len(args) {
		return "", fmt.Errorf("statement has %d placeholders but %d arguments were given",
			len(parts)-1, len(args))
	}

	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i < len(args) {
			b.WriteString("'")
			b.WriteString(strings.ReplaceAll(literalText(args[i]), "'", "''"))
			b.WriteString("'")
		}
	}
	return b.String(), nil
}

func literalText(arg interface{}) string {
	switch v := arg.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
