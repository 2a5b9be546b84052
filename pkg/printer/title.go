package printer

import (
	"fmt"
	"reflect"
)

type simpleNamer interface {
	SimpleName() string
}

// FormatTitle renders a graph title as "<id>: <formatted text>". Class-like
// arguments (reflect.Type values and anything with a SimpleName method) are
// replaced by their simple names first.
func FormatTitle(id int, format string, args ...any) string {
	simple := make([]any, len(args))
	for i, a := range args {
		switch x := a.(type) {
		case reflect.Type:
			if x.Name() != "" {
				simple[i] = x.Name()
			} else {
				simple[i] = x.String()
			}
		case simpleNamer:
			simple[i] = x.SimpleName()
		default:
			simple[i] = a
		}
	}
	return fmt.Sprintf("%d: %s", id, fmt.Sprintf(format, simple...))
}
