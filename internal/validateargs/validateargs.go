package validateargs

import (
	"fmt"
	"strings"
)

// sensitiveArgs hold secrets that end up in process listings when given on
// the command line
var sensitiveArgs = []string{"sentry-dsn"}

// Sensitive returns an error naming every sensitive flag found in args.
// Both -flag and --flag forms are detected, with or without =value.
func Sensitive(args []string) error {
	var found []string

	for _, arg := range args {
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}

		if i := strings.Index(name, "="); i >= 0 {
			name = name[:i]
		}

		for _, sensitive := range sensitiveArgs {
			if name == sensitive {
				found = append(found, "-"+sensitive)
			}
		}
	}

	if len(found) > 0 {
		return fmt.Errorf("%s should be set through the environment or -config instead of command line arguments", strings.Join(found, ", "))
	}

	return nil
}
