package enforce

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// ENFORCE halts the program when query does not hold: a false bool, a non-nil error, or a message string.
// Reserved for programming errors; recoverable conditions are returned as errors instead.
func ENFORCE(query any, args ...any) {
	switch t := query.(type) {
	case bool:
		if !t {
			log.Panic().Msg("ENFORCE: " + fmt.Sprint(args...))
		}
	case error:
		log.Panic().Err(t).Msg("ENFORCE: " + fmt.Sprint(args...))
	case string:
		log.Panic().Msg("ENFORCE: " + t + " " + fmt.Sprint(args...))
	case nil:
		// Allows enforce.ENFORCE(err) on a nil error.
	default:
		log.Panic().Msg("ENFORCE: incorrect usage of enforce with type " + fmt.Sprintf("%T", t))
	}
}
