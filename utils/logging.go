package utils

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	SetLoggerConsole(false)
}

var ColourDisabled bool

const (
	colourRed     = 31
	colourGreen   = 32
	colourYellow  = 33
	colourMagenta = 35
	colourBold    = 1
	colourGray    = 90
)

// Helper for escape analysis; avoids go thinking the variadic argument escapes.
// Default "verb" behaviour.
func V[T any](copyThatEscapes T) string {
	return fmt.Sprintf("%v", copyThatEscapes)
}

// Helper for escape analysis; avoids go thinking the variadic argument escapes.
// Uses the given format string.
func F[T any](f string, copyThatEscapes T) string {
	return fmt.Sprintf(f, copyThatEscapes)
}

func colourize(s any, c int) string {
	if ColourDisabled {
		return fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

// SetLevel maps a verbosity count (e.g., from a -d flag) to a zerolog level.
func SetLevel(level int) {
	switch {
	case level <= 0:
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	case level == 1:
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	default:
		log.Logger = log.Logger.Level(zerolog.TraceLevel)
	}
}

// SetLoggerConsole installs a human readable console writer as the global logger.
func SetLoggerConsole(noColour bool) {
	ColourDisabled = noColour
	zerolog.CallerMarshalFunc = callerMarshal

	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly, NoColor: noColour}
	cw.FormatLevel = consoleFormatLevel
	cw.PartsOrder = []string{
		zerolog.TimestampFieldName,
		zerolog.CallerFieldName,
		zerolog.LevelFieldName,
		zerolog.MessageFieldName,
	}
	log.Logger = log.With().Caller().Logger().Output(cw)
}

// Shortens the caller to "file.go.line", padded so that messages line up.
func callerMarshal(pc uintptr, file string, line int) string {
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	file = fmt.Sprintf("%18s.%-4s", file, strconv.Itoa(line))
	if len(file) > 23 {
		file = ".." + file[len(file)-21:]
	}
	return colourize(file, colourGray)
}

func consoleFormatLevel(i any) string {
	ll, ok := i.(string)
	if !ok {
		if i == nil {
			return colourize("| ??? |", colourBold)
		}
		return strings.ToUpper(fmt.Sprintf("| %5s |", i))
	}
	switch ll {
	case zerolog.LevelTraceValue:
		return colourize("| TRACE |", colourMagenta)
	case zerolog.LevelDebugValue:
		return colourize("| DEBUG |", colourYellow)
	case zerolog.LevelInfoValue:
		return colourize("| INFO  |", colourGreen)
	case zerolog.LevelWarnValue:
		return colourize("| WARN  |", colourRed)
	case zerolog.LevelErrorValue:
		return colourize(colourize("| ERROR |", colourRed), colourBold)
	case zerolog.LevelFatalValue:
		return colourize(colourize("| FATAL |", colourRed), colourBold)
	case zerolog.LevelPanicValue:
		return colourize(colourize("| PANIC |", colourRed), colourBold)
	}
	return colourize(ll, colourBold)
}

// Bytes renders a byte count with IEC units (e.g., "1.5 GiB").
func Bytes[T ~int | ~int64 | ~uint64](n T) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}

func MemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Debug().Msg("Memory: Alloc: " + Bytes(m.Alloc) + " Sys: " + Bytes(m.Sys) +
		" HeapInuse: " + Bytes(m.HeapInuse) + " NumGC: " + V(m.NumGC))
}
