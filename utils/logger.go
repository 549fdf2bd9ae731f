package utils

import (
	"fmt"
	"log/slog"
	"os"
)

var (
	InfoLog  *slog.Logger
	ErrorLog *slog.Logger
)

// InicializarLogger configura los loggers globales
func InicializarLogger(logLevel string, moduleName string) {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler).With("modulo", moduleName)

	InfoLog = logger
	ErrorLog = logger
}

// Traza registra un evento con el formato de traza del simulador:
// "(hilo) - Pasa del estado X al estado Y", "TLB HIT - Página: N",
// "Context switch: viejo -> nuevo". Sale por el logger global en nivel
// debug; con LOG_LEVEL=debug se obtiene la traza completa de ejecución.
func Traza(formato string, args ...interface{}) {
	InfoLog.Debug(fmt.Sprintf(formato, args...))
}

func init() {
	// Los paquetes loguean desde los tests antes de cualquier bootstrap
	InicializarLogger("error", "nachos")
}
