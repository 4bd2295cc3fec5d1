package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu       sync.Mutex
	instance *zap.Logger
)

// Init construye el logger global a partir de la configuración. Solo la
// primera llamada tiene efecto; main debe invocarlo antes de servir.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = build(cfg)
	}
}

// L devuelve el logger global. Si nadie llamó Init (tests, tooling) se
// construye uno de desarrollo con nivel info.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = build(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// Named devuelve un logger con nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With devuelve un logger con campos fijos adicionales.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync vacía los buffers pendientes; se difiere desde main.
func Sync() error {
	mu.Lock()
	l := instance
	mu.Unlock()
	if l == nil {
		return nil
	}
	return l.Sync()
}
