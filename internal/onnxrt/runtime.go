// Package onnxrt owns the process-wide ONNX Runtime environment and
// wraps model sessions with name-based input feeding.
//
// The underlying runtime is a shared library loaded once per process,
// so the environment has an explicit lifecycle: Init at startup, Close
// at shutdown. Sessions must not outlive the Runtime that opened them.
package onnxrt

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/shrey-bhatia/koharu/internal/logger"
)

// Config controls environment initialization.
type Config struct {
	// LibraryPath points at the onnxruntime shared library. Empty
	// means discover via ONNXRUNTIME_SHARED_LIBRARY_PATH or the
	// conventional locations.
	LibraryPath string
}

// Runtime is the process-wide ONNX Runtime environment handle.
type Runtime struct {
	log logger.Logger

	mu     sync.Mutex
	closed bool
}

var (
	envMu     sync.Mutex
	envActive bool
)

// Init loads the onnxruntime shared library and initializes the
// environment. Only one Runtime may be active per process.
func Init(cfg Config, log logger.Logger) (*Runtime, error) {
	envMu.Lock()
	defer envMu.Unlock()

	if envActive {
		return nil, fmt.Errorf("onnx runtime already initialized")
	}

	libPath, err := resolveLibraryPath(cfg.LibraryPath)
	if err != nil {
		return nil, err
	}
	ort.SetSharedLibraryPath(libPath)

	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize onnx runtime: %w", err)
	}

	envActive = true
	log.Debug("onnx runtime initialized", "library", libPath)
	return &Runtime{log: log}, nil
}

// Close destroys the environment. All sessions must be closed first.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	envMu.Lock()
	envActive = false
	envMu.Unlock()

	if err := ort.DestroyEnvironment(); err != nil {
		return fmt.Errorf("destroy onnx runtime: %w", err)
	}
	return nil
}

// resolveLibraryPath picks the shared library to load: an explicit
// path wins, then the environment variable, then conventional
// locations next to the binary and system-wide.
func resolveLibraryPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("onnxruntime library %s: %w", explicit, err)
		}
		return explicit, nil
	}

	if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
		return p, nil
	}

	for _, p := range defaultLibraryPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("onnxruntime shared library not found; set ONNXRUNTIME_SHARED_LIBRARY_PATH")
}

func defaultLibraryPaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"./lib/onnxruntime.dll", "onnxruntime.dll"}
	case "darwin":
		return []string{
			fmt.Sprintf("./lib/onnxruntime_%s.dylib", runtime.GOARCH),
			"./lib/libonnxruntime.dylib",
			"/usr/local/lib/libonnxruntime.dylib",
			"/opt/homebrew/lib/libonnxruntime.dylib",
		}
	default:
		return []string{
			fmt.Sprintf("./lib/onnxruntime_%s.so", runtime.GOARCH),
			"./lib/libonnxruntime.so",
			"/usr/local/lib/libonnxruntime.so",
			"/usr/lib/libonnxruntime.so",
		}
	}
}
