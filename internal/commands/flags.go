package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/term"

	"github.com/colonyops/comanda/internal/api"
	"github.com/colonyops/comanda/internal/core/config"
)

// Flags holds global CLI state shared by all commands.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config and Client are populated in the root Before hook.
	Config *config.Config
	Client *api.Client
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "comanda", "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's state
// directory.
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "comanda", "comanda.log")
	}

	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "comanda", "comanda.log")
	}
	return filepath.Join(home, ".local", "state", "comanda", "comanda.log")
}

// requireTTY rejects running an interactive view with output redirected.
func requireTTY() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive views need a terminal; stdout is not a TTY")
	}
	return nil
}
