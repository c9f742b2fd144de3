package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// runConfig holds the settings of the run command after flags and the
// environment are merged.
type runConfig struct {
	FrameSize   uint64
	Owners      int
	Record      string
	CSV         string
	Monitor     bool
	MonitorPort int
	OpenBrowser bool
	Stats       bool
}

// envUint reads a numeric environment variable. Values with a 0x prefix are
// read as hex.
func envUint(name string, fallback uint64) (uint64, error) {
	v, set := os.LookupEnv(name)
	if !set || strings.TrimSpace(v) == "" {
		return fallback, nil
	}

	v = strings.TrimSpace(v)
	base := 10
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		v = v[2:]
		base = 16
	}

	n, err := strconv.ParseUint(v, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	return n, nil
}

func envInt(name string, fallback int) (int, error) {
	n, err := envUint(name, uint64(fallback))
	if err != nil {
		return 0, err
	}

	return int(n), nil
}
