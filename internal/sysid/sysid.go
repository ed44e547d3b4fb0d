// Package sysid derives local host identity metadata: the default
// announcement name and the platform fields logged at startup.
package sysid

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

// Info describes the local host.
type Info struct {
	Hostname string
	Platform string
	Kernel   string
	Arch     string
}

// Describe collects host metadata, degrading to runtime constants when
// the platform probes fail.
func Describe() Info {
	info := Info{
		Platform: runtime.GOOS,
		Arch:     runtime.GOARCH,
	}
	info.Hostname, _ = os.Hostname()

	if h, err := host.Info(); err == nil {
		if h.Platform != "" {
			info.Platform = h.Platform
			if h.PlatformVersion != "" {
				info.Platform += " " + h.PlatformVersion
			}
		}
		info.Kernel = h.KernelVersion
		if info.Hostname == "" {
			info.Hostname = h.Hostname
		}
	}

	return info
}

// DefaultName is the announcement name used when the config leaves the
// identity name empty.
func DefaultName() string {
	if name := Describe().Hostname; name != "" {
		return name
	}
	return "player"
}
