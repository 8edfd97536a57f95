// Package hostdesc is the ambient collaborator that reads static
// hardware descriptors at genesis. It is not part of the pure core:
// internal/seed never imports gopsutil, it only accepts a
// seed.HardwareBody value that something like this package produced.
package hostdesc

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/yadori/yadori/internal/logging"
	"github.com/yadori/yadori/internal/seed"
)

// Collect reads the current host's platform, architecture, memory,
// CPU model, and primary disk capacity. It never fails the caller: any
// individual probe that errors degrades to a zero/"unknown" value
// rather than blocking genesis, since hardware_body is descriptive, not
// load-bearing for any invariant in the core.
func Collect() seed.HardwareBody {
	hw := seed.HardwareBody{
		Platform: "unknown",
		Arch:     "unknown",
		CPUModel: "unknown",
	}

	if info, err := host.Info(); err == nil {
		hw.Platform = info.Platform
		hw.Arch = info.KernelArch
	} else {
		logging.Debug("hostdesc", "host.Info failed: %v", err)
	}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		hw.CPUModel = cpus[0].ModelName
	} else if err != nil {
		logging.Debug("hostdesc", "cpu.Info failed: %v", err)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		hw.MemoryGB = int(vm.Total / (1024 * 1024 * 1024))
	} else {
		logging.Debug("hostdesc", "mem.VirtualMemory failed: %v", err)
	}

	if usage, err := disk.Usage("/"); err == nil {
		hw.StorageGB = int(usage.Total / (1024 * 1024 * 1024))
	} else {
		logging.Debug("hostdesc", "disk.Usage failed: %v", err)
	}

	return hw
}
