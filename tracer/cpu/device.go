package cpu

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// Speed estimate used when the host does not report a clock speed.
const baselineSpeed uint32 = 1000

// Information about a host CPU that can run tracers.
type Device struct {
	// The CPU model name.
	Name string

	// Number of logical cores.
	Cores int

	// Clock speed in MHz; used as the tracer speed estimate.
	Speed uint32

	// Total and available system memory in bytes.
	TotalMemory     uint64
	AvailableMemory uint64
}

func (d Device) String() string {
	return fmt.Sprintf("Name: %s\nCores: %d\nSpeed: %d MHz", d.Name, d.Cores, d.Speed)
}

// Probe the host CPU. If the host does not expose CPU information, Probe
// returns a generic device with runtime.NumCPU() cores.
func Probe() (Device, error) {
	dev := Device{
		Name:  fmt.Sprintf("%s/%s cpu", runtime.GOOS, runtime.GOARCH),
		Cores: runtime.NumCPU(),
		Speed: baselineSpeed,
	}

	info, err := cpu.Info()
	if err != nil {
		return dev, fmt.Errorf("cpu: could not query cpu info: %s", err.Error())
	}
	if len(info) > 0 {
		if info[0].ModelName != "" {
			dev.Name = info[0].ModelName
		}
		if info[0].Mhz > 0 {
			dev.Speed = uint32(info[0].Mhz)
		}
	}

	if cores, err := cpu.Counts(true); err == nil && cores > 0 {
		dev.Cores = cores
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		dev.TotalMemory = vm.Total
		dev.AvailableMemory = vm.Available
	}

	return dev, nil
}
