package api

import (
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
)

func (h *Handler) health(c echo.Context) error {
	sys := echo.Map{}
	if usage, err := cpu.Percent(0, false); err == nil && len(usage) > 0 {
		sys["cpu_percent"] = usage[0]
	}
	if meminfo, err := mem.VirtualMemory(); err == nil {
		sys["mem_used_mb"] = meminfo.Used / 1024 / 1024
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if meminfo, err := p.MemoryInfo(); err == nil {
			sys["rss_mb"] = meminfo.RSS / 1024 / 1024
		}
	}

	return ok(c, echo.Map{
		"status":    "OK",
		"timestamp": time.Now().Format(time.RFC3339),
		"sys":       sys,
	})
}
