package commands

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/seraprogrammer/speeed/internal/dispatch"
	"github.com/seraprogrammer/speeed/internal/runner"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

const connectivityHost = "google.com"

// HostInfo is the subset of host details shown by "ping -p"
type HostInfo struct {
	Hostname string
	Uptime   time.Duration
	Platform string
	Kernel   string
}

// MemoryInfo holds byte counts of physical memory
type MemoryInfo struct {
	Total       uint64
	Used        uint64
	UsedPercent float64
}

// CPUInfo describes the processor
type CPUInfo struct {
	Model    string
	Physical int
	Logical  int
}

// LoadInfo holds the 1, 5 and 15 minute load averages
type LoadInfo struct {
	Load1, Load5, Load15 float64
}

// Interface is a network interface with its addresses
type Interface struct {
	Name         string
	HardwareAddr string
	Addrs        []string
}

// ProcessInfo identifies the running speeed process
type ProcessInfo struct {
	PID        int32
	PPID       int32
	ParentName string
}

// HostProbe collects host details. Every method may fail independently.
type HostProbe interface {
	Host(ctx context.Context) (HostInfo, error)
	Memory(ctx context.Context) (MemoryInfo, error)
	CPU(ctx context.Context) (CPUInfo, error)
	Load(ctx context.Context) (LoadInfo, error)
	Interfaces(ctx context.Context) ([]Interface, error)
	Process(ctx context.Context) (ProcessInfo, error)
	Online(ctx context.Context) error
}

// SystemProbe is the gopsutil backed HostProbe
type SystemProbe struct {
	Resolver *net.Resolver
}

// NewHostProbe returns a probe reading the local machine
func NewHostProbe() *SystemProbe {
	return &SystemProbe{Resolver: net.DefaultResolver}
}

func (p *SystemProbe) Host(ctx context.Context) (HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{}, err
	}
	platform := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	return HostInfo{
		Hostname: info.Hostname,
		Uptime:   time.Duration(info.Uptime) * time.Second,
		Platform: platform,
		Kernel:   info.KernelVersion,
	}, nil
}

func (p *SystemProbe) Memory(ctx context.Context) (MemoryInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryInfo{}, err
	}
	return MemoryInfo{Total: vm.Total, Used: vm.Used, UsedPercent: vm.UsedPercent}, nil
}

func (p *SystemProbe) CPU(ctx context.Context) (CPUInfo, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return CPUInfo{}, err
	}
	var out CPUInfo
	if len(infos) > 0 {
		out.Model = strings.TrimSpace(infos[0].ModelName)
	}
	if out.Physical, err = cpu.CountsWithContext(ctx, false); err != nil {
		return CPUInfo{}, err
	}
	if out.Logical, err = cpu.CountsWithContext(ctx, true); err != nil {
		return CPUInfo{}, err
	}
	return out, nil
}

func (p *SystemProbe) Load(ctx context.Context) (LoadInfo, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return LoadInfo{}, err
	}
	return LoadInfo{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

func (p *SystemProbe) Interfaces(ctx context.Context) ([]Interface, error) {
	stats, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Interface, 0, len(stats))
	for _, st := range stats {
		if len(st.Addrs) == 0 || slices.Contains(st.Flags, "loopback") {
			continue
		}
		iface := Interface{Name: st.Name, HardwareAddr: st.HardwareAddr}
		for _, a := range st.Addrs {
			iface.Addrs = append(iface.Addrs, a.Addr)
		}
		out = append(out, iface)
	}
	return out, nil
}

func (p *SystemProbe) Process(ctx context.Context) (ProcessInfo, error) {
	self, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return ProcessInfo{}, err
	}
	ppid, err := self.PpidWithContext(ctx)
	if err != nil {
		return ProcessInfo{}, err
	}
	info := ProcessInfo{PID: self.Pid, PPID: ppid}

	// the parent may already be gone
	if parent, err := process.NewProcessWithContext(ctx, ppid); err == nil {
		info.ParentName, _ = parent.NameWithContext(ctx)
	}
	return info, nil
}

// Online resolves a well-known host name
func (p *SystemProbe) Online(ctx context.Context) error {
	r := p.Resolver
	if r == nil {
		r = net.DefaultResolver
	}
	_, err := r.LookupHost(ctx, connectivityHost)
	return err
}

func registerSystem(reg *dispatch.Registry, app *App) {
	reg.Register(dispatch.Command{
		Name: "ping", Aliases: []string{"-ping"}, Usage: "[-p]",
		Summary: "Show system information (-p for a full report)",
		Run:     app.ping,
	})
}

func (a *App) ping(ctx context.Context, args []string) error {
	now := a.now()
	a.Console.Info("System information")
	a.Console.Printf("Date:         %s\n", now.Format("2006-01-02"))
	a.Console.Printf("Time:         %s\n", now.Format("15:04:05"))
	a.Console.Printf("OS:           %s\n", runtime.GOOS)
	a.Console.Printf("Architecture: %s\n", runtime.GOARCH)
	a.Console.Printf("Go runtime:   %s\n", runtime.Version())

	if !slices.Contains(args, "-p") {
		return nil
	}
	if a.Probe == nil {
		a.Console.Warn("host probe not configured")
		return nil
	}

	a.Console.Println()
	a.Console.Printf("Working dir:  %s\n", a.WorkDir)

	if h, err := a.Probe.Host(ctx); err != nil {
		a.unavailable("Host name", err)
		a.unavailable("Uptime", err)
		a.unavailable("Platform", err)
	} else {
		a.Console.Printf("Host name:    %s\n", h.Hostname)
		a.Console.Printf("Uptime:       %s\n", h.Uptime)
		a.Console.Printf("Platform:     %s (kernel %s)\n", h.Platform, h.Kernel)
	}

	if m, err := a.Probe.Memory(ctx); err != nil {
		a.unavailable("Memory", err)
	} else {
		a.Console.Printf("Memory:       %s used of %s (%.1f%%)\n", humanBytes(m.Used), humanBytes(m.Total), m.UsedPercent)
	}

	if c, err := a.Probe.CPU(ctx); err != nil {
		a.unavailable("CPU", err)
	} else {
		a.Console.Printf("CPU:          %s (%d cores, %d threads)\n", c.Model, c.Physical, c.Logical)
	}

	// load averages do not exist on windows
	if l, err := a.Probe.Load(ctx); err == nil {
		a.Console.Printf("Load average: %.2f %.2f %.2f\n", l.Load1, l.Load5, l.Load15)
	} else {
		a.Log.WithError(err).Debug("load average unsupported")
	}

	if err := a.Probe.Online(ctx); err != nil {
		a.Console.Printf("Internet:     offline\n")
		a.Log.WithError(err).Debug("connectivity check failed")
	} else {
		a.Console.Printf("Internet:     online\n")
	}

	if ifaces, err := a.Probe.Interfaces(ctx); err != nil {
		a.unavailable("Network", err)
	} else {
		a.Console.Println("Network:")
		for _, iface := range ifaces {
			name := iface.Name
			if iface.HardwareAddr != "" {
				name += " (" + iface.HardwareAddr + ")"
			}
			a.Console.Printf("  %s: %s\n", name, strings.Join(iface.Addrs, ", "))
		}
	}

	if proc, err := a.Probe.Process(ctx); err != nil {
		a.unavailable("Process", err)
	} else if proc.ParentName != "" {
		a.Console.Printf("Process:      pid %d, parent %d (%s)\n", proc.PID, proc.PPID, proc.ParentName)
	} else {
		a.Console.Printf("Process:      pid %d, parent %d\n", proc.PID, proc.PPID)
	}

	a.Console.Println("Tools:")
	for _, tool := range []struct{ label, name, flag string }{
		{"git", a.Config.Tools.Git, "--version"},
		{"node", a.Config.Tools.Node, "-v"},
		{"npm", a.Config.Tools.Npm, "-v"},
		{"pnpm", a.Config.Tools.Pnpm, "-v"},
	} {
		out, res := a.Runner.Output(ctx, runner.Spec{Name: tool.name, Args: []string{tool.flag}})
		if !res.OK() || strings.TrimSpace(out) == "" {
			a.Console.Printf("  %-5s unavailable\n", tool.label)
			continue
		}
		a.Console.Printf("  %-5s %s\n", tool.label, strings.TrimSpace(out))
	}
	return nil
}

func (a *App) unavailable(label string, err error) {
	a.Console.Printf("%-14sunavailable\n", label+":")
	a.Log.WithError(err).Debugf("%s probe failed", strings.ToLower(label))
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
