package commands

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbe struct {
	hostErr, memErr, cpuErr, loadErr, netErr, procErr, onlineErr error
}

func (p *fakeProbe) Host(context.Context) (HostInfo, error) {
	return HostInfo{Hostname: "devbox", Uptime: 90 * time.Minute, Platform: "ubuntu 24.04", Kernel: "6.8.0"}, p.hostErr
}

func (p *fakeProbe) Memory(context.Context) (MemoryInfo, error) {
	return MemoryInfo{Total: 16 << 30, Used: 4 << 30, UsedPercent: 25}, p.memErr
}

func (p *fakeProbe) CPU(context.Context) (CPUInfo, error) {
	return CPUInfo{Model: "Test CPU", Physical: 4, Logical: 8}, p.cpuErr
}

func (p *fakeProbe) Load(context.Context) (LoadInfo, error) {
	return LoadInfo{Load1: 0.5, Load5: 0.25, Load15: 0.125}, p.loadErr
}

func (p *fakeProbe) Interfaces(context.Context) ([]Interface, error) {
	return []Interface{
		{Name: "eth0", HardwareAddr: "02:42:ac:11:00:02", Addrs: []string{"10.0.0.2/24", "fe80::1/64"}},
		{Name: "tun0", Addrs: []string{"10.8.0.1/24"}},
	}, p.netErr
}

func (p *fakeProbe) Process(context.Context) (ProcessInfo, error) {
	return ProcessInfo{PID: 4242, PPID: 100, ParentName: "bash"}, p.procErr
}

func (p *fakeProbe) Online(context.Context) error {
	return p.onlineErr
}

func TestPing_Basic(t *testing.T) {
	env := newTestEnv(t)
	env.app.Probe = &fakeProbe{}

	require.NoError(t, env.run(t, "-ping"))

	out := env.out.String()
	assert.Contains(t, out, "Date:         2025-03-14\n")
	assert.Contains(t, out, "Time:         15:09:26\n")
	assert.Contains(t, out, "OS:           "+runtime.GOOS+"\n")
	assert.Contains(t, out, "Architecture: "+runtime.GOARCH+"\n")
	assert.Contains(t, out, "Go runtime:   "+runtime.Version())
	assert.NotContains(t, out, "Host name:")
	assert.Empty(t, env.runner.Calls)
}

func TestPing_FullReport(t *testing.T) {
	env := newTestEnv(t)
	env.app.Probe = &fakeProbe{}
	env.runner.Outputs["git --version"] = "git version 2.47.0\n"
	env.runner.Outputs["node -v"] = "v22.11.0\n"
	env.runner.Missing("pnpm")

	require.NoError(t, env.run(t, "ping", "-p"))

	out := env.out.String()
	assert.Contains(t, out, "Working dir:  /work\n")
	assert.Contains(t, out, "Host name:    devbox\n")
	assert.Contains(t, out, "Uptime:       1h30m0s\n")
	assert.Contains(t, out, "Platform:     ubuntu 24.04 (kernel 6.8.0)\n")
	assert.Contains(t, out, "Memory:       4.0 GiB used of 16.0 GiB (25.0%)\n")
	assert.Contains(t, out, "CPU:          Test CPU (4 cores, 8 threads)\n")
	assert.Contains(t, out, "Load average: 0.50 0.25 0.12\n")
	assert.Contains(t, out, "Internet:     online\n")
	assert.Contains(t, out, "  eth0 (02:42:ac:11:00:02): 10.0.0.2/24, fe80::1/64\n")
	assert.Contains(t, out, "  tun0: 10.8.0.1/24\n")
	assert.Contains(t, out, "Process:      pid 4242, parent 100 (bash)\n")
	assert.Contains(t, out, "  git   git version 2.47.0\n")
	assert.Contains(t, out, "  node  v22.11.0\n")
	assert.Contains(t, out, "  npm   unavailable\n")
	assert.Contains(t, out, "  pnpm  unavailable\n")
}

func TestPing_ProbeFailuresPrintUnavailable(t *testing.T) {
	boom := errors.New("boom")
	env := newTestEnv(t)
	env.app.Probe = &fakeProbe{
		hostErr: boom, memErr: boom, cpuErr: boom,
		loadErr: boom, netErr: boom, procErr: boom, onlineErr: boom,
	}

	require.NoError(t, env.run(t, "ping", "-p"))

	out := env.out.String()
	assert.Contains(t, out, "Host name:    unavailable\n")
	assert.Contains(t, out, "Uptime:       unavailable\n")
	assert.Contains(t, out, "Memory:       unavailable\n")
	assert.Contains(t, out, "CPU:          unavailable\n")
	assert.Contains(t, out, "Network:      unavailable\n")
	assert.Contains(t, out, "Process:      unavailable\n")
	assert.Contains(t, out, "Internet:     offline\n")
	assert.NotContains(t, out, "Load average")
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{16 << 30, "16.0 GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanBytes(tt.in))
	}
}

func TestSystemProbe_Live(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping host probe in short mode")
	}

	p := NewHostProbe()
	ctx := context.Background()

	mem, err := p.Memory(ctx)
	require.NoError(t, err)
	assert.Greater(t, mem.Total, uint64(0))

	h, err := p.Host(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, h.Hostname)

	proc, err := p.Process(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(os.Getpid()), proc.PID)
	assert.Equal(t, int32(os.Getppid()), proc.PPID)
}
