package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// fakeRunner maps "name args..." to canned output.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, cmd Command) (string, error) {
	key := cmd.Name
	for _, a := range cmd.Args {
		key += " " + a
	}
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return f.outputs[key], err
	}
	if out, ok := f.outputs[key]; ok {
		return out, nil
	}
	return "", errors.New("unexpected command: " + key)
}

const iwconfigOutput = `wlan0     IEEE 802.11  ESSID:"HomeNet"
          Mode:Managed  Frequency:2.437 GHz  Access Point: AA:BB:CC:DD:EE:FF
          Bit Rate=72.2 Mb/s   Tx-Power=31 dBm

lo        no wireless extensions.

wlan1     IEEE 802.11  ESSID:off/any
          Mode:Managed  Access Point: Not-Associated   Tx-Power=20 dBm
`

func TestListInterfaces_Linux(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"iwconfig": iwconfigOutput}}
	enum := NewEnumerator(domain.PlatformLinux, runner, DefaultToolPaths(), 0)

	interfaces := enum.ListInterfaces(context.Background())
	require.Len(t, interfaces, 2)

	assert.Equal(t, "wlan0", interfaces[0].Name)
	assert.Equal(t, "wireless", interfaces[0].Kind)
	assert.Equal(t, "associated", interfaces[0].Status)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", interfaces[0].ConnectedAP)

	assert.Equal(t, "wlan1", interfaces[1].Name)
	assert.Equal(t, "unknown", interfaces[1].Status)
}

func TestListInterfaces_LinuxToolMissing(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{"iwconfig": domain.ErrScanTool}}
	enum := NewEnumerator(domain.PlatformLinux, runner, DefaultToolPaths(), 0)

	assert.Empty(t, enum.ListInterfaces(context.Background()))
}

func TestListInterfaces_MacOSProfiler(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"system_profiler SPAirPortDataType -json": profilerJSON,
	}}
	enum := NewEnumerator(domain.PlatformMacOS, runner, DefaultToolPaths(), 0)

	interfaces := enum.ListInterfaces(context.Background())
	require.Len(t, interfaces, 2)
	assert.Equal(t, "en0", interfaces[0].Name)
	assert.Equal(t, "spairport_status_connected", interfaces[0].Status)
	assert.Equal(t, domain.PlatformMacOS, interfaces[0].Platform)
}

func TestListInterfaces_MacOSFallbackProbe(t *testing.T) {
	runner := &fakeRunner{
		outputs: map[string]string{
			"ifconfig en0": "en0: flags=8863\n\tstatus: active\n",
			"ifconfig en2": "en2: flags=8863\n\tstatus: inactive\n",
		},
		errs: map[string]error{
			"system_profiler SPAirPortDataType -json": domain.ErrScanTool,
			"ifconfig en1":                            domain.ErrScanTool,
		},
	}
	enum := NewEnumerator(domain.PlatformMacOS, runner, DefaultToolPaths(), 0)

	interfaces := enum.ListInterfaces(context.Background())
	require.Len(t, interfaces, 1)
	assert.Equal(t, "en0", interfaces[0].Name)
	assert.Equal(t, "active", interfaces[0].Status)
}
