package staticconfig

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openSUSE/rpcportctl/internal/pattern"
	"github.com/openSUSE/rpcportctl/internal/ports"
	"github.com/openSUSE/rpcportctl/internal/rpcinfo"
	"github.com/openSUSE/rpcportctl/internal/sysconfig"
)

const nfsConfig = `## Path:	Network/File systems/NFS server
## Description: NFS daemon options

USE_KERNEL_NFSD_NUMBER="4"
MOUNTD_PORT=""
STATD_PORT="662"
LOCKD_TCPPORT=""
LOCKD_UDPPORT=""
RQUOTAD_PORT=""
`

func testPattern(t *testing.T, content string) pattern.Pattern {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nfs")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := pattern.Find("nfs-server")
	require.NoError(t, err)
	p.SysconfigFile = path
	return p
}

func TestRunNonInteractive(t *testing.T) {
	p := testPattern(t, nfsConfig)

	overrides := ports.Overrides{
		"mountd":   20100,
		"nlockmgr": 20300,
		"rquotad":  20400,
	}

	var out bytes.Buffer
	session := &Session{
		Pattern:     p,
		Snapshot:    rpcinfo.PortMap{},
		Overrides:   overrides,
		Interactive: false,
		In:          strings.NewReader(""),
		Out:         &out,
		Log:         zap.NewNop(),
	}
	require.NoError(t, session.Run(context.Background()))

	content, err := os.ReadFile(p.SysconfigFile)
	require.NoError(t, err)

	inLines := strings.Split(nfsConfig, "\n")
	outLines := strings.Split(string(content), "\n")
	require.Equal(t, len(inLines), len(outLines), "line count must be preserved")

	assert.Contains(t, outLines, `MOUNTD_PORT="20100"`)
	assert.Contains(t, outLines, `LOCKD_TCPPORT="20300"`)
	assert.Contains(t, outLines, `LOCKD_UDPPORT="20300"`)
	assert.Contains(t, outLines, `RQUOTAD_PORT="20400"`)
	// no override for status, the existing static port stays
	assert.Contains(t, outLines, `STATD_PORT="662"`)

	// lines not owned by the pattern round-trip byte for byte
	assert.Equal(t, inLines[0], outLines[0])
	assert.Equal(t, inLines[1], outLines[1])
	assert.Contains(t, outLines, `USE_KERNEL_NFSD_NUMBER="4"`)
}

func TestRunNonInteractiveIsIdempotent(t *testing.T) {
	p := testPattern(t, nfsConfig)

	overrides := ports.Overrides{
		"mountd":   20100,
		"status":   20200,
		"nlockmgr": 20300,
		"rquotad":  20400,
	}

	run := func() string {
		session := &Session{
			Pattern:     p,
			Snapshot:    rpcinfo.PortMap{},
			Overrides:   overrides,
			Interactive: false,
			In:          strings.NewReader(""),
			Out:         &bytes.Buffer{},
			Log:         zap.NewNop(),
		}
		require.NoError(t, session.Run(context.Background()))
		content, err := os.ReadFile(p.SysconfigFile)
		require.NoError(t, err)
		return string(content)
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestRunNonInteractiveWithoutLiveRegistryUsesDynamicRange(t *testing.T) {
	p := testPattern(t, "MOUNTD_PORT=\"\"\n")
	p.Vars = []string{"MOUNTD_PORT"}

	var out bytes.Buffer
	session := &Session{
		Pattern:     p,
		Snapshot:    rpcinfo.PortMap{},
		Interactive: false,
		In:          strings.NewReader(""),
		Out:         &out,
		Log:         zap.NewNop(),
	}
	require.NoError(t, session.Run(context.Background()))

	static, err := sysconfig.StaticPorts(p.SysconfigFile, p.Vars)
	require.NoError(t, err)
	require.Contains(t, static, "MOUNTD_PORT")
	assert.GreaterOrEqual(t, static["MOUNTD_PORT"], ports.DynamicPortMin)
	assert.LessOrEqual(t, static["MOUNTD_PORT"], ports.DynamicPortMax)
}

func TestRunInteractiveAcceptsSuggestions(t *testing.T) {
	p := testPattern(t, "YPBIND_OPTIONS=\"-p 713\"\n")
	p.Label = "yp-client"
	p.Vars = []string{"YPBIND_OPTIONS"}

	var out bytes.Buffer
	session := &Session{
		Pattern:     p,
		Snapshot:    rpcinfo.PortMap{},
		Interactive: true,
		In:          strings.NewReader("\n"),
		Out:         &out,
		Log:         zap.NewNop(),
	}
	require.NoError(t, session.Run(context.Background()))

	static, err := sysconfig.StaticPorts(p.SysconfigFile, p.Vars)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"YPBIND_OPTIONS": 713}, static)
	assert.Contains(t, out.String(), "YPBIND_OPTIONS (ypbind) [713] > ")
}

func TestRunInteractiveRepromptsOnInvalidInput(t *testing.T) {
	p := testPattern(t, "YPBIND_OPTIONS=\"\"\n")
	p.Label = "yp-client"
	p.Vars = []string{"YPBIND_OPTIONS"}

	var out bytes.Buffer
	session := &Session{
		Pattern:     p,
		Snapshot:    rpcinfo.PortMap{},
		Overrides:   ports.Overrides{"ypbind": 713},
		Interactive: true,
		In:          strings.NewReader("99999\nabc\n815\n"),
		Out:         &out,
		Log:         zap.NewNop(),
	}
	require.NoError(t, session.Run(context.Background()))

	static, err := sysconfig.StaticPorts(p.SysconfigFile, p.Vars)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"YPBIND_OPTIONS": 815}, static)
	assert.Contains(t, out.String(), "out of range")
	assert.Contains(t, out.String(), "invalid port number")
}

func TestRunIgnoresOutOfRangeStaticPort(t *testing.T) {
	p := testPattern(t, "MOUNTD_PORT=\"99999\"\n")
	p.Vars = []string{"MOUNTD_PORT"}

	tests := []struct {
		name        string
		interactive bool
		input       string
	}{
		{name: "non-interactive", interactive: false, input: ""},
		{name: "interactive blank accept", interactive: true, input: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &Session{
				Pattern:     p,
				Snapshot:    rpcinfo.PortMap{},
				Interactive: tt.interactive,
				In:          strings.NewReader(tt.input),
				Out:         &bytes.Buffer{},
				Log:         zap.NewNop(),
			}
			require.NoError(t, session.Run(context.Background()))

			static, err := sysconfig.StaticPorts(p.SysconfigFile, p.Vars)
			require.NoError(t, err)
			require.Contains(t, static, "MOUNTD_PORT")

			// the broken value counts as unconfigured, the suggestion
			// falls through to the dynamic range
			chosen := static["MOUNTD_PORT"]
			assert.NotEqual(t, 99999, chosen)
			assert.GreaterOrEqual(t, chosen, ports.DynamicPortMin)
			assert.LessOrEqual(t, chosen, ports.DynamicPortMax)

			// reset the file for the next variant
			require.NoError(t, os.WriteFile(p.SysconfigFile, []byte("MOUNTD_PORT=\"99999\"\n"), 0o644))
		})
	}
}

func TestQueryPortBlankNeverAcceptsInvalidSuggestion(t *testing.T) {
	session := &Session{
		Out: &bytes.Buffer{},
		Log: zap.NewNop(),
	}
	session.stdin = bufio.NewReader(strings.NewReader("\n662\n"))

	port, err := session.queryPort("MOUNTD_PORT", 99999)
	require.NoError(t, err)
	assert.Equal(t, 662, port)

	out := session.Out.(*bytes.Buffer).String()
	assert.Contains(t, out, "out of range")
}

func TestRunAbortsOnEndOfInput(t *testing.T) {
	p := testPattern(t, "YPBIND_OPTIONS=\"\"\n")
	p.Label = "yp-client"
	p.Vars = []string{"YPBIND_OPTIONS"}

	session := &Session{
		Pattern:     p,
		Snapshot:    rpcinfo.PortMap{},
		Overrides:   ports.Overrides{"ypbind": 713},
		Interactive: true,
		In:          strings.NewReader(""),
		Out:         &bytes.Buffer{},
		Log:         zap.NewNop(),
	}
	err := session.Run(context.Background())
	require.ErrorIs(t, err, ErrInputExhausted)

	// nothing must have been written
	content, readErr := os.ReadFile(p.SysconfigFile)
	require.NoError(t, readErr)
	assert.Equal(t, "YPBIND_OPTIONS=\"\"\n", string(content))
}

func TestRunMissingFile(t *testing.T) {
	p, err := pattern.Find("yp-client")
	require.NoError(t, err)
	p.SysconfigFile = filepath.Join(t.TempDir(), "ypbind")

	session := &Session{
		Pattern:     p,
		Snapshot:    rpcinfo.PortMap{},
		Interactive: false,
		In:          strings.NewReader(""),
		Out:         &bytes.Buffer{},
		Log:         zap.NewNop(),
	}
	err = session.Run(context.Background())
	require.Error(t, err)

	var notInstalled *sysconfig.NotInstalledError
	assert.ErrorAs(t, err, &notInstalled)
}
