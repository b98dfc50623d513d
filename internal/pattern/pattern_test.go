package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openSUSE/rpcportctl/internal/ports"
)

func TestSupported(t *testing.T) {
	assert.Equal(t, []string{"nfs-client", "nfs-server", "yp-client", "yp-server"}, Supported())
}

func TestFind(t *testing.T) {
	p, err := Find("nfs-server")
	require.NoError(t, err)

	assert.Equal(t, "nfs-server", p.Label)
	assert.Equal(t, "/etc/sysconfig/nfs", p.SysconfigFile)
	assert.Equal(t, []string{
		"MOUNTD_PORT", "STATD_PORT", "LOCKD_TCPPORT",
		"LOCKD_UDPPORT", "RQUOTAD_PORT",
	}, p.Vars)
	assert.Equal(t, []ports.Spec{
		{Port: 2049, Proto: "tcp"},
		{Port: 2049, Proto: "udp"},
	}, p.ImpliedPorts)
}

func TestFindUnknown(t *testing.T) {
	_, err := Find("nfs")
	require.Error(t, err)

	var unknown *UnknownPatternError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nfs", unknown.Label)
	// the error must list the valid labels
	assert.Contains(t, err.Error(), "nfs-server")
	assert.Contains(t, err.Error(), "yp-client")
}

func TestServicesDeduplicated(t *testing.T) {
	p, err := Find("nfs-server")
	require.NoError(t, err)

	// LOCKD_TCPPORT and LOCKD_UDPPORT both map to nlockmgr
	assert.Equal(t, []string{"mountd", "nlockmgr", "rquotad", "status"}, p.Services())
}

func TestOwns(t *testing.T) {
	p, err := Find("yp-client")
	require.NoError(t, err)

	assert.True(t, p.Owns("YPBIND_OPTIONS"))
	assert.False(t, p.Owns("MOUNTD_PORT"))
}

func TestSyntax(t *testing.T) {
	assert.Equal(t, "-p %d", Syntax("YPBIND_OPTIONS"))
	assert.Equal(t, "--port %d", Syntax("YPPASSWDD_ARGS"))
	assert.Equal(t, "%d", Syntax("MOUNTD_PORT"))
}

func TestServiceFor(t *testing.T) {
	assert.Equal(t, "nlockmgr", ServiceFor("LOCKD_TCPPORT"))
	assert.Equal(t, "nlockmgr", ServiceFor("LOCKD_UDPPORT"))
	assert.Equal(t, "fypxfrd", ServiceFor("YPXFRD_ARGS"))
}

func TestKnownServices(t *testing.T) {
	known := KnownServices()

	for _, service := range []string{
		"mountd", "status", "nlockmgr", "rquotad",
		"ypbind", "ypserv", "yppasswd", "fypxfrd",
	} {
		assert.True(t, known.Contains(service), "expected %s to be known", service)
	}
	assert.False(t, known.Contains("portmapper"))
}
