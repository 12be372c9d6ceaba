package ip_test

import (
	"net"
	"testing"

	"github.com/agorahq/agora/internal/rest/middleware/ip"
	"github.com/agorahq/agora/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestValidateIP(t *testing.T) {
	t.Parallel()

	checker := ip.NewChecker(zap.NewNop(), &config.IP{})

	assert.Equal(t, "8.8.8.8", checker.ValidateIP("8.8.8.8"))
	assert.Equal(t, ip.UnknownIP, checker.ValidateIP("not-an-ip"))
	assert.Equal(t, ip.UnknownIP, checker.ValidateIP(""))

	// Private and loopback addresses are rejected in production mode
	assert.Equal(t, ip.UnknownIP, checker.ValidateIP("192.168.1.10"))
	assert.Equal(t, ip.UnknownIP, checker.ValidateIP("10.0.0.5"))
	assert.Equal(t, ip.UnknownIP, checker.ValidateIP("127.0.0.1"))
}

func TestValidateIPAllowLocal(t *testing.T) {
	t.Parallel()

	// Development mode accepts local addresses
	checker := ip.NewChecker(zap.NewNop(), &config.IP{AllowLocalIPs: true})

	assert.Equal(t, "127.0.0.1", checker.ValidateIP("127.0.0.1"))
	assert.Equal(t, "192.168.1.10", checker.ValidateIP("192.168.1.10"))
}

func TestIsTrustedProxy(t *testing.T) {
	t.Parallel()

	checker := ip.NewChecker(zap.NewNop(), &config.IP{
		TrustedProxies: []string{"10.0.0.0/8", "203.0.113.0/24"},
	})

	assert.True(t, checker.IsTrustedProxy(net.ParseIP("10.1.2.3")))
	assert.True(t, checker.IsTrustedProxy(net.ParseIP("203.0.113.50")))
	assert.False(t, checker.IsTrustedProxy(net.ParseIP("8.8.8.8")))
}
