package upload

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// ErrBlockedHost — ссылка ведёт во внутреннюю сеть или на сам сервер.
var ErrBlockedHost = fmt.Errorf("blocked host: %w", ErrInvalidLink)

var blockedNetworks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"169.254.0.0/16", // в том числе метаданные облака
	"0.0.0.0/8",
	"::1/128",
	"fe80::/10",
	"fc00::/7",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR %s: %v", cidr, err))
		}
		out = append(out, network)
	}
	return out
}

// checkHost отсекает очевидно внутренние адреса до запроса. Имена,
// которые резолвятся во внутреннюю сеть, блокирует клиент safeurl при dial.
func checkHost(host string) error {
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return ErrBlockedHost
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return nil
	}
	for _, network := range blockedNetworks {
		if network.Contains(ip) {
			return ErrBlockedHost
		}
	}
	return nil
}

// newSafeClient возвращает клиент, который проверяет адрес после DNS-резолва.
func newSafeClient(timeout time.Duration) *http.Client {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(cfg).Client
}
