package sysinfo

import (
	"fmt"
	"net"
)

// LocalIP reports the local address the kernel would use to reach the
// public internet. Dialing UDP sends no packets; it only resolves the
// route. Used as a fallback when the Supervisor network info is
// unavailable.
func LocalIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", fmt.Errorf("detect local ip: %w", err)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", fmt.Errorf("unexpected local address %v", conn.LocalAddr())
	}
	return addr.IP.String(), nil
}
