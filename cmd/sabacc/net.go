package main

import (
	"fmt"
	"net"
	"strconv"
)

// advertisedHost returns the address spectators should dial for l. A
// listener on the unspecified address is reached through the first
// non-loopback interface.
func advertisedHost(l net.Listener) (string, error) {
	tcpAddr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return "", fmt.Errorf("listener is not TCP")
	}
	if ip := tcpAddr.IP; ip != nil && !ip.IsUnspecified() {
		return ip.String(), nil
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, ifi := range ifaces {
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := ifi.Addrs()
		for _, a := range addrs {
			var ip net.IP
			switch v := a.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			default:
				continue
			}
			if ip.To4() != nil && !ip.IsLoopback() {
				return ip.String(), nil
			}
		}
	}
	return "localhost", nil
}

// splitHostPort splits an address into host and port, using defaultPort if no port is specified.
func splitHostPort(addr string, defaultPort int) (string, string, error) {
	ipaddr, port, err := net.SplitHostPort(addr)
	if err != nil {
		addr = addr + ":" + strconv.Itoa(defaultPort)
		ipaddr, port, err = net.SplitHostPort(addr)
		if err != nil {
			return "", "", err
		}
	}
	return ipaddr, port, nil
}
