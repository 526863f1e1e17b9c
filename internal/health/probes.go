package health

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/firefly-engineering/firefly-outpost/internal/ssh"
)

// tcpDial is the default DialFunc: a plain TCP connect with timeout.
func tcpDial(address string, port int, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", address, port), timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// sshRemote is the default RemoteFunc, running the command over SSH in
// batch mode.
func sshRemote(ctx context.Context, opts ssh.Options, command string) (string, error) {
	return ssh.ExecWithOutput(ctx, opts, command)
}

// httpGet is the default HTTPGetFunc with a bounded body read; health
// endpoints are small, anything larger is truncated.
func httpGet(url string, timeout time.Duration) (int, string, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(body), nil
}
