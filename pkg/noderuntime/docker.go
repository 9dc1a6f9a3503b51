// Package noderuntime launches and tears down the containers that back
// simulated cluster nodes. The Docker implementation is a thin client over
// the Engine API's Unix socket, adapted from the same minimal-surface
// approach used elsewhere in the example corpus: the official docker/docker
// SDK pulls in a large dependency tree for functionality a node simulator
// never needs, so this talks to the socket directly with net/http.
package noderuntime

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clustersim/controller/pkg/cluster"
)

const apiVersion = "v1.41"

// DockerRuntime launches one container per simulated node against a local
// Docker Engine.
type DockerRuntime struct {
	http          *http.Client
	image         string
	network       string
	socketPath    string
	controllerURL string
	heartbeatSec  int
}

// DockerConfig configures the Docker-backed node runtime.
type DockerConfig struct {
	SocketPath    string // default /var/run/docker.sock
	Image         string // image run for each simulated node container
	Network       string // bridge network simulated nodes join
	ControllerURL string // address the container reports heartbeats back to
	HeartbeatSec  int    // --interval passed to the container's heartbeat loop
}

func DefaultDockerConfig() DockerConfig {
	return DockerConfig{
		SocketPath:    "/var/run/docker.sock",
		Image:         "node-simulator:latest",
		Network:       "clustersim-net",
		ControllerURL: "http://localhost:5000",
		HeartbeatSec:  7,
	}
}

// NewDockerRuntime builds a runtime bound to the given socket.
func NewDockerRuntime(cfg DockerConfig) *DockerRuntime {
	socket := cfg.SocketPath
	if socket == "" {
		socket = "/var/run/docker.sock"
	}
	heartbeatSec := cfg.HeartbeatSec
	if heartbeatSec <= 0 {
		heartbeatSec = 7
	}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(ctx, "unix", socket)
		},
	}
	return &DockerRuntime{
		http:          &http.Client{Transport: transport, Timeout: 60 * time.Second},
		image:         cfg.Image,
		network:       cfg.Network,
		socketPath:    socket,
		controllerURL: cfg.ControllerURL,
		heartbeatSec:  heartbeatSec,
	}
}

func (d *DockerRuntime) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := "http://docker/" + apiVersion + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return d.http.Do(req)
}

func (d *DockerRuntime) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://docker/"+apiVersion+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return d.http.Do(req)
}

func expectOK(resp *http.Response, okStatuses ...int) error {
	defer resp.Body.Close()
	for _, s := range okStatuses {
		if resp.StatusCode == s {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("docker API %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// EnsureNetwork creates the shared bridge network simulated nodes join, if
// it doesn't already exist.
func (d *DockerRuntime) EnsureNetwork(ctx context.Context) error {
	resp, err := d.get(ctx, "/networks", url.Values{
		"filters": {fmt.Sprintf(`{"name":["%s"]}`, d.network)},
	})
	if err != nil {
		return fmt.Errorf("docker network list: %w", err)
	}
	var existing []struct {
		Name string `json:"Name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&existing); err != nil {
		resp.Body.Close()
		return fmt.Errorf("docker network list decode: %w", err)
	}
	resp.Body.Close()
	for _, n := range existing {
		if n.Name == d.network {
			return nil
		}
	}

	create, err := d.postJSON(ctx, "/networks/create", map[string]any{
		"Name":   d.network,
		"Driver": "bridge",
	})
	if err != nil {
		return fmt.Errorf("docker network create: %w", err)
	}
	return expectOK(create, http.StatusCreated)
}

// Launch starts a container that represents node n and returns its
// container ID. The container is given the node's heartbeat-reporting
// command line, capped to the node's advertised CPU/memory totals, and
// labeled with its node ID (and "autoscaled" when the node was created by
// the auto-scaler) so Inspect/Logs calls can be correlated back to it.
func (d *DockerRuntime) Launch(ctx context.Context, n *cluster.Node) (string, error) {
	labels := map[string]string{"sim-node": n.ID}
	if n.Autoscaled {
		labels["autoscaled"] = "true"
	}

	createResp, err := d.postJSON(ctx, "/containers/create", map[string]any{
		"Image": d.image,
		"Cmd": []string{
			"--server", d.controllerURL,
			"--node_id", n.ID,
			"--interval", fmt.Sprintf("%d", d.heartbeatSec),
		},
		"Labels": labels,
		"HostConfig": map[string]any{
			"NetworkMode": d.network,
			"NanoCpus":    int64(n.CPUTotal) * 1_000_000_000,
			"Memory":      int64(n.MemoryTotal) * 1024 * 1024 * 1024,
		},
	})
	if err != nil {
		return "", fmt.Errorf("docker container create: %w", err)
	}
	var created struct {
		ID string `json:"Id"`
	}
	if err := json.NewDecoder(createResp.Body).Decode(&created); err != nil {
		createResp.Body.Close()
		return "", fmt.Errorf("docker container create decode: %w", err)
	}
	createResp.Body.Close()

	startResp, err := d.postJSON(ctx, "/containers/"+url.PathEscape(created.ID)+"/start", nil)
	if err != nil {
		return "", fmt.Errorf("docker container start: %w", err)
	}
	if err := expectOK(startResp, http.StatusNoContent, http.StatusNotModified); err != nil {
		return "", err
	}
	return created.ID, nil
}

// Stop stops and removes a node's backing container.
func (d *DockerRuntime) Stop(ctx context.Context, containerID string) error {
	if containerID == "" {
		return nil
	}
	stopResp, err := d.postJSON(ctx, "/containers/"+url.PathEscape(containerID)+"/stop?t=5", nil)
	if err != nil {
		return fmt.Errorf("docker container stop: %w", err)
	}
	if err := expectOK(stopResp, http.StatusNoContent, http.StatusNotModified); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		"http://docker/"+apiVersion+"/containers/"+url.PathEscape(containerID)+"?v=1", nil)
	if err != nil {
		return fmt.Errorf("docker container remove: %w", err)
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("docker container remove: %w", err)
	}
	return expectOK(resp, http.StatusNoContent, http.StatusNotFound)
}

// IsAvailable reports whether the Docker socket is reachable.
func (d *DockerRuntime) IsAvailable(ctx context.Context) bool {
	resp, err := d.get(ctx, "/ping", nil)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Logs fetches the recent log tail for a node's container, stripping
// Docker's 8-byte stream multiplexing header.
func (d *DockerRuntime) Logs(ctx context.Context, containerID string, tail string) (string, error) {
	if tail == "" {
		tail = "100"
	}
	resp, err := d.get(ctx, "/containers/"+url.PathEscape(containerID)+"/logs",
		url.Values{"stdout": {"1"}, "stderr": {"1"}, "tail": {tail}})
	if err != nil {
		return "", fmt.Errorf("docker logs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("docker logs %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var lines []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) > 8 && (line[0] == 1 || line[0] == 2) {
			line = line[8:]
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), scanner.Err()
}
