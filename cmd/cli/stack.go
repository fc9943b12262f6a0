package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"
)

const composeProject = "dailydiet"

func isInsideContainer() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	data, err := os.ReadFile("/proc/1/cgroup")
	return err == nil && (strings.Contains(string(data), "docker") || strings.Contains(string(data), "kubepods"))
}

func printDockerStatus() {
	fmt.Printf("  %s%sDocker%s\n", Bold, White, Reset)

	output := strings.TrimSpace(runCmd("docker", "ps", "-a", "--filter", "name="+composeProject,
		"--format", "{{.Names}}|{{.Status}}|{{.Ports}}"))

	if output == "" {
		fmt.Printf("  %s[-] no containers%s\n", Dim, Reset)
		return
	}

	for _, line := range strings.Split(output, "\n") {
		parts := strings.SplitN(line, "|", 3)
		if len(parts) < 2 {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(parts[0], composeProject+"-"), "-1")

		color, icon := Red, "[-]"
		if strings.Contains(parts[1], "Up") {
			color, icon = Green, "[+]"
		}

		port := ""
		if len(parts) > 2 {
			port = hostPort(parts[2])
		}
		fmt.Printf("  %s%s%s %-22s%s\n", color, icon, Reset, name, port)
	}
}

// hostPort extracts the published host port from docker's Ports column.
func hostPort(ports string) string {
	for _, p := range strings.Split(ports, ",") {
		p = strings.TrimSpace(p)
		if host, _, ok := strings.Cut(p, "->"); ok {
			return fmt.Sprintf(" %s-> %s%s", Dim, strings.TrimPrefix(host, "0.0.0.0:"), Reset)
		}
	}
	return ""
}

func printHealthChecks(apiBase string) {
	fmt.Printf("  %s%sHealth%s\n", Bold, White, Reset)

	endpoints := []struct {
		name string
		url  string
	}{
		{"api", apiBase + "/health"},
		{"metrics", apiBase + "/metrics"},
		{"rabbitmq", "http://localhost:15672/"},
	}

	client := http.Client{Timeout: 2 * time.Second}
	for _, ep := range endpoints {
		resp, err := client.Get(ep.url)
		if err != nil {
			fmt.Printf("  %s[-]%s %-12s %soffline%s\n", Red, Reset, ep.name, Red, Reset)
			continue
		}
		resp.Body.Close()
		fmt.Printf("  %s[+]%s %-12s %s%d%s\n", Green, Reset, ep.name, Green, resp.StatusCode, Reset)
	}
}

func printRabbitQueues() {
	fmt.Printf("  %s%sRabbitMQ Queues%s\n", Bold, White, Reset)

	output := strings.TrimSpace(runCmd("docker", "exec", composeProject+"-rabbitmq-1",
		"rabbitmqctl", "list_queues", "name", "messages", "consumers", "--quiet"))

	if output == "" {
		fmt.Printf("  %s[-] rabbitmq not reachable%s\n", Dim, Reset)
		return
	}

	fmt.Printf("  %s%-35s %8s %10s%s\n", Dim, "QUEUE", "MSGS", "CONSUMERS", Reset)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		color := Green
		if fields[1] != "0" {
			color = Yellow
			if strings.HasPrefix(fields[0], "dlq.") {
				color = Red
			}
		}
		fmt.Printf("  %s%-35s %s%8s%s %10s\n", Dim, fields[0], color, fields[1], Reset, fields[2])
	}
}

func shellExec(name string, args ...string) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		fmt.Printf("  %s[x] %v%s\n", Red, err, Reset)
	}
}

func shellExecRaw(input string) {
	shell, flag := "sh", "-c"
	if _, err := exec.LookPath("bash"); err == nil {
		shell = "bash"
	}

	cmd := exec.Command(shell, flag, input)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Run()
}

func runCmd(name string, args ...string) string {
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Run()
	return out.String()
}

func clearScreen() {
	fmt.Print("\033[H\033[2J")
}
