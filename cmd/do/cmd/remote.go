package cmd

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// remoteTarget is the host running the objectives systemd unit.
type remoteTarget struct {
	host    string
	port    string
	keyPath string
	unit    string
	appPort string
}

func RemoteCmd() *cobra.Command {
	target := &remoteTarget{}

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Operate the deployed server over SSH",
	}

	cmd.PersistentFlags().StringVar(&target.host, "host", os.Getenv("SSH_HOST"), "SSH host (user@host) or set SSH_HOST env")
	cmd.PersistentFlags().StringVar(&target.port, "ssh-port", "22", "SSH port")
	cmd.PersistentFlags().StringVar(&target.keyPath, "key", "", "Path to SSH private key (default: ~/.ssh/id_ed25519)")
	cmd.PersistentFlags().StringVar(&target.unit, "unit", "objectives", "systemd unit name")
	cmd.PersistentFlags().StringVar(&target.appPort, "app-port", "8090", "port the server listens on")

	cmd.AddCommand(
		remoteStatusCmd(target),
		remoteRestartCmd(target),
		remoteLogsCmd(target),
		remoteHealthCmd(target),
	)
	return cmd
}

func (t *remoteTarget) unitName() string {
	if strings.HasSuffix(t.unit, ".service") {
		return t.unit
	}
	return t.unit + ".service"
}

func (t *remoteTarget) run(command string) (string, error) {
	if t.host == "" {
		return "", fmt.Errorf("no host: pass --host or set SSH_HOST")
	}

	client, err := sshConnect(t.host, t.port, t.keyPath)
	if err != nil {
		return "", fmt.Errorf("ssh connect: %w", err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	output, err := session.CombinedOutput(command)
	return string(output), err
}

// unitStatus is one row of `systemctl list-units --output=json`.
type unitStatus struct {
	Unit        string `json:"unit"`
	Load        string `json:"load"`
	Active      string `json:"active"`
	Sub         string `json:"sub"`
	Description string `json:"description"`
}

func remoteStatusCmd(t *remoteTarget) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the systemd state of the server unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := t.run("systemctl list-units --all --no-pager --output=json " + t.unitName())
			if err != nil {
				return fmt.Errorf("run command: %w", err)
			}

			units, err := parseUnits(output)
			if err != nil {
				return err
			}
			if len(units) == 0 {
				return fmt.Errorf("unit %s not found on %s", t.unitName(), t.host)
			}

			fmt.Printf("%-30s %-8s %-10s %s\n", "UNIT", "ACTIVE", "SUB", "DESCRIPTION")
			for _, u := range units {
				fmt.Printf("%-30s %-8s %-10s %s\n", u.Unit, u.Active, u.Sub, u.Description)
			}
			return nil
		},
	}
}

func parseUnits(output string) ([]unitStatus, error) {
	var units []unitStatus
	err := json.Unmarshal([]byte(output), &units)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return units, nil
}

func remoteRestartCmd(t *remoteTarget) *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart the server unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Restarting %s on %s...\n", t.unitName(), t.host)
			output, err := t.run("systemctl restart " + t.unitName())
			if err != nil {
				return fmt.Errorf("restart failed: %w: %s", err, strings.TrimSpace(output))
			}
			fmt.Println("Done.")
			return nil
		},
	}
}

func remoteLogsCmd(t *remoteTarget) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print recent server logs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := t.run(journalCommand(t.unitName(), lines))
			if err != nil {
				return fmt.Errorf("journalctl: %w", err)
			}
			fmt.Print(output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of lines")
	return cmd
}

func journalCommand(unit string, lines int) string {
	if lines <= 0 {
		lines = 100
	}
	return "journalctl --no-pager -o cat -u " + unit + " -n " + strconv.Itoa(lines)
}

func remoteHealthCmd(t *remoteTarget) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Call /healthz from the host itself",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := t.run("curl -fsS http://127.0.0.1:" + t.appPort + "/healthz")
			if err != nil {
				return fmt.Errorf("unhealthy: %w: %s", err, strings.TrimSpace(output))
			}
			fmt.Println(strings.TrimSpace(output))
			return nil
		},
	}
}

func sshConnect(host, port, keyPath string) (*ssh.Client, error) {
	authMethods, err := sshAuthMethods(keyPath)
	if err != nil {
		return nil, err
	}

	user, addr := splitHost(host)
	config := &ssh.ClientConfig{
		User:            user,
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	client, err := ssh.Dial("tcp", net.JoinHostPort(addr, port), config)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return client, nil
}

func sshAuthMethods(keyPath string) ([]ssh.AuthMethod, error) {
	// Agent first, unless a key file was requested explicitly
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" && keyPath == "" {
		conn, err := net.Dial("unix", sock)
		if err == nil {
			agentClient := agent.NewClient(conn)
			keys, err := agentClient.List()
			if err == nil && len(keys) > 0 {
				return []ssh.AuthMethod{ssh.PublicKeysCallback(agentClient.Signers)}, nil
			}
			conn.Close()
		}
	}

	key, err := readSSHKey(keyPath)
	if err != nil {
		return nil, err
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse key (use ssh-add to load passphrase-protected keys): %w", err)
	}
	return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
}

func readSSHKey(keyPath string) ([]byte, error) {
	if keyPath != "" {
		key, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("read key %s: %w", keyPath, err)
		}
		return key, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}

	keyNames := []string{"id_ed25519", "id_rsa", "id_ecdsa"}
	for _, name := range keyNames {
		key, err := os.ReadFile(filepath.Join(home, ".ssh", name))
		if err == nil {
			return key, nil
		}
	}

	if _, err := exec.LookPath("ssh-add"); err == nil {
		return nil, fmt.Errorf("no SSH key found in ~/.ssh (tried: %v); load one with ssh-add", keyNames)
	}
	return nil, fmt.Errorf("no SSH key found in ~/.ssh (tried: %v)", keyNames)
}

// splitHost parses user@host, defaulting the user to root.
func splitHost(host string) (string, string) {
	user, addr, ok := strings.Cut(host, "@")
	if !ok {
		return "root", host
	}
	return user, addr
}
