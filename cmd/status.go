package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/codeview/cli/internal/session"
	"github.com/codeview/cli/pkg/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// healthResponse is the body code-server serves at /healthz.
type healthResponse struct {
	Status        string `json:"status"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
}

type statusResult struct {
	Endpoint      string `json:"endpoint"`
	Reachable     bool   `json:"reachable"`
	Status        string `json:"status"`
	LastHeartbeat string `json:"last_heartbeat,omitempty"`
	LoginRequired bool   `json:"login_required"`
}

// StatusCmd checks whether the stored code-server answers.
type StatusCmd struct {
	store  session.EndpointReader
	client *http.Client
}

type StatusInput struct {
	Output string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the stored code-server is up",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringP("output", "o", "", "Output format (json)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	s := StatusCmd{store: newStore(cfg), client: &http.Client{Timeout: 10 * time.Second}}
	return s.Check(cmd.Context(), StatusInput{Output: output})
}

func (s StatusCmd) Check(ctx context.Context, in StatusInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	endpoint, ok := s.store.Endpoint()
	if !ok {
		return fmt.Errorf("no code-server address configured: run `codeview configure`")
	}

	res := statusResult{Endpoint: endpoint.Redacted(), Status: "unknown"}
	health, err := s.health(ctx, endpoint)
	if err != nil {
		pterm.Debug.Printf("health check failed: %v\n", err)
	} else {
		res.Reachable = true
		res.Status = health.Status
		if health.LastHeartbeat > 0 {
			res.LastHeartbeat = time.UnixMilli(health.LastHeartbeat).Local().Format(time.RFC3339)
		}
		res.LoginRequired = s.loginRequired(ctx, endpoint)
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(res)
	}

	printStatus(res)
	if !res.Reachable {
		return fmt.Errorf("could not reach %s", res.Endpoint)
	}
	return nil
}

func (s StatusCmd) health(ctx context.Context, endpoint *url.URL) (healthResponse, error) {
	var health healthResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.JoinPath("healthz").String(), nil)
	if err != nil {
		return health, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return health, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return health, fmt.Errorf("health request failed: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return health, fmt.Errorf("invalid response: %w", err)
	}
	return health, nil
}

// loginRequired reports whether the endpoint redirects to its login page.
func (s StatusCmd) loginRequired(ctx context.Context, endpoint *url.URL) bool {
	client := *s.client
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	location, err := resp.Location()
	if err != nil {
		return false
	}
	return session.IsLoginPage(location)
}

var statusDisplay = map[string]struct {
	label string
	rgb   pterm.RGB
}{
	"alive":   {label: "Alive", rgb: pterm.NewRGB(31, 163, 130)},
	"expired": {label: "Idle", rgb: pterm.NewRGB(245, 158, 11)},
	"unknown": {label: "Unreachable", rgb: pterm.NewRGB(239, 68, 68)},
}

func getStatusDisplay(status string) (string, pterm.RGB) {
	if d, ok := statusDisplay[status]; ok {
		return d.label, d.rgb
	}
	return "Unknown", pterm.NewRGB(128, 128, 128)
}

func coloredDot(rgb pterm.RGB) string {
	return rgb.Sprint("●")
}

func printStatus(res statusResult) {
	label, rgb := getStatusDisplay(res.Status)
	pterm.Println()
	pterm.Printf("  %s %s  %s\n", coloredDot(rgb), pterm.Bold.Sprint(res.Endpoint), label)
	if res.Reachable {
		pterm.Printf("    %-16s %s\n", "Last heartbeat", util.OrDash(res.LastHeartbeat))
		pterm.Printf("    %-16s %t\n", "Login required", res.LoginRequired)
	}
	pterm.Println()
}
