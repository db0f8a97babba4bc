package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// EndpointStatus holds the health information for one SkyCast endpoint.
type EndpointStatus struct {
	Component string `json:"component"`
	Reachable bool   `json:"reachable"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	apiURL     string
	metricsURL string
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show health of a running SkyCast server",
		Long:  `Query the API and metrics endpoints of a running SkyCast server and report their health.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.apiURL, "api-url", "http://127.0.0.1:8080", "base URL of the API server")
	cmd.Flags().StringVar(&cfg.metricsURL, "metrics-url", "http://127.0.0.1:9100", "base URL of the metrics/health server")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	client := &http.Client{Timeout: 2 * time.Second}

	statuses := map[string]EndpointStatus{
		"api":       queryEndpoint(client, "api", cfg.apiURL+"/healthz"),
		"liveness":  queryEndpoint(client, "liveness", cfg.metricsURL+"/healthz/liveness"),
		"readiness": queryEndpoint(client, "readiness", cfg.metricsURL+"/healthz/readiness"),
	}

	var output string
	var err error

	if cfg.jsonOutput {
		output, err = formatStatusJSON(statuses)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
	} else {
		output = formatStatusTable(statuses)
	}

	cmd.Println(output)
	return nil
}

// queryEndpoint performs a GET against a health URL. The API endpoint
// answers with a {"status": ...} document, the metrics endpoints with
// plain text; both are accepted.
func queryEndpoint(client *http.Client, component, url string) EndpointStatus {
	status := EndpointStatus{Component: component}

	resp, err := client.Get(url)
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		status.Error = fmt.Sprintf("failed to read response: %v", err)
		return status
	}

	var body struct {
		Status string `json:"status"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Status != "" {
		status.Status = body.Status
	} else {
		status.Status = strings.TrimSpace(string(raw))
	}

	status.Reachable = resp.StatusCode == http.StatusOK
	if !status.Reachable && status.Error == "" {
		status.Error = fmt.Sprintf("unexpected status code %d", resp.StatusCode)
	}
	return status
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(statuses map[string]EndpointStatus) string {
	var buf []byte
	w := tabwriter.NewWriter((*byteWriter)(&buf), 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "ENDPOINT\tREACHABLE\tSTATUS")
	_, _ = fmt.Fprintln(w, "--------\t---------\t------")

	// Rows in consistent order
	for _, component := range []string{"api", "liveness", "readiness"} {
		status := statuses[component]
		if status.Reachable {
			_, _ = fmt.Fprintf(w, "%s\tyes\t%s\n", component, status.Status)
		} else {
			reason := "unreachable"
			if status.Error != "" {
				reason = status.Error
			}
			_, _ = fmt.Fprintf(w, "%s\tno\t%s\n", component, reason)
		}
	}

	_ = w.Flush()
	return string(buf)
}

// formatStatusJSON formats the status as JSON.
func formatStatusJSON(statuses map[string]EndpointStatus) (string, error) {
	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal status: %w", err)
	}
	return string(data), nil
}

// byteWriter is a simple writer that appends to a byte slice.
type byteWriter []byte

func (w *byteWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}
