package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and update engine configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value for a config key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := doRequest(http.MethodGet, fmt.Sprintf("%s/api/v1/config/%s", serverURL, args[0]), nil)
			if err != nil {
				return err
			}
			return printJSON(cmd, body)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <json-value>",
		Short: "Replace the value for a config key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := doRequest(http.MethodPut, fmt.Sprintf("%s/api/v1/config/%s", serverURL, args[0]), []byte(args[1]))
			if err != nil {
				return err
			}
			cmd.Println("ok")
			return nil
		},
	})

	return configCmd
}

func newAlertsCmd() *cobra.Command {
	var unackedOnly bool

	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "List and acknowledge alerts",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := serverURL + "/api/v1/alerts"
			if unackedOnly {
				url += "?acknowledged=false"
			}
			body, err := doRequest(http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd, body)
		},
	}
	listCmd.Flags().BoolVar(&unackedOnly, "unacked", false, "show only unacknowledged alerts")
	alertsCmd.AddCommand(listCmd)

	alertsCmd.AddCommand(&cobra.Command{
		Use:   "ack <alert-id> <actor-id>",
		Short: "Acknowledge an alert",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _ := json.Marshal(map[string]string{"actor_id": args[1]})
			_, err := doRequest(http.MethodPost, fmt.Sprintf("%s/api/v1/alerts/%s/ack", serverURL, args[0]), payload)
			if err != nil {
				return err
			}
			cmd.Println("acknowledged")
			return nil
		},
	})

	return alertsCmd
}

func doRequest(method, url string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	return body, nil
}

func printJSON(cmd *cobra.Command, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		cmd.Println(string(body))
		return nil
	}
	cmd.Println(buf.String())
	return nil
}
