package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type simulateOptions struct {
	baseURL string
	userID  string
	name    string
	email   string
	phone   string
	date    string
	time    string
	haircut string
	timeout time.Duration
}

func newSimulateBookingCmd() *cobra.Command {
	opts := simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate-booking",
		Short: "Submit the public booking form of a shop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulateBooking(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.baseURL, "base-url", getenv("BASE_URL", "http://localhost:8080"), "web front base url")
	f.StringVar(&opts.userID, "user-id", getenv("USER_ID", ""), "shop owner id")
	f.StringVar(&opts.name, "name", "Cliente Teste", "customer name")
	f.StringVar(&opts.email, "email", "", "customer email")
	f.StringVar(&opts.phone, "phone", "", "customer phone")
	f.StringVar(&opts.date, "date", "", "date, YYYY-MM-DD")
	f.StringVar(&opts.time, "time", "", "time, HH:MM")
	f.StringVar(&opts.haircut, "haircut", "", "haircut id")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}

func runSimulateBooking(cmd *cobra.Command, opts simulateOptions) error {
	if strings.TrimSpace(opts.userID) == "" {
		return errors.New("--user-id (or USER_ID) is required")
	}
	form := url.Values{
		"key":        {uuid.NewString()},
		"name":       {opts.name},
		"email":      {opts.email},
		"phone":      {opts.phone},
		"date":       {opts.date},
		"time":       {opts.time},
		"haircut_id": {opts.haircut},
	}
	target := strings.TrimRight(opts.baseURL, "/") + "/agendar/" + url.PathEscape(opts.userID)

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// A 303 to ?ok=1 is the success answer; do not follow it.
	client := &http.Client{
		Timeout: opts.timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	loc := resp.Header.Get("Location")
	fmt.Fprintf(cmd.OutOrStdout(), "status=%d location=%s\n", resp.StatusCode, loc)
	if resp.StatusCode != http.StatusSeeOther || !strings.HasSuffix(loc, "?ok=1") {
		return fmt.Errorf("booking rejected with status %d", resp.StatusCode)
	}
	return nil
}
