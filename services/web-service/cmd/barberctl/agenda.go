package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/barberpro/barberweb/services/web-service/internal/apiclient"
	"github.com/barberpro/barberweb/services/web-service/internal/format"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/barberpro/barberweb/services/web-service/internal/resource"
	"github.com/barberpro/barberweb/services/web-service/internal/schedule"
	"github.com/spf13/cobra"
)

type agendaOptions struct {
	apiURL   string
	token    string
	timezone string
	source   string
	timeout  time.Duration
}

func newAgendaCmd() *cobra.Command {
	opts := agendaOptions{}
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print the merged app and Telegram agenda",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAgenda(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.apiURL, "api-url", getenv("API_URL", "http://localhost:3333"), "backend API base url")
	cmd.Flags().StringVar(&opts.token, "token", getenv("API_TOKEN", ""), "backend bearer token")
	cmd.Flags().StringVar(&opts.timezone, "tz", getenv("DISPLAY_TIMEZONE", "America/Sao_Paulo"), "display time zone")
	cmd.Flags().StringVar(&opts.source, "source", schedule.SourceAll, "filter by source: all, app or telegram")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}

func runAgenda(cmd *cobra.Command, opts agendaOptions) error {
	if opts.token == "" {
		return errors.New("--token (or API_TOKEN) is required")
	}
	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("unknown time zone %q: %w", opts.timezone, err)
	}

	client := apiclient.New(opts.apiURL, apiclient.WithTimeout(opts.timeout))
	ctx := apiclient.WithToken(cmd.Context(), opts.token)

	var (
		native resource.Resource[[]model.NativeBooking]
		bot    resource.Resource[[]model.BotBooking]
	)
	if err := resource.LoadAll(ctx,
		resource.Task(&native, client.ListSchedule),
		resource.Task(&bot, client.ListTelegram),
	); err != nil {
		return fmt.Errorf("load agenda: %w", err)
	}

	merged := schedule.Merge(native.Data, bot.Data, loc)
	items := schedule.Apply(merged.Items, schedule.Query{Source: opts.source})
	return printAgenda(cmd.OutOrStdout(), items, merged.PendingCount)
}

func printAgenda(w io.Writer, items []model.AppointmentRecord, pending int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATA\tHORA\tCLIENTE\tSERVIÇO\tVALOR\tORIGEM\tID")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.DisplayDate, it.DisplayTime, it.CustomerName, it.Service.Name,
			format.BRL(it.Service.PriceCents), it.Source.Label(), it.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d agendamento(s), %d pendente(s) no Telegram\n", len(items), pending)
	return err
}
