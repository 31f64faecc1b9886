package main

import (
	"encoding/json"
	"fmt"
	"github.com/go-openapi/strfmt"
	"github.com/spf13/cobra"
	payments "go.lumeweb.com/portal-plugin-payments"
	"go.lumeweb.com/portal-plugin-payments/service"
	"io"
	"strings"
	"time"
)

func revenueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Sum charge amounts, optionally filtered by date range and metadata",
		Long: `Sum charge amounts.

Examples:
  paymentsd revenue
  paymentsd revenue --from 2024-01-01T00:00:00Z --to 2024-02-01T00:00:00Z
  paymentsd revenue --metadata courseId=c1`,
		Args: cobra.NoArgs,
		RunE: runRevenue,
	}

	cmd.Flags().String("from", "", "lower bound on charge creation (RFC 3339)")
	cmd.Flags().String("to", "", "upper bound on charge creation (RFC 3339)")
	cmd.Flags().String("metadata", "", "only count charges whose metadata matches key=value")

	return cmd
}

func runRevenue(cmd *cobra.Command, _ []string) error {
	filter, err := revenueFilterFromFlags(cmd)
	if err != nil {
		return err
	}

	metadata, _ := cmd.Flags().GetString("metadata")

	var key, value string
	if metadata != "" {
		if key, value, err = parseMetadata(metadata); err != nil {
			return err
		}
	}

	p, _, logger, err := setup(cmd, payments.WithoutWebhook())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var result *service.RevenueResult
	if metadata != "" {
		result, err = p.Revenue.RevenueByMetadata(cmd.Context(), key, value, filter)
	} else {
		result, err = p.Revenue.TotalRevenue(cmd.Context(), filter)
	}
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), result)
}

func paymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "List the most recent payment intents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, cfg, logger, err := setup(cmd, payments.WithoutWebhook())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			limit, _ := cmd.Flags().GetInt64("limit")
			if !cmd.Flags().Changed("limit") {
				limit = cfg.Revenue.DefaultPaymentsLimit
			}

			page, err := p.Revenue.ListPayments(cmd.Context(), limit)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), page)
		},
	}

	cmd.Flags().Int64P("limit", "l", 50, "number of payment intents to list")

	return cmd
}

func refundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refund [payment-intent-id]",
		Short: "Fully refund a payment intent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, logger, err := setup(cmd, payments.WithoutWebhook())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			refund, err := p.Revenue.Refund(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), refund)
		},
	}
}

func revenueFilterFromFlags(cmd *cobra.Command) (*service.RevenueFilter, error) {
	filter := &service.RevenueFilter{}

	for name, target := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		raw, _ := cmd.Flags().GetString(name)
		if raw == "" {
			continue
		}

		parsed, err := strfmt.ParseDateTime(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", name, err)
		}
		*target = time.Time(parsed)
	}

	return filter, nil
}

func parseMetadata(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid --metadata %q, expected key=value", raw)
	}

	return key, value, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
