package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/view"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/pkg/config"
)

var (
	username string
	password string
	filter   view.PaymentFilter
)

var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "Print tenants grouped with their units",
	RunE: func(cmd *cobra.Command, _ []string) error {
		api, err := signIn(cmd.Context())
		if err != nil {
			return err
		}
		defer signOut(cmd, api)

		tenancies, err := api.ListTenancies(cmd.Context())
		if err != nil {
			return err
		}
		return printTenants(cmd.OutOrStdout(), view.GroupTenancies(tenancies))
	},
}

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Print payments, optionally filtered by status and property",
	RunE: func(cmd *cobra.Command, _ []string) error {
		api, err := signIn(cmd.Context())
		if err != nil {
			return err
		}
		defer signOut(cmd, api)

		payments, err := api.ListPayments(cmd.Context())
		if err != nil {
			return err
		}
		return printPayments(cmd.OutOrStdout(), view.FilterPayments(payments, filter))
	},
}

func init() {
	for _, c := range []*cobra.Command{tenantsCmd, paymentsCmd} {
		c.Flags().StringVarP(&username, "username", "u", os.Getenv("BOMAHUB_USERNAME"), "API username (defaults to $BOMAHUB_USERNAME)")
		c.Flags().StringVarP(&password, "password", "p", os.Getenv("BOMAHUB_PASSWORD"), "API password (defaults to $BOMAHUB_PASSWORD)")
	}
	paymentsCmd.Flags().StringVar(&filter.Status, "status", view.FilterAll, "payment status, or all")
	paymentsCmd.Flags().StringVar(&filter.Property, "property", view.FilterAll, "property id, or all")
}

// signIn logs in through the console's instrumented API client.
func signIn(ctx context.Context) (*client.Client, error) {
	cfg, err := config.Load(serviceName, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	api := apiClientFactory(cfg)()
	if _, err := api.Login(ctx, client.Credentials{Username: username, Password: password}); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return api, nil
}

// signOut ends the upstream session; a failure is only reported on stderr.
func signOut(cmd *cobra.Command, api *client.Client) {
	if err := api.Logout(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logout failed: %v\n", err)
	}
}

func printTenants(out io.Writer, tenants []view.GroupedTenant) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tUNITS\tTOTAL RENT\tSTATUS")
	for _, t := range tenants {
		units := make([]string, 0, len(t.Units))
		for _, u := range t.Units {
			units = append(units, fmt.Sprintf("%s (%s)", u.UnitNumber, u.PropertyName))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.FullName(), strings.Join(units, ", "), view.Money(t.TotalRent), t.Status)
	}
	fmt.Fprintf(w, "\n%d tenants\n", len(tenants))
	return w.Flush()
}

func printPayments(out io.Writer, payments []model.Payment) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROPERTY\tTENANT\tAMOUNT\tDUE\tSTATUS")
	for _, p := range payments {
		tenant := "-"
		if p.UnitTenancy != nil {
			tenant = p.UnitTenancy.Tenant.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Property.Name, tenant, view.Money(p.Amount), view.FormatDate(p.DueDate), p.PaymentStatus)
	}

	s := view.SummarisePayments(payments)
	fmt.Fprintf(w, "\n%d payments\t%s\n", s.Count, view.Money(s.Total))
	for _, st := range model.PaymentStatuses {
		fmt.Fprintf(w, "%s\t%d\n", st, s.ByStatus[st])
	}
	return w.Flush()
}
